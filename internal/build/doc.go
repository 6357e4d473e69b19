// Package build provides the canonical docsite pipeline. All execution paths
// (check, build, print, watch) route through Service:
//
//	resolve → index → verify → expand → plugins → manifest → metrics
//
// Check stops after expansion; Run executes every stage and writes output.
package build
