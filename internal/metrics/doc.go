// Package metrics records docsite build metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never nil-check:
//
//	b := build.New(cfg) // NoopRecorder
//	b.Recorder = metrics.NewPrometheusRecorder(reg)
//
// When the project file sets build.metrics_file, the build gathers the
// Prometheus registry into a node_exporter textfile after each run (see
// WriteTextfile), so one-shot CLI builds can still be scraped.
package metrics
