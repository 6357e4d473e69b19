// Package site resolves an authored documentation site description into a
// validated SiteConfig.
//
// Resolution is a pure, single pass: required fields are checked, optional
// fields defaulted and the sidebar is walked top-down carrying the label path
// of each node for error reporting. Anything that needs the content
// filesystem (expanding autogenerate directives, checking that slugs and
// assets exist) belongs to package content.
package site
