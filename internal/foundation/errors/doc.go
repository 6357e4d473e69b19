// Package errors classifies docsite failures so the CLI can pick an exit
// code and print the offending location.
//
// Build errors with the fluent builder and wrap the underlying cause:
//
//	err := errors.WrapError(resolveErr, errors.CategoryConfig, "invalid site configuration").
//		Fatal().
//		WithContext("field", "sidebar[1].items[0]").
//		WithHint("edit docsite.yaml").
//		Build()
//
// CLIErrorAdapter maps the category to an exit code (see ErrorCategory.ExitCode)
// and prints the message, the cause and the hint.
package errors
