package errors

// ErrorCategory groups errors by the part of docsite that rejected the input.
// Each category maps to one CLI exit code.
type ErrorCategory string

const (
	// CategoryConfig covers the project file and the site description in it.
	CategoryConfig ErrorCategory = "config"
	// CategoryValidation covers invalid command usage.
	CategoryValidation ErrorCategory = "validation"
	// CategoryContent covers the content directory: missing documents,
	// unresolved slugs and missing assets.
	CategoryContent ErrorCategory = "content"
	// CategoryPlugin covers plugins that failed while executing.
	CategoryPlugin     ErrorCategory = "plugin"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"
	// CategoryRuntime covers the process environment (signals, file watching).
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryInternal:   10,
	CategoryContent:    11,
	CategoryPlugin:     11,
	CategoryFileSystem: 11,
	CategoryGit:        11,
	CategoryRuntime:    12,
}

// ExitCode is the process exit status for errors of this category.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the command
	SeverityError   ErrorSeverity = "error"   // Fails the current stage
	SeverityWarning ErrorSeverity = "warning" // Build continues
)

// Field is one key/value pair of error context.
type Field struct {
	Key   string
	Value any
}

// Fields is ordered error context. Keys are unique; setting an existing key
// replaces its value in place.
type Fields []Field

// With returns a copy of f with key set to value.
func (f Fields) With(key string, value any) Fields {
	out := make(Fields, len(f), len(f)+1)
	copy(out, f)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Key: key, Value: value})
}

// Get retrieves a context value.
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// GetString retrieves a string context value.
func (f Fields) GetString(key string) (string, bool) {
	v, ok := f.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
