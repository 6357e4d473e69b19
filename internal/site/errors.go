package site

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind classifies why a site configuration was rejected.
type ErrorKind string

const (
	KindMissingField            ErrorKind = "MissingField"
	KindInvalidKey              ErrorKind = "InvalidKey"
	KindInvalidValue            ErrorKind = "InvalidValue"
	KindConflictingNavDirective ErrorKind = "ConflictingNavDirective"
	KindDuplicateLabel          ErrorKind = "DuplicateLabel"
)

// Sentinels for errors.Is matching by kind only.
var (
	ErrMissingField            = &ConfigError{Kind: KindMissingField}
	ErrInvalidKey              = &ConfigError{Kind: KindInvalidKey}
	ErrInvalidValue            = &ConfigError{Kind: KindInvalidValue}
	ErrConflictingNavDirective = &ConfigError{Kind: KindConflictingNavDirective}
	ErrDuplicateLabel          = &ConfigError{Kind: KindDuplicateLabel}
)

// ConfigError reports the first structural problem found while resolving.
//
// Field is the location in the authored document (e.g. "title",
// "sidebar[1].items[0].slug"). Path is the chain of navigation labels from the
// sidebar root down to the offending node and is empty outside the sidebar.
type ConfigError struct {
	Kind   ErrorKind
	Field  string
	Path   []string
	Detail string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Field != "" || len(e.Path) > 0 {
		b.WriteString(" at ")
	}
	if len(e.Path) > 0 {
		b.WriteString(FormatPath(e.Path))
		if e.Field != "" {
			b.WriteString(" (" + e.Field + ")")
		}
	} else {
		b.WriteString(e.Field)
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

// Is matches a sentinel of the same kind. A target carrying a Field or Path
// must match those too.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok || t.Kind != e.Kind {
		return false
	}
	if t.Field != "" && t.Field != e.Field {
		return false
	}
	if len(t.Path) > 0 && FormatPath(t.Path) != FormatPath(e.Path) {
		return false
	}
	return true
}

// FormatPath renders a label path as ["A" "B"].
func FormatPath(path []string) string {
	quoted := make([]string, len(path))
	for i, p := range path {
		quoted[i] = strconv.Quote(p)
	}
	return "[" + strings.Join(quoted, " ") + "]"
}

func missing(field string, path []string, format string, args ...any) *ConfigError {
	return newConfigError(KindMissingField, field, path, format, args...)
}

func newConfigError(kind ErrorKind, field string, path []string, format string, args ...any) *ConfigError {
	var p []string
	if len(path) > 0 {
		p = append([]string(nil), path...)
	}
	return &ConfigError{Kind: kind, Field: field, Path: p, Detail: fmt.Sprintf(format, args...)}
}
