package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPlugin     = "plugin"
	KeyConfig     = "config"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyDocuments  = "documents"
	KeyNavNodes   = "nav_nodes"
	KeyProblems   = "problems"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Config(path string) slog.Attr    { return slog.String(KeyConfig, path) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Documents(n int) slog.Attr       { return slog.Int(KeyDocuments, n) }
func NavNodes(n int) slog.Attr        { return slog.Int(KeyNavNodes, n) }
func Problems(n int) slog.Attr        { return slog.Int(KeyProblems, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
