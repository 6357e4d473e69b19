package plugin

import "fmt"

// PluginType identifies the category of plugin.
type PluginType string

const (
	// PluginTypeTheme describes the site's appearance for the renderer.
	PluginTypeTheme PluginType = "theme"

	// PluginTypeGenerator writes additional artifacts derived from the site.
	PluginTypeGenerator PluginType = "generator"
)

// IsValid returns true if the plugin type is recognized.
func (t PluginType) IsValid() bool {
	switch t {
	case PluginTypeTheme, PluginTypeGenerator:
		return true
	default:
		return false
	}
}

// String returns the string representation of the plugin type.
func (t PluginType) String() string {
	return string(t)
}

// PluginError reports a plugin that did not complete.
type PluginError struct {
	Plugin  string
	Version string

	// Skipped is set when the plugin never started because the build was cancelled.
	Skipped bool
	// Panicked is set when Execute panicked; Err holds the recovered value.
	Panicked bool

	Err error
}

func (e *PluginError) Error() string {
	switch {
	case e.Skipped:
		return fmt.Sprintf("plugin %s@%s skipped: %v", e.Plugin, e.Version, e.Err)
	case e.Panicked:
		return fmt.Sprintf("plugin %s@%s panicked: %v", e.Plugin, e.Version, e.Err)
	default:
		return fmt.Sprintf("plugin %s@%s: %v", e.Plugin, e.Version, e.Err)
	}
}

func (e *PluginError) Unwrap() error { return e.Err }

func newPluginError(meta PluginMetadata, err error) *PluginError {
	return &PluginError{Plugin: meta.Name, Version: meta.Version, Err: err}
}
