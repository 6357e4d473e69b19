// Package plugin provides the plugin host for docsite builds. Plugins are
// enabled by name in the project file and run after the site configuration
// is resolved and its navigation expanded; they write their output into the
// build output directory.
package plugin

import (
	"context"
	"fmt"
)

// Plugin represents a docsite plugin with metadata and lifecycle methods.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, type, outputs).
	Metadata() PluginMetadata

	// Validate checks the options given to the plugin in the project file.
	// Returns an error if the options are invalid.
	Validate(options map[string]any) error

	// Execute runs the plugin with the given context.
	Execute(ctx context.Context, pluginCtx *PluginContext) error
}

// PluginMetadata describes a plugin's identity and what it produces.
type PluginMetadata struct {
	// Name is the unique plugin identifier used in the project file (e.g., "llms-txt").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string

	// Outputs lists the files the plugin writes, relative to the output directory.
	Outputs []string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// OutputLister is implemented by plugins whose output files depend on their
// options. Plugins without it are assumed to write Metadata().Outputs.
type OutputLister interface {
	OutputsFor(options map[string]any) []string
}
