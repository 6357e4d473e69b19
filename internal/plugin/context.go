package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/site"
	"github.com/google/renameio/v2"
)

// PluginContext gives a plugin read access to the build state and a place to
// write its output. Each plugin receives its own copy carrying its options.
type PluginContext struct {
	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Site is the resolved configuration with autogenerated groups expanded.
	Site *site.SiteConfig

	// Index holds the documents of the content directory.
	Index *content.Index

	// OutputDir is where plugin artifacts are written.
	OutputDir string

	// BuildID uniquely identifies this build.
	BuildID string

	// Options are the plugin's options from the project file.
	Options map[string]any
}

// NewPluginContext creates a new plugin context with the given build state.
func NewPluginContext(logger *slog.Logger, cfg *site.SiteConfig, idx *content.Index, outputDir, buildID string) *PluginContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &PluginContext{
		Logger:    logger,
		Site:      cfg,
		Index:     idx,
		OutputDir: outputDir,
		BuildID:   buildID,
	}
}

// ForPlugin returns a copy of the context scoped to one enabled plugin.
func (pc *PluginContext) ForPlugin(name string, options map[string]any) *PluginContext {
	cp := *pc
	if cp.Logger == nil {
		cp.Logger = slog.Default()
	}
	cp.Logger = cp.Logger.With(logfields.Plugin(name))
	cp.Options = options
	return &cp
}

// String returns a string option, or def when unset.
func (pc *PluginContext) String(key, def string) string {
	if v, ok := pc.Options[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a boolean option, or def when unset.
func (pc *PluginContext) Bool(key string, def bool) bool {
	if v, ok := pc.Options[key].(bool); ok {
		return v
	}
	return def
}

// WriteFile atomically writes data to name below OutputDir, creating parent
// directories as needed. It returns the written path.
func (pc *PluginContext) WriteFile(name string, data []byte) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("output %q escapes the output directory", name)
	}
	target := filepath.Join(pc.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	pending, err := renameio.NewPendingFile(target, renameio.WithPermissions(0o644))
	if err != nil {
		return "", fmt.Errorf("create pending file %s: %w", name, err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			pc.Logger.Debug("cleanup pending file", logfields.Path(target), logfields.Error(err))
		}
	}()
	if _, err := pending.Write(data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("atomically replace %s: %w", name, err)
	}
	return target, nil
}
