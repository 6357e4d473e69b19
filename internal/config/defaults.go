package config

import "path/filepath"

// Defaults for the build section. Content and output follow the Starlight
// project layout.
const (
	DefaultContentDir = "src/content/docs"
	DefaultOutputDir  = "dist"
)

func applyBuildDefaults(b *BuildConfig, baseDir string) {
	if baseDir == "" {
		baseDir = "."
	}
	switch {
	case b.Root == "":
		b.Root = baseDir
	case !filepath.IsAbs(b.Root):
		b.Root = filepath.Join(baseDir, b.Root)
	}
	b.Root = filepath.Clean(b.Root)

	if b.ContentDir == "" {
		b.ContentDir = DefaultContentDir
	}
	if b.OutputDir == "" {
		b.OutputDir = DefaultOutputDir
	}
	b.ContentDir = filepath.Clean(b.ContentDir)
	b.OutputDir = filepath.Clean(b.OutputDir)
	if b.MetricsFile != "" {
		b.MetricsFile = filepath.Clean(b.MetricsFile)
	}
}
