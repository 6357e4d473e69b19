package build

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/plugin"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Stage names used for logging and metrics.
const (
	StageResolve  = "resolve"
	StageIndex    = "index"
	StageVerify   = "verify"
	StageExpand   = "expand"
	StagePlugins  = "plugins"
	StageManifest = "manifest"
	StageMetrics  = "metrics"
)

// Request contains all inputs required to check or build a site.
type Request struct {
	// Config is the loaded project file.
	Config *config.Config

	// OutputDir overrides build.output_dir when set.
	OutputDir string

	// Content enables the content stages (index, verify, expand) for Check.
	// Run always includes them.
	Content bool
}

// Result contains the outcome of a check or build.
type Result struct {
	Status  BuildStatus
	BuildID string

	// Site is the resolved configuration; Expanded has autogenerated groups filled in.
	Site     *site.SiteConfig
	Expanded *site.SiteConfig

	Index    *content.Index
	Problems []content.Problem
	Plugins  []plugin.Result

	Manifest     *manifest.BuildManifest
	ManifestPath string
	// Unchanged is set when the previous manifest in the output directory
	// has the same input hash.
	Unchanged bool
	OutputPath   string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Warnings returns the problems that did not fail the build.
func (r *Result) Warnings() []content.Problem {
	var out []content.Problem
	for _, p := range r.Problems {
		if p.Warning {
			out = append(out, p)
		}
	}
	return out
}

// NavNodes counts the nodes of the expanded sidebar, or of the resolved one
// when content stages did not run.
func (r *Result) NavNodes() int {
	cfg := r.Expanded
	if cfg == nil {
		cfg = r.Site
	}
	if cfg == nil {
		return 0
	}
	n := 0
	_ = cfg.Walk(func([]string, site.NavNode) error { n++; return nil })
	return n
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusWarning   BuildStatus = "warning"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build produced usable output.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusWarning
}
