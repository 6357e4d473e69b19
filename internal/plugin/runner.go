package plugin

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Result is the outcome of one plugin execution.
type Result struct {
	Name     string
	Version  string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the plugin finished without error.
func (r Result) Succeeded() bool { return r.Err == nil }

// Enabled pairs a registered plugin with the options it was enabled with.
type Enabled struct {
	Plugin  Plugin
	Options map[string]any
}

// Prepare looks up every referenced plugin and validates its options. It
// fails on the first unknown name (InvalidKey) or rejected options
// (InvalidValue), before any plugin has run.
func (r *Registry) Prepare(refs []site.PluginRef) ([]Enabled, error) {
	out := make([]Enabled, 0, len(refs))
	for i, ref := range refs {
		p, err := r.Get(ref.Name)
		if err != nil {
			return nil, &site.ConfigError{
				Kind:   site.KindInvalidKey,
				Field:  fmt.Sprintf("plugins[%d].name", i),
				Detail: fmt.Sprintf("unknown plugin %q (available: %s)", ref.Name, strings.Join(r.Names(), ", ")),
			}
		}
		if err := p.Validate(ref.Options); err != nil {
			return nil, &site.ConfigError{
				Kind:   site.KindInvalidValue,
				Field:  fmt.Sprintf("plugins[%d].options", i),
				Detail: fmt.Sprintf("plugin %s: %v", ref.Name, err),
			}
		}
		out = append(out, Enabled{Plugin: p, Options: ref.Options})
	}
	return out, nil
}

// Run executes the enabled plugins sequentially in the given order. A plugin
// that returns an error or panics is recorded as failed and the remaining
// plugins still run. Cancellation of ctx marks the remaining plugins failed.
func Run(ctx context.Context, pc *PluginContext, enabled []Enabled) []Result {
	results := make([]Result, 0, len(enabled))
	for _, e := range enabled {
		meta := e.Plugin.Metadata()
		res := Result{Name: meta.Name, Version: meta.Version}
		if err := ctx.Err(); err != nil {
			perr := newPluginError(meta, err)
			perr.Skipped = true
			res.Err = perr
			results = append(results, res)
			continue
		}

		scoped := pc.ForPlugin(meta.Name, e.Options)
		start := time.Now()
		pctx := observability.WithPlugin(ctx, meta.Name)
		res.Err = execute(pctx, e.Plugin, scoped)
		res.Duration = time.Since(start)

		ms := logfields.DurationMS(float64(res.Duration.Microseconds()) / 1000)
		if res.Err != nil {
			observability.ErrorContext(pctx, "Plugin failed", logfields.Error(res.Err), ms)
		} else {
			observability.DebugContext(pctx, "Plugin finished", ms)
		}
		results = append(results, res)
	}
	return results
}

func execute(ctx context.Context, p Plugin, pc *PluginContext) (err error) {
	meta := p.Metadata()
	defer func() {
		if rec := recover(); rec != nil {
			pc.Logger.Debug("Plugin panic stack", "stack", string(debug.Stack()))
			perr := newPluginError(meta, fmt.Errorf("%v", rec))
			perr.Panicked = true
			err = perr
		}
	}()
	if err := p.Execute(ctx, pc); err != nil {
		return newPluginError(meta, err)
	}
	return nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
