package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/docsite/internal/content"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/plugin"
	"git.home.luguber.info/inful/docsite/internal/plugin/llmstxt"
	"git.home.luguber.info/inful/docsite/internal/plugin/theme"
	"git.home.luguber.info/inful/docsite/internal/site"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
)

// DefaultRegistry returns a registry with the built-in plugins.
func DefaultRegistry() *plugin.Registry {
	return plugin.NewRegistry(llmstxt.New(), theme.New())
}

// Service runs the docsite pipeline.
type Service struct {
	registry *plugin.Registry
	recorder metrics.Recorder
	now      func() time.Time
	newID    func() string
}

// NewService creates a Service with the built-in plugins and no metrics.
func NewService() *Service {
	return &Service{
		registry: DefaultRegistry(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithRegistry replaces the plugin registry.
func (s *Service) WithRegistry(r *plugin.Registry) *Service {
	s.registry = r
	return s
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// Check resolves the configuration and validates plugin references. With
// req.Content it also indexes, verifies and expands. It writes nothing.
func (s *Service) Check(ctx context.Context, req Request) (*Result, error) {
	res := s.start(req)
	ctx = observability.WithBuildID(ctx, res.BuildID)

	err := s.check(ctx, req, res, req.Content)
	s.finish(ctx, res, err)
	return res, err
}

// Run executes the full pipeline and writes plugin output and the manifest
// into the output directory. Plugin failures do not stop other plugins; the
// manifest is written either way and the failure is returned afterwards.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	res := s.start(req)
	ctx = observability.WithBuildID(ctx, res.BuildID)

	recorder := s.recorder
	var promRecorder *metrics.PrometheusRecorder
	var metricsPath string
	if req.Config != nil {
		metricsPath = req.Config.MetricsPath()
	}
	if metricsPath != "" {
		if pr, ok := recorder.(*metrics.PrometheusRecorder); ok {
			promRecorder = pr
		} else {
			promRecorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
			recorder = promRecorder
		}
	}
	run := &Service{registry: s.registry, recorder: recorder, now: s.now, newID: s.newID}

	err := run.run(ctx, req, res)
	run.finish(ctx, res, err)

	if promRecorder != nil {
		if werr := promRecorder.WriteTextfile(metricsPath); werr != nil {
			observability.WarnContext(observability.WithStage(ctx, StageMetrics), "Failed to write metrics", logfields.Error(werr))
		} else {
			observability.DebugContext(ctx, "Metrics written", logfields.Path(metricsPath))
		}
	}
	return res, err
}

func (s *Service) run(ctx context.Context, req Request, res *Result) error {
	if err := s.check(ctx, req, res, true); err != nil {
		return err
	}

	enabled, err := s.registry.Prepare(res.Site.Plugins)
	if err != nil {
		return configError(err)
	}

	err = s.stage(ctx, StagePlugins, func(ctx context.Context) error {
		pc := plugin.NewPluginContext(observability.Logger(ctx), res.Expanded, res.Index, res.OutputPath, res.BuildID)
		res.Plugins = plugin.Run(ctx, pc, enabled)
		for _, r := range res.Plugins {
			s.recorder.ObservePluginDuration(r.Name, r.Duration, r.Succeeded())
		}
		if failed := plugin.Failed(res.Plugins); len(failed) > 0 {
			errs := make([]error, len(failed))
			for i, f := range failed {
				errs[i] = f.Err
			}
			return ferrors.PluginError(fmt.Sprintf("%d of %d plugins failed", len(failed), len(res.Plugins))).
				WithCause(errors.Join(errs...)).
				WithContext("output", res.OutputPath).
				Build()
		}
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	status := manifest.StatusSuccess
	switch {
	case err != nil:
		status = manifest.StatusFailed
	case len(res.Warnings()) > 0:
		status = manifest.StatusWarning
	}
	if merr := s.stage(ctx, StageManifest, func(ctx context.Context) error {
		return s.writeManifest(ctx, req, res, status, enabled)
	}); merr != nil && err == nil {
		err = merr
	}
	return err
}

// check runs resolve and, when withContent is set, index, verify and expand.
func (s *Service) check(ctx context.Context, req Request, res *Result, withContent bool) error {
	if req.Config == nil {
		return ferrors.ConfigError("config required").Build()
	}
	cfg := req.Config

	err := s.stage(ctx, StageResolve, func(context.Context) error {
		resolved, err := cfg.Resolve()
		if err != nil {
			return configError(err)
		}
		res.Site = resolved
		return nil
	})
	if err != nil {
		return err
	}
	if _, err := s.registry.Prepare(res.Site.Plugins); err != nil {
		return configError(err)
	}
	if !withContent {
		return nil
	}

	err = s.stage(ctx, StageIndex, func(ctx context.Context) error {
		contentDir := cfg.ContentPath()
		idx, err := content.Scan(ctx, os.DirFS(contentDir))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return ferrors.ContentError("content directory not found").WithCause(err).
					WithContext("content_dir", contentDir).
					WithHint("create the directory or set build.content_dir").Build()
			}
			return ferrors.ContentError("failed to index content").WithCause(err).
				WithContext("content_dir", contentDir).Build()
		}
		if cfg.Build.LastUpdated {
			if err := content.ApplyGitDates(ctx, idx, contentDir); err != nil {
				observability.WarnContext(ctx, "Could not read git history",
					logfields.Error(ferrors.GitError("read last-updated dates").WithCause(err).Build()))
			}
		}
		res.Index = idx
		s.recorder.SetDocuments(idx.Len())
		observability.InfoContext(ctx, "Indexed content", logfields.Documents(idx.Len()), logfields.Path(contentDir))
		return nil
	})
	if err != nil {
		return err
	}

	err = s.stage(ctx, StageVerify, func(ctx context.Context) error {
		res.Problems = content.Verify(res.Site, res.Index, os.DirFS(cfg.Build.Root))
		counts := map[content.ProblemKind]int{
			content.KindUnresolvedSlug:    0,
			content.KindMissingAsset:      0,
			content.KindEmptyAutogenerate: 0,
		}
		for _, p := range res.Problems {
			counts[p.Kind]++
			if p.Warning {
				observability.WarnContext(ctx, p.String())
			}
		}
		for kind, n := range counts {
			s.recorder.SetVerifyProblems(string(kind), n)
		}
		if err := content.Err(res.Problems); err != nil {
			return ferrors.ContentError("site references missing content").WithCause(err).
				WithContext("problems", len(res.Problems)-len(res.Warnings())).
				Build()
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.stage(ctx, StageExpand, func(context.Context) error {
		expanded, err := content.Expand(res.Site, res.Index)
		if err != nil {
			return configError(err)
		}
		res.Expanded = expanded
		s.recorder.SetNavNodes(res.NavNodes())
		return nil
	})
}

func (s *Service) writeManifest(ctx context.Context, req Request, res *Result, status string, enabled []plugin.Enabled) error {
	m := &manifest.BuildManifest{
		ID:        res.BuildID,
		Timestamp: res.StartTime.UTC(),
		Inputs: manifest.Inputs{
			ConfigFile: req.Config.Path(),
			ConfigHash: res.Site.Fingerprint(),
			Documents:  []manifest.Document{},
		},
		Plugins: []manifest.Plugin{},
		Outputs: manifest.Outputs{
			SiteHash: res.Expanded.Fingerprint(),
			NavNodes: res.NavNodes(),
		},
		Status:   status,
		Duration: s.now().Sub(res.StartTime).Milliseconds(),
	}
	for _, d := range res.Index.Docs() {
		doc := manifest.Document{Slug: d.Slug, Path: d.Path, Fingerprint: d.Fingerprint}
		if !d.LastUpdated.IsZero() {
			t := d.LastUpdated.UTC()
			doc.LastUpdated = &t
		}
		m.Inputs.Documents = append(m.Inputs.Documents, doc)
	}
	for i, r := range res.Plugins {
		entry := manifest.Plugin{
			Name:       r.Name,
			Version:    r.Version,
			Status:     manifest.StatusSuccess,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			entry.Status = manifest.StatusFailed
			entry.Error = r.Err.Error()
		} else if i < len(enabled) {
			m.Outputs.Artifacts = append(m.Outputs.Artifacts, enabledOutputs(enabled[i])...)
		}
		m.Plugins = append(m.Plugins, entry)
	}
	for _, w := range res.Warnings() {
		m.Warnings = append(m.Warnings, w.String())
	}

	res.Unchanged = sameInputs(res.OutputPath, m)
	if res.Unchanged {
		observability.InfoContext(ctx, "Inputs unchanged since the previous build", logfields.Path(res.OutputPath))
	}

	path, err := m.Write(res.OutputPath)
	if err != nil {
		return ferrors.FileSystemError("failed to write build manifest").WithCause(err).
			WithContext("output", res.OutputPath).Build()
	}
	res.Manifest = m
	res.ManifestPath = path
	return nil
}

// sameInputs reports whether the manifest already in dir was built from the
// same configuration, content and plugin set as m.
func sameInputs(dir string, m *manifest.BuildManifest) bool {
	prev, err := manifest.Read(dir)
	if err != nil {
		return false
	}
	before, err := prev.Hash()
	if err != nil {
		return false
	}
	after, err := m.Hash()
	return err == nil && before == after
}

// enabledOutputs lists the files a plugin writes with its options.
func enabledOutputs(e plugin.Enabled) []string {
	if ol, ok := e.Plugin.(plugin.OutputLister); ok {
		return ol.OutputsFor(e.Options)
	}
	return e.Plugin.Metadata().Outputs
}

func (s *Service) start(req Request) *Result {
	res := &Result{
		BuildID:   s.newID(),
		StartTime: s.now(),
	}
	if req.Config != nil {
		res.OutputPath = req.Config.OutputPath()
	}
	if req.OutputDir != "" {
		res.OutputPath = req.OutputDir
	}
	return res
}

func (s *Service) finish(ctx context.Context, res *Result, err error) {
	res.EndTime = s.now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	s.recorder.ObserveBuildDuration(res.Duration)

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		res.Status = BuildStatusCancelled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	case err != nil:
		res.Status = BuildStatusFailed
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		observability.DebugContext(ctx, "Pipeline failed",
			slog.String("category", string(ferrors.CategoryOf(err))), logfields.Error(err))
	case len(res.Warnings()) > 0:
		res.Status = BuildStatusWarning
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeWarning)
	default:
		res.Status = BuildStatusSuccess
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	}
	observability.DebugContext(ctx, "Pipeline finished",
		slog.String("status", string(res.Status)),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
}

// stage runs fn with ctx tagged for name, timing it and recording its outcome.
func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}
	stageCtx, span := observability.StartStage(ctx, name)
	err := fn(stageCtx)
	s.recorder.ObserveStageDuration(name, span.End(err))

	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		if classified, ok := ferrors.AsClassified(err); ok && !classified.IsFatal() {
			s.recorder.IncStageResult(name, metrics.ResultWarning)
		} else {
			s.recorder.IncStageResult(name, metrics.ResultFatal)
		}
	}
	return err
}

// configError classifies a site configuration error, keeping the location
// where the authored document went wrong in the error context.
func configError(err error) error {
	b := ferrors.ConfigError("invalid site configuration").WithCause(err)
	var ce *site.ConfigError
	if errors.As(err, &ce) {
		b = b.WithContext("kind", string(ce.Kind))
		if ce.Field != "" {
			b = b.WithContext("field", ce.Field)
		}
		if len(ce.Path) > 0 {
			b = b.WithContext("path", site.FormatPath(ce.Path))
		}
	}
	return b.Build()
}
