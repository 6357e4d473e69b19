// Package observability carries build identity through a context so every
// log line of a build can be correlated.
package observability

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// LogContext is the build identity attached to a context.
type LogContext struct {
	BuildID string
	Stage   string
	Plugin  string
}

type logContextKey struct{}

func with(ctx context.Context, update func(*LogContext)) context.Context {
	lc := FromContext(ctx)
	update(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithBuildID tags ctx with a build ID.
func WithBuildID(ctx context.Context, id string) context.Context {
	return with(ctx, func(lc *LogContext) { lc.BuildID = id })
}

// WithStage tags ctx with a pipeline stage. The plugin is cleared.
func WithStage(ctx context.Context, stage string) context.Context {
	return with(ctx, func(lc *LogContext) { lc.Stage, lc.Plugin = stage, "" })
}

// WithPlugin tags ctx with the plugin being executed.
func WithPlugin(ctx context.Context, name string) context.Context {
	return with(ctx, func(lc *LogContext) { lc.Plugin = name })
}

// FromContext returns the log context stored in ctx, or the zero value.
func FromContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

// Attrs returns the log attributes for ctx's build identity.
func Attrs(ctx context.Context) []slog.Attr {
	lc := FromContext(ctx)
	attrs := make([]slog.Attr, 0, 3)
	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Plugin != "" {
		attrs = append(attrs, logfields.Plugin(lc.Plugin))
	}
	return attrs
}

func log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(Attrs(ctx), attrs...)...)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelError, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	log(ctx, slog.LevelDebug, msg, attrs)
}

// Logger returns the default logger with ctx's build identity attached.
func Logger(ctx context.Context) *slog.Logger {
	attrs := Attrs(ctx)
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return slog.Default().With(args...)
}

// Span times one pipeline stage.
type Span struct {
	ctx   context.Context
	start time.Time
}

// StartStage tags ctx with stage and starts timing it.
func StartStage(ctx context.Context, stage string) (context.Context, *Span) {
	ctx = WithStage(ctx, stage)
	return ctx, &Span{ctx: ctx, start: time.Now()}
}

// End logs the stage outcome at debug level and returns its duration.
func (s *Span) End(err error) time.Duration {
	d := time.Since(s.start)
	ms := logfields.DurationMS(float64(d.Microseconds()) / 1000)
	if err != nil {
		DebugContext(s.ctx, "Stage failed", ms, logfields.Error(err))
	} else {
		DebugContext(s.ctx, "Stage finished", ms)
	}
	return d
}
