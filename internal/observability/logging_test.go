package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextValues(t *testing.T) {
	ctx := WithStage(WithBuildID(context.Background(), "build-123"), "resolve")

	lc := FromContext(ctx)
	assert.Equal(t, "build-123", lc.BuildID)
	assert.Equal(t, "resolve", lc.Stage)

	ctx = WithPlugin(WithStage(ctx, "plugins"), "llms-txt")
	assert.Equal(t, LogContext{BuildID: "build-123", Stage: "plugins", Plugin: "llms-txt"}, FromContext(ctx))

	// A new stage drops the plugin.
	ctx = WithStage(ctx, "manifest")
	assert.Empty(t, FromContext(ctx).Plugin)
	assert.Equal(t, LogContext{}, FromContext(context.Background()))
}

func TestLoggingIncludesContext(t *testing.T) {
	buf := captureDefault(t)
	ctx := WithStage(WithBuildID(context.Background(), "b1"), "verify")

	InfoContext(ctx, "info message", slog.Int("documents", 3))
	WarnContext(ctx, "warn message")
	ErrorContext(ctx, "error message")
	DebugContext(ctx, "debug message")
	Logger(ctx).Info("via logger")

	out := buf.String()
	for _, want := range []string{
		"info message", "documents=3", "warn message", "error message", "debug message", "via logger",
		"build_id=b1", "stage=verify",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSpan(t *testing.T) {
	buf := captureDefault(t)
	ctx, span := StartStage(WithBuildID(context.Background(), "b2"), "index")
	assert.Equal(t, "index", FromContext(ctx).Stage)

	time.Sleep(time.Millisecond)
	d := span.End(errors.New("no content"))
	assert.GreaterOrEqual(t, d, time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Stage failed")
	assert.Contains(t, out, "stage=index")
	assert.Contains(t, out, "no content")
}
