package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("title: A\n"), 0o600))

	var reloads atomic.Int32
	cw, err := NewConfigWatcher(cfgPath, 20*time.Millisecond, func(context.Context) error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cw.Start(ctx))
	defer func() { require.NoError(t, cw.Stop()) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600))
	assert.Never(t, func() bool { return reloads.Load() > 0 }, 200*time.Millisecond, 20*time.Millisecond,
		"unrelated files must not trigger a reload")

	for i := range 3 {
		require.NoError(t, os.WriteFile(cfgPath, []byte("title: B"+string(rune('0'+i))+"\n"), 0o600))
	}
	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestConfigWatcherStopWaitsForReload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("title: A\n"), 0o600))

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	var once sync.Once
	cw, err := NewConfigWatcher(cfgPath, 10*time.Millisecond, func(context.Context) error {
		once.Do(func() { close(started) })
		<-release
		finished.Store(true)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, cw.Start(context.Background()))

	require.NoError(t, os.WriteFile(cfgPath, []byte("title: B\n"), 0o600))
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("reload did not start")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- cw.Stop() }()
	assert.Never(t, func() bool { return len(stopped) > 0 }, 100*time.Millisecond, 10*time.Millisecond,
		"Stop must wait for the running reload")

	close(release)
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.True(t, finished.Load())
}

func TestConfigWatcherRequiresCallback(t *testing.T) {
	_, err := NewConfigWatcher("docsite.yaml", 0, nil)
	require.Error(t, err)
}

func TestConfigWatcherRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cw, err := NewConfigWatcher(filepath.Join(dir, "docsite.yaml"), 0, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, cw.debounceTime)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cw.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.NoError(t, cw.Stop(), "second stop is a no-op")
}
