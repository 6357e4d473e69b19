// Package watch re-runs a callback whenever the project file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of editor writes into one reload.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc is invoked after the watched file changed.
type ReloadFunc func(ctx context.Context) error

// ConfigWatcher monitors a configuration file and triggers debounced reloads.
type ConfigWatcher struct {
	configPath   string
	onChange     ReloadFunc
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	stopped      bool
	reloadChan   chan struct{}
	debounceTime time.Duration
	wg           sync.WaitGroup
}

// NewConfigWatcher creates a watcher for configPath. A debounce of zero uses DefaultDebounce.
func NewConfigWatcher(configPath string, debounce time.Duration, onChange ReloadFunc) (*ConfigWatcher, error) {
	if onChange == nil {
		return nil, errors.New("reload callback is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &ConfigWatcher{
		configPath:   absPath,
		onChange:     onChange,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: debounce,
	}, nil
}

// Start begins monitoring the configuration file.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Editors often replace the file, so watch its directory.
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	slog.Info("Watching configuration", logfields.Config(cw.configPath))

	cw.wg.Add(2)
	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutines. It is safe to call more than once.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if cw.stopped {
		cw.mu.Unlock()
		return nil
	}
	cw.stopped = true
	close(cw.stopChan)
	err := cw.watcher.Close()
	cw.mu.Unlock()

	cw.wg.Wait()
	return err
}

// Run starts the watcher and blocks until ctx is canceled.
func (cw *ConfigWatcher) Run(ctx context.Context) error {
	if err := cw.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := cw.Stop(); err != nil {
		slog.Error("Error closing file watcher", logfields.Error(err))
	}
	return nil
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	defer cw.wg.Done()
	configFile := filepath.Base(cw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Config file change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				cw.triggerReload()
			case event.Has(fsnotify.Remove):
				slog.Warn("Config file removed", logfields.Path(event.Name))
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", logfields.Error(err))
		}
	}
}

// reloadLoop debounces change signals and runs reloads on its own
// goroutine, so Stop waits for a reload in progress.
func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	defer cw.wg.Done()
	timer := time.NewTimer(cw.debounceTime)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case <-cw.reloadChan:
			timer.Reset(cw.debounceTime)
		case <-timer.C:
			cw.performReload(ctx)
		}
	}
}

func (cw *ConfigWatcher) triggerReload() {
	select {
	case cw.reloadChan <- struct{}{}:
	default:
	}
}

// performReload runs the callback unless the watcher is stopping.
func (cw *ConfigWatcher) performReload(ctx context.Context) {
	select {
	case <-cw.stopChan:
		return
	default:
	}
	if ctx.Err() != nil {
		return
	}
	slog.Info("Reloading configuration", logfields.Config(cw.configPath))
	if err := cw.onChange(ctx); err != nil {
		slog.Error("Failed to reload configuration", logfields.Error(err))
	}
}
