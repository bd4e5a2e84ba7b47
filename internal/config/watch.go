package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"issuerpick/internal/eventbus"
	"issuerpick/internal/logging"
)

// Watcher reloads the config file when it changes on disk and publishes a
// ConfigChangedEvent for every successful reload
type Watcher struct {
	svc      ConfigService
	bus      eventbus.EventBus
	path     string
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
}

// NewWatcher creates a watcher for the service's config file
func NewWatcher(svc ConfigService, bus eventbus.EventBus) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		svc:      svc,
		bus:      bus,
		path:     filepath.Clean(svc.Path()),
		debounce: 200 * time.Millisecond,
		watcher:  fw,
	}, nil
}

// Start watches the directory holding the config file until ctx is done.
// The directory is watched rather than the file because editors often
// replace files instead of writing them in place.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.watcher.Close()
		return fmt.Errorf("watch config directory: %w", err)
	}
	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warnf("config watcher error: %v", err)
		}
	}
}

// schedule coalesces bursts of file events into one reload
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := w.svc.LoadFromPath(w.path)
	if err != nil {
		// Keep the current page; a half-written file is common while saving
		logging.Warnf("config reload failed: %v", err)
		w.bus.Publish(eventbus.ErrorEvent{Message: "config reload failed", Err: err})
		return
	}
	logging.Infof("config reloaded from %s (%d issuers)", w.path, len(cfg.Issuers))
	w.bus.Publish(eventbus.ConfigChangedEvent{
		Path:    w.path,
		Login:   cfg.Login,
		Issuers: cfg.Issuers,
	})
}
