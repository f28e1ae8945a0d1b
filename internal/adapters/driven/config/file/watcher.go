package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// DefaultDebounce coalesces bursts of editor writes into one reload.
const DefaultDebounce = 200 * time.Millisecond

// PromptWatcher reloads a PromptStore whenever a template file in its
// directory is created, written, renamed or removed.
type PromptWatcher struct {
	dir      string
	store    driven.PromptStore
	debounce time.Duration
	onReload func()
}

// NewPromptWatcher creates a watcher for dir that reloads store.
func NewPromptWatcher(dir string, store driven.PromptStore) *PromptWatcher {
	return &PromptWatcher{dir: dir, store: store, debounce: DefaultDebounce}
}

// SetDebounce overrides the debounce interval.
func (w *PromptWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// OnReload registers a callback invoked after each reload.
func (w *PromptWatcher) OnReload(fn func()) {
	w.onReload = fn
}

// Run watches until ctx is cancelled. The directory must exist.
func (w *PromptWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Debug("Watching prompts in %s", w.dir)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTemplateChange(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Prompt watcher error: %v", err)
		case <-fire:
			fire = nil
			w.store.Reload()
			logger.Info("Reloaded prompts from %s", w.dir)
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}

func isTemplateChange(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
