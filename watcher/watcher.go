// Package watcher turns edits of the theme configuration file into save
// events.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor emits for one save.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called once per settled change of the watched file.
type ChangeFunc func() error

type Watcher struct {
	path     string
	onChange ChangeFunc
	debounce time.Duration
	logger   *log.Logger
}

func New(path string, onChange ChangeFunc) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   log.WithPrefix("watcher"),
	}
}

// SetDebounce changes the settle delay.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start watches the directory holding the file until ctx is done. The
// directory is watched rather than the file so editors that replace the file
// by rename are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.loop(ctx, fw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()
	w.logger.Info("started", "path", w.path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopped")
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				pending = time.After(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		case <-pending:
			pending = nil
			if err := w.onChange(); err != nil {
				w.logger.Error("reload failed", "path", w.path, "err", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}
