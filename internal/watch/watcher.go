// Package watch re-runs a callback whenever a font file changes on disk.
// It backs the live revalidation mode of the CLI.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Callback is invoked with the font path after its changes settle.
type Callback func(path string)

// Watcher monitors one font file for writes. Editors often save through
// temp-file renames, so the parent directory is watched and events are
// filtered down to the target name, then debounced so a burst of writes
// triggers the callback once.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	path     string
	dir      string
	callback Callback
	debounce time.Duration
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New builds a watcher for the font file at path. log may be nil.
func New(path string, callback Callback, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		log:      log,
		path:     abs,
		dir:      filepath.Dir(abs),
		callback: callback,
		debounce: 250 * time.Millisecond,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	w.log.Info("watching font file", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.log.Debug("font file event", zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending[w.path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushSettled() {
	now := time.Now()

	w.mu.Lock()
	var fire []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			fire = append(fire, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range fire {
		w.callback(path)
	}
}
