package trigger

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the trigger store when its backing file changes on disk
// (hand edits, restores from backup). Changes are debounced (300ms) to
// avoid rapid reloads; the service's own atomic saves surface as events
// too and reload the state they just wrote, which is harmless.
//
// Saves land via rename, so the watcher has to watch the containing
// directory and filter on the file name.
type Watcher struct {
	svc      *Service
	watcher  *fsnotify.Watcher
	debounce time.Duration
	stopChan chan struct{}
	mu       sync.Mutex
}

// NewWatcher creates a watcher for the service's backing file.
func NewWatcher(svc *Service) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		svc:      svc,
		watcher:  w,
		debounce: 300 * time.Millisecond,
	}, nil
}

// Start begins watching the store file's directory.
func (sw *Watcher) Start() error {
	if err := sw.watcher.Add(filepath.Dir(sw.svc.Path())); err != nil {
		return err
	}

	sw.stopChan = make(chan struct{})
	go sw.watchLoop()

	slog.Info("trigger store watcher started", "path", sw.svc.Path())
	return nil
}

// Stop halts the file watcher.
func (sw *Watcher) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.stopChan != nil {
		close(sw.stopChan)
		sw.stopChan = nil
	}
	sw.watcher.Close()
	slog.Info("trigger store watcher stopped")
}

func (sw *Watcher) watchLoop() {
	var debounceTimer *time.Timer
	target := filepath.Base(sw.svc.Path())

	for {
		select {
		case <-sw.stopChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(sw.debounce, func() {
				sw.svc.Reload()
			})

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("trigger store watcher error", "error", err)
		}
	}
}
