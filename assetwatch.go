package earthview

import (
	"fmt"
	"github.com/fsnotify/fsnotify"
	"log"
	"path/filepath"
	"sync"
	"time"
)

// assetWatcher calls onChange (debounced) whenever one of the watched files is written, created or renamed.
// Parent directories are watched instead of the files themselves, as editors usually replace files on save.
// Calls to onChange never overlap and none start after Close returns.
type assetWatcher struct {
	w        *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func()
	timerMu  sync.Mutex
	timer    *time.Timer
	closed   bool
	changeMu sync.Mutex
	done     chan struct{}
}

func watchAssets(paths []string, debounce time.Duration, onChange func()) (*assetWatcher, error) {
	w, err := newFsWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch assets: %w", err)
	}
	aw := &assetWatcher{w: w, files: map[string]bool{}, debounce: debounce, onChange: onChange, done: make(chan struct{})}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		aw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err = w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch assets in %s: %w", dir, err)
		}
	}
	go aw.run()
	return aw, nil
}

func (aw *assetWatcher) run() {
	defer close(aw.done)
	for {
		select {
		case ev, ok := <-aw.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !aw.files[abs] {
				continue
			}
			aw.trigger()
		case err, ok := <-aw.w.Errors:
			if !ok {
				return
			}
			log.Println("[EarthView] Asset watcher error:", err)
		}
	}
}

func (aw *assetWatcher) trigger() {
	aw.timerMu.Lock()
	defer aw.timerMu.Unlock()
	if aw.closed {
		return
	}
	if aw.timer != nil {
		aw.timer.Stop()
	}
	aw.timer = time.AfterFunc(aw.debounce, aw.fire)
}

// fire runs onChange, one call at a time so the latest change is the last one applied.
func (aw *assetWatcher) fire() {
	aw.changeMu.Lock()
	defer aw.changeMu.Unlock()
	aw.timerMu.Lock()
	closed := aw.closed
	aw.timerMu.Unlock()
	if closed {
		return
	}
	aw.onChange()
}

// Close stops watching. Pending notifications are dropped and a running onChange is waited for.
func (aw *assetWatcher) Close() error {
	aw.timerMu.Lock()
	aw.closed = true
	if aw.timer != nil {
		aw.timer.Stop()
	}
	aw.timerMu.Unlock()
	err := aw.w.Close()
	<-aw.done
	aw.changeMu.Lock()
	defer aw.changeMu.Unlock()
	return err
}
