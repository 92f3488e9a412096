package viewer

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// reloader watches a scene file's directory and flags writes to the file.
// Editors often save by rename, so the directory is watched rather than the
// file itself.
type reloader struct {
	w       *fsnotify.Watcher
	name    string
	changed atomic.Bool
	done    chan struct{}
}

func watch(path string) (*reloader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	r := &reloader{w: w, name: abs, done: make(chan struct{})}
	go r.loop()
	return r, nil
}

func (r *reloader) loop() {
	defer close(r.done)
	for {
		select {
		case ev, ok := <-r.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == r.name && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				r.changed.Store(true)
			}
		case _, ok := <-r.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Changed reports whether the file changed since the last call.
func (r *reloader) Changed() bool {
	return r.changed.Swap(false)
}

func (r *reloader) Close() error {
	err := r.w.Close()
	<-r.done
	return err
}
