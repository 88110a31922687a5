// Package heapwatch arms a filesystem trigger for heap debug dumps: writing
// or creating the watched file invokes a dump callback. This keeps dump
// output out of the allocation paths while still letting an operator ask a
// running process for its heap state.
package heapwatch

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback whenever the watched path is written.
type Watcher struct {
	w    *fsnotify.Watcher
	dump func()
	path string
	erC  chan error
}

// New starts watching path's directory and fires dump on write or create
// events for path. The callback runs on the watcher's goroutine; it must not
// allocate from the heap it is dumping unless that heap is otherwise idle.
func New(path string, dump func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file, so the trigger also works
	// before the file exists.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	fw := &Watcher{w: w, dump: dump, path: filepath.Clean(path), erC: make(chan error, 1)}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.dump()
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

// Errors returns a channel carrying the first watcher error, if any.
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watcher.
func (fw *Watcher) Close() error { return fw.w.Close() }
