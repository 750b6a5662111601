//go:build !darwin

package watcher

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/lumipallolabs/foldersize/internal/logging"
)

// Watcher watches one directory and its immediate sub-folders using fsnotify
type Watcher struct {
	fsw     *fsnotify.Watcher
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	watched []string
	closed  bool
}

// New creates a new filesystem watcher
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:     fsw,
		eventCh: make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel for receiving filesystem events
func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// Watch replaces the watched set with dir and the folders directly inside it.
// fsnotify is not recursive, so deeper changes go unnoticed.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.watched {
		_ = w.fsw.Remove(p)
	}
	w.watched = w.watched[:0]

	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched = append(w.watched, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		if err := w.fsw.Add(sub); err != nil {
			logging.Debug.Printf("[Watcher] cannot watch %s: %v", sub, err)
			continue
		}
		w.watched = append(w.watched, sub)
	}
	return nil
}

// Start begins forwarding events
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Debug.Printf("[Watcher] %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.send(Event{Type: EventDeleted, Path: event.Name})
	case event.Has(fsnotify.Create):
		w.send(Event{Type: EventCreated, Path: event.Name})
	case event.Has(fsnotify.Write):
		w.send(Event{Type: EventModified, Path: event.Name})
	}
}

// Stop stops the watcher and closes Events
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.eventCh)
	return err
}
