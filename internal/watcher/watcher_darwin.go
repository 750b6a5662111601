//go:build darwin

package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsevents"

	"github.com/lumipallolabs/foldersize/internal/logging"
)

// Watcher watches a directory tree using macOS FSEvents
type Watcher struct {
	stream  *fsevents.EventStream
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

func New() (*Watcher, error) {
	return &Watcher{
		eventCh: make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}, nil
}

func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// Watch replaces the watched tree with dir. FSEvents is recursive.
func (w *Watcher) Watch(dir string) error {
	dev, err := fsevents.DeviceForPath(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stream != nil && w.started {
		w.stream.Stop()
	}
	w.stream = &fsevents.EventStream{
		Paths:   []string{dir},
		Latency: 500 * time.Millisecond,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	if w.started {
		return w.startStreamLocked()
	}
	return nil
}

func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.started = true
	if w.stream != nil {
		if err := w.startStreamLocked(); err != nil {
			logging.Debug.Printf("[Watcher] start: %v", err)
		}
	}
}

func (w *Watcher) startStreamLocked() error {
	if err := w.stream.Start(); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.run(w.stream)
	return nil
}

func (w *Watcher) run(stream *fsevents.EventStream) {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case events, ok := <-stream.Events:
			if !ok {
				return
			}
			for _, event := range events {
				w.handleEvent(event)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsevents.Event) {
	path := event.Path
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}

	switch {
	// Move to Trash is a rename
	case event.Flags&(fsevents.ItemRemoved|fsevents.ItemRenamed) != 0:
		w.send(Event{Type: EventDeleted, Path: path})
	case event.Flags&fsevents.ItemCreated != 0:
		w.send(Event{Type: EventCreated, Path: path})
	case event.Flags&fsevents.ItemModified != 0:
		w.send(Event{Type: EventModified, Path: path})
	}
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	stream := w.stream
	started := w.started
	w.mu.Unlock()

	close(w.done)
	if stream != nil && started {
		stream.Stop()
	}
	w.wg.Wait()
	close(w.eventCh)
	return nil
}
