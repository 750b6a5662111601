package watcher

// EventType represents the type of filesystem event
type EventType int

const (
	EventDeleted EventType = iota
	EventCreated
	EventModified
)

func (t EventType) String() string {
	switch t {
	case EventDeleted:
		return "deleted"
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Event represents a filesystem change event
type Event struct {
	Type EventType
	Path string
}

// eventBuffer bounds Events(); events beyond it are dropped since any one
// of them is enough to mark a directory stale
const eventBuffer = 100

func (w *Watcher) send(e Event) {
	select {
	case w.eventCh <- e:
	default:
	}
}
