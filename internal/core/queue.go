package core

import "sync"

// Queue is an unbounded FIFO of events. Push never blocks, so a scan worker
// is never held up by a slow consumer.
type Queue struct {
	mu     sync.Mutex
	events []Event
	ready  chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends an event and wakes a waiting subscriber
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns all queued events in order
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

// Len returns the number of queued events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Ready receives a value after one or more pushes. Consumers that subscribe
// instead of polling wait on it and then call Drain.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}
