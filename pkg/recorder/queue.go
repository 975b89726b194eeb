// Package recorder turns raw input events into click steps relative to an anchor.
//
// Global input hooks run on their own threads; they hand normalized events to a Queue, and a single
// Recorder goroutine drains it. Nothing else in the pipeline is concurrent.
package recorder

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
)

// EventKind distinguishes pointer from keyboard events.
type EventKind int

const (
	MouseEvent EventKind = iota
	KeyEvent
)

// Event is a normalized input event produced by a hook.
type Event struct {
	Kind    EventKind
	At      domain.Point
	Button  domain.Button
	Pressed bool
	// Key is a lower-case key name such as "f9" (KeyEvent only).
	Key  string
	Time time.Time
}

// Click builds a mouse event.
func Click(x, y int, button domain.Button, pressed bool) Event {
	return Event{Kind: MouseEvent, At: domain.Point{X: x, Y: y}, Button: button, Pressed: pressed, Time: time.Now()}
}

// Key builds a key press event.
func Key(name string) Event {
	return Event{Kind: KeyEvent, Key: name, Pressed: true, Time: time.Now()}
}

// Queue is a bounded hand-off between hook threads and the recorder. Push never blocks: when the
// buffer is full the event is dropped and counted, so a stalled consumer cannot freeze the hooks.
type Queue struct {
	mu      sync.RWMutex
	ch      chan Event
	closed  bool
	dropped atomic.Int64
}

// NewQueue creates a queue buffering up to capacity events. capacity < 1 is treated as 1.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan Event, max(1, capacity))}
}

// Push enqueues e and reports whether it was accepted. Safe for concurrent use.
func (q *Queue) Push(e Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Close stops accepting events. Buffered events remain readable from Events.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Events is the consumer side.
func (q *Queue) Events() <-chan Event {
	return q.ch
}

// Dropped is the number of events rejected because the buffer was full.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}
