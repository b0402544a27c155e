// Package event carries human-readable progress messages from the core to
// whatever front end is attached. Delivery is best effort: the core never
// blocks on, or fails because of, a missing receiver.
package event

// Sink receives log and status messages emitted by the authorization flow.
// A status message reflects a user-visible state change, a plain message is
// diagnostic only.
type Sink interface {
	Emit(message string, status bool)
}

// Func adapts a function to the Sink interface.
type Func func(message string, status bool)

// Emit calls f.
func (f Func) Emit(message string, status bool) { f(message, status) }

// Discard drops every message.
var Discard Sink = Func(func(string, bool) {})

// Message is a single event as delivered by Queue.
type Message struct {
	Text   string
	Status bool
}

// Queue is a Sink backed by a buffered channel, dropping messages when the
// receiver falls behind.
type Queue struct {
	ch chan Message
}

// NewQueue makes a queue sink with the given buffer size.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{ch: make(chan Message, size)}
}

// Emit enqueues the message, dropping it when the buffer is full.
func (q *Queue) Emit(message string, status bool) {
	select {
	case q.ch <- Message{Text: message, Status: status}:
	default:
	}
}

// C exposes the receiving side of the queue.
func (q *Queue) C() <-chan Message { return q.ch }
