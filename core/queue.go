package core

import (
	"sync"
)

// queue is the unbounded FIFO feeding exactly one worker goroutine.
// Producers never block on Push; the single consumer blocks on Pop while
// the queue is open and empty. Closing the queue is the worker's
// cooperative stop signal: a closed queue wakes the consumer and hands
// whatever messages are still pending back to the closer.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*Message
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a message and wakes the consumer. It reports false if the
// queue has been closed, in which case the message was not accepted.
func (q *queue) Push(msg *Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, msg)
	q.cond.Signal()
	return true
}

// Pop removes and returns the oldest message, blocking while the queue
// is open and empty. It returns (nil, false) once the queue is closed:
// pending messages belong to whoever called Close, not the consumer.
func (q *queue) Pop() (*Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.closed {
		return nil, false
	}

	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return msg, true
}

// Close marks the queue closed, wakes any blocked consumer and returns
// the messages still pending so the caller can fail them. Idempotent
// and safe from any goroutine; only the first Close receives residue.
func (q *queue) Close() []*Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	residue := q.items
	q.items = nil
	q.cond.Broadcast()
	return residue
}

// Len returns the number of pending messages.
func (q *queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
