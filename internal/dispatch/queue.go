// Package dispatch provides the game's main-thread task queue.
//
// Work may be posted from any goroutine but only ever runs on the goroutine
// that calls Drain, which is the game loop. Delayed tasks are cancellable, and
// closing the queue cancels everything still pending so nothing outlives the
// scene it was scheduled for.
package dispatch

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when work is posted to a closed queue.
var ErrClosed = errors.New("dispatch: queue closed")

// Clock returns the current time.
type Clock func() time.Time

// Option configures a Queue.
type Option func(*Queue)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(q *Queue) {
		q.now = c
	}
}

// Queue is a single-consumer task queue with delayed execution.
type Queue struct {
	mu     sync.Mutex
	now    Clock
	ready  []func()
	timers timerHeap
	seq    uint64
	closed bool
}

// Timer is a handle to a delayed task.
type Timer struct {
	q     *Queue
	fn    func()
	due   time.Time
	seq   uint64
	index int // position in the heap, -1 once fired or cancelled
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{now: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Async enqueues fn to run on the next Drain.
func (q *Queue) Async(fn func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.ready = append(q.ready, fn)
	return nil
}

// AsyncAfter schedules fn to run on the first Drain at least d from now.
func (q *Queue) AsyncAfter(d time.Duration, fn func()) (*Timer, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrClosed
	}
	q.seq++
	t := &Timer{q: q, fn: fn, due: q.now().Add(d), seq: q.seq}
	heap.Push(&q.timers, t)
	return t, nil
}

// Cancel stops the timer. It returns false if the task already ran or was
// already cancelled.
func (t *Timer) Cancel() bool {
	if t == nil {
		return false
	}
	q := t.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&q.timers, t.index)
	return true
}

// Pending reports whether the timer is still waiting to run.
func (t *Timer) Pending() bool {
	t.q.mu.Lock()
	defer t.q.mu.Unlock()
	return t.index >= 0
}

// Drain runs every task that is due, in posting order for immediate tasks and
// due-time order for delayed ones. Tasks posted while draining run on the next
// call. It returns the number of tasks run.
func (q *Queue) Drain() int {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}
	batch := q.ready
	q.ready = nil
	now := q.now()
	for q.timers.Len() > 0 && !q.timers[0].due.After(now) {
		t := heap.Pop(&q.timers).(*Timer)
		batch = append(batch, t.fn)
	}
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of tasks waiting, immediate and delayed.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ready) + q.timers.Len()
}

// Close cancels all pending tasks and rejects new ones. Safe to call twice.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.ready = nil
	for _, t := range q.timers {
		t.index = -1
	}
	q.timers = nil
}

// timerHeap orders timers by due time, then by scheduling order.
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
