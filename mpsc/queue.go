// Package mpsc implements an intrusive multi-producer single-consumer queue.
//
// Push is wait-free and safe from any context, including interrupt handlers.
// Pop must only ever be called by a single consumer. The queue is unbounded;
// each Push allocates one node, which is why interrupt handlers should only
// push small values, typically wakers or zero-sized tokens.
package mpsc

import "sync/atomic"

type node[T any] struct {
	next atomic.Pointer[node[T]]
	v    T
}

// A Queue is a lock-free MPSC linked queue. The zero value is an empty queue
// ready for use.
//
// Producers append by swapping the tail pointer; between the swap and the
// relinking of the predecessor the queue is observably inconsistent, which Pop
// reports instead of spinning. This keeps the consumer from blocking behind a
// producer that was preempted mid-push, i.e. an interrupted interrupt handler.
type Queue[T any] struct {
	head *node[T] // consumer owned, points at the sentinel
	tail atomic.Pointer[node[T]]
	stub node[T]
}

// PopResult reports the outcome of a Pop.
type PopResult int

const (
	Empty        PopResult = iota // queue is observably empty
	Data                          // an item was dequeued
	Inconsistent                  // a producer is mid-push, retry shortly
)

func (q *Queue[T]) lazyInit() {
	if q.tail.Load() == nil {
		q.tail.CompareAndSwap(nil, &q.stub)
	}
}

// Push appends v to the queue. Wait-free, safe from any context.
func (q *Queue[T]) Push(v T) {
	q.lazyInit()
	n := &node[T]{v: v}
	prev := q.tail.Swap(n)
	// A consumer observing the queue between the swap above and the store
	// below sees it as inconsistent.
	prev.next.Store(n)
}

// Pop dequeues the oldest item. Must only be called by the single consumer.
//
// A result of Inconsistent means a producer has not yet finished linking its
// node. The item becomes observable as soon as the producer finishes; the
// consumer is expected to retry on its next turn.
func (q *Queue[T]) Pop() (v T, res PopResult) {
	q.lazyInit()
	if q.head == nil {
		q.head = &q.stub
	}

	head := q.head
	next := head.next.Load()
	if next == nil {
		if q.tail.Load() == head {
			return v, Empty
		}
		return v, Inconsistent
	}

	q.head = next
	v = next.v

	// Write zero value into the new sentinel to avoid holding hidden
	// references that might prevent freeing memory.
	var zero T
	next.v = zero

	return v, Data
}
