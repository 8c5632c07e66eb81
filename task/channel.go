package task

import (
	"sync/atomic"

	"github.com/embed-rs/stm32f7-discovery-sub000/mpsc"
)

// A Chan is an unbounded channel from any context into a single consuming
// task. Send never blocks and is safe from interrupt handlers; the canonical
// use is an interrupt handler pushing zero-sized tokens to the task that
// does the actual work.
//
// The zero value is an open, empty channel.
type Chan[T any] struct {
	q      mpsc.Queue[T]
	recv   atomic.Pointer[Waker]
	closed atomic.Bool
}

// Send enqueues v and wakes the consumer if it is parked. Sending on a
// closed channel is a usage bug and panics.
func (c *Chan[T]) Send(v T) {
	if c.closed.Load() {
		panic("send on closed channel")
	}
	c.q.Push(v)
	if w := c.recv.Swap(nil); w != nil {
		(*w)()
	}
}

// Close marks the end of the stream. Items sent before the close are still
// delivered; afterwards Recv reports ok == false.
func (c *Chan[T]) Close() {
	c.closed.Store(true)
	if w := c.recv.Swap(nil); w != nil {
		(*w)()
	}
}

// Recv polls the channel. Meant to be called from a task's Poll with the
// task's current waker:
//
//	v, ok, ready := c.Recv(wake)
//	if !ready {
//		return false // parked, will be woken
//	}
//	if !ok {
//		// end of stream
//	}
//
// If no item is available Recv parks wake and reports ready == false. At
// most one task may consume a channel.
func (c *Chan[T]) Recv(wake Waker) (v T, ok bool, ready bool) {
	for {
		v, res := c.q.Pop()
		switch res {
		case mpsc.Data:
			return v, true, true
		case mpsc.Inconsistent:
			// Producer mid-push, the item is imminent.
			continue
		case mpsc.Empty:
		}

		if c.closed.Load() {
			// Drain races Close: an item pushed just before the
			// close flag was set is still delivered.
			switch v, res := c.q.Pop(); res {
			case mpsc.Data:
				return v, true, true
			case mpsc.Inconsistent:
				continue
			}
			var zero T
			return zero, false, true
		}

		// Park, then re-check both the close flag and the queue:
		// either may have changed before the waker became visible,
		// and a Close or Send in that window saw no one to wake.
		c.recv.Store(&wake)
		if c.closed.Load() {
			c.recv.Swap(nil)
			continue
		}
		switch v, res := c.q.Pop(); res {
		case mpsc.Data:
			c.recv.Swap(nil)
			return v, true, true
		case mpsc.Inconsistent:
			c.recv.Swap(nil)
			continue
		}
		var zero T
		return zero, false, false
	}
}
