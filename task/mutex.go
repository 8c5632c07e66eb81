package task

import (
	"sync/atomic"

	"github.com/embed-rs/stm32f7-discovery-sub000/mpsc"
)

// A Mutex shares a payload between tasks without ever blocking the
// goroutine: a contended locking attempt parks the task on a wake-queue and
// yields instead of spinning. Peripherals shared between tasks (an I2C bus,
// an LCD layer) are wrapped in one.
//
// Waiters are woken in the order they parked, but a task that attempts the
// lock right after a release may acquire ahead of an earlier sleeper. That
// trade keeps the park path lock-free.
type Mutex[T any] struct {
	locked  atomic.Bool
	data    T
	waiters mpsc.Queue[Waker]
}

// NewMutex returns a mutex wrapping v.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{data: v}
}

// With returns a task that locks the mutex, runs f on the payload and
// completes with the lock released. Results leave through f's captures.
//
// The returned task does nothing until polled.
func (m *Mutex[T]) With(f func(*T)) Task {
	return TaskFunc(func(wake Waker) bool {
		if !m.locked.CompareAndSwap(false, true) {
			m.waiters.Push(wake)
			return false
		}
		f(&m.data)
		m.locked.Store(false)
		m.wakeAll()
		return true
	})
}

// ForceLock takes the lock unconditionally, without queueing. Only for use
// on panic paths that need to wrest a peripheral from a suspended task.
func (m *Mutex[T]) ForceLock() *T {
	m.locked.Store(true)
	return &m.data
}

// ForceUnlock releases the lock regardless of who holds it and wakes all
// waiters. Only for use on panic paths.
func (m *Mutex[T]) ForceUnlock() {
	m.locked.Store(false)
	m.wakeAll()
}

func (m *Mutex[T]) wakeAll() {
	for {
		w, res := m.waiters.Pop()
		switch res {
		case mpsc.Data:
			w()
		case mpsc.Empty:
			return
		case mpsc.Inconsistent:
			// All pushes happen on the executor goroutine, so a
			// mid-push can never be observed here.
			panic("mutex waiter queue inconsistent")
		}
	}
}
