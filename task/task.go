// Package task implements a single-threaded cooperative task runtime.
//
// A task is a suspendable computation written as an explicit state machine:
// its Poll method makes as much progress as currently possible and reports
// whether the task has completed. A task that cannot progress parks the
// waker it was polled with at whatever it is waiting on (a Chan, a Mutex)
// and returns false; invoking the waker marks the task runnable again.
//
// Wakers go through lock-free queues (package mpsc) and are therefore safe
// to invoke from interrupt handlers. This is the hand-off that drives the
// whole firmware: an interrupt handler pushes into a Chan, the channel wakes
// the consuming task, and the executor polls it on its next turn.
package task

// A Waker marks one task as runnable. Safe to invoke from any context,
// including interrupt handlers. Invoking it more than once is harmless.
type Waker func()

// A Task is a suspendable computation. Poll returns true when the task has
// completed; a completed task is never polled again.
//
// If Poll returns false, the task must have arranged for wake to be invoked
// once progress is possible, otherwise it is never polled again.
type Task interface {
	Poll(wake Waker) bool
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(wake Waker) bool

func (f TaskFunc) Poll(wake Waker) bool { return f(wake) }
