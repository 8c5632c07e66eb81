package task

import (
	"fmt"

	"github.com/embed-rs/stm32f7-discovery-sub000/mpsc"
)

// An Executor multiplexes tasks over a single goroutine. Tasks are polled in
// the order their wakers were invoked; there is no priority and no
// cancellation. A task ends only by completing.
//
// All methods must be called from the same goroutine. Only wakers handed to
// Poll may be invoked from elsewhere.
type Executor struct {
	tasks  map[uint64]Task
	woken  mpsc.Queue[uint64]
	nextID uint64
	idle   Task
}

// NewExecutor returns an empty executor.
func NewExecutor() *Executor {
	return &Executor{tasks: make(map[uint64]Task)}
}

// Spawn adds t to the executor. The task is polled at least once, and again
// after each invocation of the waker it was last polled with, until it
// completes.
func (e *Executor) Spawn(t Task) {
	id := e.nextID
	e.nextID++
	e.tasks[id] = t
	e.woken.Push(id)
}

// SetIdleTask installs a task that is polled once per turn whenever no other
// task is runnable. The idle task never completes.
func (e *Executor) SetIdleTask(t Task) { e.idle = t }

// Len returns the number of live tasks.
func (e *Executor) Len() int { return len(e.tasks) }

// Run performs one turn: it pops at most one runnable task id and polls that
// task. If the task completes it is removed. If no task is runnable the idle
// task is polled once instead. If the runnable queue was caught mid-push,
// Run returns without doing work; the caller is expected to loop anyway.
func (e *Executor) Run() {
	id, res := e.woken.Pop()
	e.turn(id, res)
}

func (e *Executor) turn(id uint64, res mpsc.PopResult) {
	switch res {
	case mpsc.Data:
		t, ok := e.tasks[id]
		if !ok {
			// Stale wake of a completed task.
			return
		}
		if t.Poll(func() { e.woken.Push(id) }) {
			delete(e.tasks, id)
		}
	case mpsc.Empty:
		if e.idle != nil {
			if e.idle.Poll(func() {}) {
				panic(fmt.Sprintf("idle task completed: %T", e.idle))
			}
		}
	case mpsc.Inconsistent:
		// A producer, likely an interrupt handler, was caught between
		// the two writes of a push. Retry next turn.
	}
}
