package task_test

import (
	"testing"

	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

func TestMutexUncontended(t *testing.T) {
	m := task.NewMutex(41)
	got := 0
	fut := m.With(func(p *int) {
		*p++
		got = *p
	})
	if !fut.Poll(func() {}) {
		t.Fatal("uncontended lock did not complete")
	}
	if got != 42 {
		t.Fatal("payload: ", got)
	}
}

func TestMutexContended(t *testing.T) {
	m := task.NewMutex(0)

	p := m.ForceLock()
	*p = 7

	woken := false
	fut := m.With(func(p *int) { *p++ })
	if fut.Poll(func() { woken = true }) {
		t.Fatal("acquired a held lock")
	}

	m.ForceUnlock()
	if !woken {
		t.Fatal("waiter not woken on unlock")
	}
	if !fut.Poll(func() {}) {
		t.Fatal("lock still contended after unlock")
	}

	final := 0
	m.With(func(p *int) { final = *p }).Poll(func() {})
	if final != 8 {
		t.Fatal("payload: ", final)
	}
}

// Ten tasks increment through the same mutex; all must complete and all
// increments must land.
func TestMutexBurst(t *testing.T) {
	e := task.NewExecutor()
	m := task.NewMutex(0)
	completed := 0
	for range 10 {
		fut := m.With(func(p *int) { *p++ })
		e.Spawn(task.TaskFunc(func(wake task.Waker) bool {
			if !fut.Poll(wake) {
				return false
			}
			completed++
			return true
		}))
	}

	for range 100 {
		e.Run()
		if e.Len() == 0 {
			break
		}
	}
	if completed != 10 {
		t.Fatal("completed tasks: ", completed)
	}

	got := 0
	m.With(func(p *int) { got = *p }).Poll(func() {})
	if got != 10 {
		t.Fatal("payload: ", got)
	}
}

// Holding the lock during f, waiters queue up and are resumed FIFO after the
// release.
func TestMutexWaitersResumeFIFO(t *testing.T) {
	m := task.NewMutex(struct{}{})
	p := m.ForceLock()
	_ = p

	var order []int
	for i := range 3 {
		fut := m.With(func(*struct{}) {})
		if fut.Poll(func() { order = append(order, i) }) {
			t.Fatal("acquired a held lock")
		}
	}

	m.ForceUnlock()
	if len(order) != 3 {
		t.Fatal("woken waiters: ", order)
	}
	for i, got := range order {
		if got != i {
			t.Fatal("wake order: ", order)
		}
	}
}
