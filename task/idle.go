package task

// An IdleStream paces a task to run only when the processor is otherwise
// idle. It alternates between parked and ready: when parked it hands the
// task's waker to a shared channel, which the executor's idle task drains,
// waking all paced tasks exactly when nothing else is runnable.
//
// Every paced task owns its own IdleStream; all streams share one sink.
type IdleStream struct {
	idle bool
	sink *Chan[Waker]
}

// NewIdleStream returns a stream parking wakers into sink.
func NewIdleStream(sink *Chan[Waker]) *IdleStream {
	return &IdleStream{sink: sink}
}

// Next reports whether the task may run now. If not, wake has been parked in
// the sink and will be invoked on idle.
func (s *IdleStream) Next(wake Waker) (ready bool) {
	ready = s.idle
	if !s.idle {
		s.sink.Send(wake)
	}
	s.idle = !s.idle
	return
}

// IdleDrain returns the task that completes the pacing loop: installed via
// (*Executor).SetIdleTask, it receives parked wakers from sink and invokes
// them. It never completes.
func IdleDrain(sink *Chan[Waker]) Task {
	return TaskFunc(func(wake Waker) bool {
		for {
			w, ok, ready := sink.Recv(wake)
			if !ready {
				return false
			}
			if !ok {
				panic("idle channel closed")
			}
			w()
		}
	})
}
