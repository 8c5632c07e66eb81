// Package audio captures microphone samples off the SAI.
//
// The receiver has no working interrupt, so it is polled once per idle
// pass: one sample per pass, and every completed pair goes to the sink,
// typically a draw under the scene mutex.
package audio

import (
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/sai"
	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

type capture struct {
	sai   *sai.SAI
	paced *task.IdleStream
	sink  func(d0, d1 uint32) task.Task

	first    uint32
	hasFirst bool
	fut      task.Task
	stage    int
}

// CaptureTask returns the capture loop: paced by the idle stream, it pairs
// up samples from s and hands each pair to sink. The task never completes.
func CaptureTask(s *sai.SAI, paced *task.IdleStream, sink func(d0, d1 uint32) task.Task) task.Task {
	return &capture{sai: s, paced: paced, sink: sink}
}

func (c *capture) Poll(wake task.Waker) bool {
	for {
		switch c.stage {
		case 0:
			if !c.paced.Next(wake) {
				return false
			}
			c.stage = 1
		case 1:
			if !c.sai.FifoRequest() {
				c.stage = 0
				continue
			}
			d := c.sai.Data()
			if !c.hasFirst {
				c.first, c.hasFirst = d, true
				c.stage = 0
				continue
			}
			c.hasFirst = false
			c.fut = c.sink(c.first, d)
			c.stage = 2
		case 2:
			if !c.fut.Poll(wake) {
				return false
			}
			c.fut = nil
			c.stage = 0
		}
	}
}
