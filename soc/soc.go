// Package soc defines chip level constants shared by the peripheral models.
package soc

import "github.com/embed-rs/stm32f7-discovery-sub000/irq"

// Interrupt line numbers, by position in the vector table (exception number
// minus 16).
const (
	IrqExti0    irq.Line = 6  // EXTI line 0
	IrqExti1    irq.Line = 7  // EXTI line 1
	IrqExti2    irq.Line = 8  // EXTI line 2
	IrqExti3    irq.Line = 9  // EXTI line 3
	IrqExti4    irq.Line = 10 // EXTI line 4
	IrqExti95   irq.Line = 23 // EXTI lines 9..5
	IrqExti1510 irq.Line = 40 // EXTI lines 15..10, user button
	IrqTim6     irq.Line = 54 // TIM6 update, also DAC underrun
	IrqTim7     irq.Line = 55 // TIM7 update
	IrqEth      irq.Line = 61 // ethernet MAC global interrupt
	IrqI2C3Ev   irq.Line = 72 // I2C3 event, touch controller bus
	IrqRng      irq.Line = 80 // hash and RNG
	IrqLtdc     irq.Line = 88 // LCD-TFT line event
	IrqSai2     irq.Line = 91 // SAI2, microphone input
)

// APB1TimerHz is the clock feeding the basic timers after bring-up.
const APB1TimerHz = 54_000_000
