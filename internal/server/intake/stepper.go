package intake

import "math/rand"

// Stepper yields the progress increment of one analysis tick.
type Stepper interface {
	Step() int
}

// RandomStepper advances by a uniform increment in [5, 15).
type RandomStepper struct{}

func (RandomStepper) Step() int { return rand.Intn(10) + 5 }

// StepperFunc adapts a function to Stepper.
type StepperFunc func() int

func (f StepperFunc) Step() int { return f() }
