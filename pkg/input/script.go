package input

import (
	"fmt"
	"time"
)

// Step holds both pilot channels steady for Duration
type Step struct {
	Duration time.Duration
	Thrust   float64
	Rotation float64
}

// Script replays a fixed sequence of pilot inputs against frame time.
// After the last step both channels read zero.
type Script struct {
	steps   []Step
	index   int
	elapsed time.Duration
}

// NewScript creates a script. Steps with a non-positive duration are rejected.
func NewScript(steps ...Step) (*Script, error) {
	for i, s := range steps {
		if s.Duration <= 0 {
			return nil, fmt.Errorf("step %d: duration must be positive, got %v", i, s.Duration)
		}
	}
	return &Script{steps: steps}, nil
}

// Advance moves the script forward by dt
func (s *Script) Advance(dt time.Duration) {
	s.elapsed += dt
	for s.index < len(s.steps) && s.elapsed >= s.steps[s.index].Duration {
		s.elapsed -= s.steps[s.index].Duration
		s.index++
	}
}

// Done reports whether every step has played out
func (s *Script) Done() bool {
	return s.index >= len(s.steps)
}

func (s *Script) current() Step {
	if s.Done() {
		return Step{}
	}
	return s.steps[s.index]
}

// Thrust returns the current step's thrust
func (s *Script) Thrust() float64 { return s.current().Thrust }

// Rotation returns the current step's rotation
func (s *Script) Rotation() float64 { return s.current().Rotation }
