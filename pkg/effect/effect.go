// Package effect holds the named visual handles the craft drives: thruster
// plumes, success and crash bursts, and the shield bubble.
//
// Handles only track state. Drawing them is left to whoever reads that state.
package effect

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Emitter is a named particle effect that is either playing or stopped
type Emitter struct {
	mu      sync.RWMutex
	name    string
	playing bool
	plays   int
}

// NewEmitter creates a stopped emitter
func NewEmitter(name string) *Emitter {
	return &Emitter{name: name}
}

// Name returns the emitter name
func (e *Emitter) Name() string { return e.name }

// Play starts the effect. Playing an active effect restarts it.
func (e *Emitter) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = true
	e.plays++
}

// Stop halts the effect
func (e *Emitter) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
}

// IsPlaying reports whether the effect is active
func (e *Emitter) IsPlaying() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.playing
}

// Plays returns how many times Play has been called
func (e *Emitter) Plays() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.plays
}

// Set bundles the craft's emitters
type Set struct {
	MainThruster  *Emitter
	LeftThruster  *Emitter
	RightThruster *Emitter
	Success       *Emitter
	Crash         *Emitter
}

// NewSet creates all craft emitters, stopped
func NewSet() Set {
	return Set{
		MainThruster:  NewEmitter("main_thruster"),
		LeftThruster:  NewEmitter("left_thruster"),
		RightThruster: NewEmitter("right_thruster"),
		Success:       NewEmitter("success"),
		Crash:         NewEmitter("crash"),
	}
}

// Active returns the names of the emitters that are playing
func (s Set) Active() []string {
	var names []string
	for _, e := range []*Emitter{s.MainThruster, s.LeftThruster, s.RightThruster, s.Success, s.Crash} {
		if e != nil && e.IsPlaying() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Shield is the visual bubble around the craft. It follows an anchor position.
type Shield struct {
	mu     sync.RWMutex
	active bool
	anchor func() mgl64.Vec3
}

// NewShield creates an inactive shield that reports anchor() as its position
func NewShield(anchor func() mgl64.Vec3) *Shield {
	return &Shield{anchor: anchor}
}

// SetActive shows or hides the shield
func (s *Shield) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// Active reports whether the shield is shown
func (s *Shield) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Position returns the world position of the shield
func (s *Shield) Position() mgl64.Vec3 {
	if s.anchor == nil {
		return mgl64.Vec3{}
	}
	return s.anchor()
}
