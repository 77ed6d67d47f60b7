// pkg/craft/motion.go
package craft

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/physics"
	"github.com/opd-ai/go-craft/pkg/timer"
)

// Authority tells the motion controller whether pilot input may be honored
type Authority interface {
	Controllable() bool
}

// MotionOutput describes what one fixed tick asked of the body
type MotionOutput struct {
	Force     mgl64.Vec3 // body-local force added this tick
	Rotation  float64    // degrees about local Z
	Thrusting bool
	Skipped   bool // true when the tick was gated and input was not read
}

// MotionController turns pilot input into forces and rotations once per fixed tick
type MotionController struct {
	body       Body
	input      Input
	locomotion AudioSource
	thrustClip string
	main       Effect
	left       Effect
	right      Effect

	authority Authority
	scheduler *timer.Scheduler

	thrustStrength   float64
	rotationStrength float64
	pressThreshold   float64

	enabled bool
	frozen  bool

	// onFreeze is told about every frozen flag change
	onFreeze func(frozen bool)
}

// NewMotionController creates an enabled, unfrozen controller.
// Timers run on scheduler, which the owner advances once per frame.
func NewMotionController(deps Dependencies, authority Authority, scheduler *timer.Scheduler, settings Settings) *MotionController {
	return &MotionController{
		body:             deps.Body,
		input:            deps.Input,
		locomotion:       deps.Locomotion,
		thrustClip:       deps.Sounds.Thrust,
		main:             deps.Effects.MainThruster,
		left:             deps.Effects.LeftThruster,
		right:            deps.Effects.RightThruster,
		authority:        authority,
		scheduler:        scheduler,
		thrustStrength:   settings.ThrustStrength,
		rotationStrength: settings.RotationStrength,
		pressThreshold:   settings.PressThreshold,
		enabled:          true,
	}
}

// FixedUpdate processes one physics tick of dt seconds
func (m *MotionController) FixedUpdate(dt float64) MotionOutput {
	if !m.enabled || m.frozen || !m.authority.Controllable() {
		return MotionOutput{Skipped: true}
	}

	var out MotionOutput
	out.Force, out.Thrusting = m.processThrust(dt)
	out.Rotation = m.processRotation(dt)
	return out
}

func (m *MotionController) processThrust(dt float64) (mgl64.Vec3, bool) {
	if m.input.Thrust() > m.pressThreshold {
		force := physics.Up.Mul(m.thrustStrength * dt)
		m.body.AddRelativeForce(force)

		if !m.locomotion.IsPlaying() {
			m.locomotion.Play(m.thrustClip)
			m.main.Play()
		}
		return force, true
	}

	if m.locomotion.IsPlaying() && m.locomotion.Clip() == m.thrustClip {
		m.locomotion.Stop()
		m.main.Stop()
	}
	return mgl64.Vec3{}, false
}

func (m *MotionController) processRotation(dt float64) float64 {
	input := m.input.Rotation()
	switch {
	case input < 0:
		degrees := m.rotationStrength * dt
		m.applyRotation(degrees)
		if !m.right.IsPlaying() {
			m.left.Stop()
			m.right.Play()
		}
		return degrees
	case input > 0:
		degrees := -m.rotationStrength * dt
		m.applyRotation(degrees)
		if !m.left.IsPlaying() {
			m.right.Stop()
			m.left.Play()
		}
		return degrees
	default:
		m.left.Stop()
		m.right.Stop()
		return 0
	}
}

// applyRotation locks solver rotation around the scripted turn and then puts the
// previous lock state back. Restoring instead of always unfreezing is intentional:
// levels spawn the craft with rotation locked and a bounce locks it again, so
// clearing the lock here would let the solver spin the craft after every turn.
func (m *MotionController) applyRotation(degrees float64) {
	wasFrozen := m.body.FreezeRotation()
	m.body.SetFreezeRotation(true)
	m.body.Rotate(physics.Forward, degrees)
	m.body.SetFreezeRotation(wasFrozen)
}

// FreezeControls ignores input for d. Calling it again restarts the countdown.
func (m *MotionController) FreezeControls(d time.Duration) {
	m.setFrozen(true)
	m.locomotion.Stop()
	m.stopEffects()
	m.scheduler.After(timer.ControlFreeze, d, func() {
		m.setFrozen(false)
	})
}

func (m *MotionController) setFrozen(frozen bool) {
	changed := m.frozen != frozen
	m.frozen = frozen
	if changed && m.onFreeze != nil {
		m.onFreeze(frozen)
	}
}

// Disable stops the controller for the rest of the level and shuts off the
// thruster effects, which no tick will get to stop afterwards
func (m *MotionController) Disable() {
	m.enabled = false
	m.stopEffects()
}

func (m *MotionController) stopEffects() {
	m.main.Stop()
	m.left.Stop()
	m.right.Stop()
}

// Enabled reports whether the controller still runs
func (m *MotionController) Enabled() bool {
	return m.enabled
}

// Frozen reports whether a control freeze is in force
func (m *MotionController) Frozen() bool {
	return m.frozen
}

// FreezeRemaining returns the time left on the control freeze
func (m *MotionController) FreezeRemaining() time.Duration {
	return m.scheduler.Remaining(timer.ControlFreeze)
}
