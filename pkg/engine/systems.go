// pkg/engine/systems.go
package engine

import (
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-craft/pkg/camera"
	"github.com/opd-ai/go-craft/pkg/craft"
	"github.com/opd-ai/go-craft/pkg/entity"
	"github.com/opd-ai/go-craft/pkg/physics"
)

// System priorities; higher runs first within a frame
const (
	PhysicsPriority = 30
	CraftPriority   = 10
	CameraPriority  = 0
)

// maxStepsPerFrame bounds catch-up after a long frame
const maxStepsPerFrame = 8

// frameClock carries the exact frame delta to every system. ecs hands systems a
// float32, which drifts against the duration-based timers.
type frameClock struct {
	dt time.Duration
}

// pilot is the craft plus the body it steers
type pilot struct {
	craft  *craft.Craft
	body   *physics.RigidBody
	radius float64
}

// PhysicsSystem runs fixed steps from an accumulator. Each step applies pilot
// input, integrates the body, resolves the contacts that began on that step and
// holds the recovery height. A contact that locks control therefore gates input
// from the very next step, even inside a catch-up frame.
type PhysicsSystem struct {
	clock    *frameClock
	step     time.Duration
	acc      time.Duration
	objects  *entity.Registry
	detector *ContactDetector
	pilot    *pilot
	ticks    uint64
	outcomes map[craft.Outcome]int
}

// Add attaches the craft this system steps
func (ps *PhysicsSystem) Add(c *craft.Craft, body *physics.RigidBody, radius float64) {
	ps.pilot = &pilot{craft: c, body: body, radius: radius}
	ps.acc = 0
	ps.detector.Reset()
}

// Remove satisfies the ecs.System interface
func (ps *PhysicsSystem) Remove(basic ecs.BasicEntity) {
	if ps.pilot != nil && ps.pilot.craft.ID() == basic.ID() {
		ps.pilot = nil
	}
}

// Priority satisfies ecs.Prioritizer
func (ps *PhysicsSystem) Priority() int { return PhysicsPriority }

// Update runs as many fixed steps as the frame time covers
func (ps *PhysicsSystem) Update(float32) {
	if ps.pilot == nil {
		return
	}
	ps.acc += ps.clock.dt
	for steps := 0; ps.acc >= ps.step && steps < maxStepsPerFrame; steps++ {
		ps.acc -= ps.step
		ps.fixedStep(ps.step.Seconds())
	}
	if ps.acc > ps.step {
		ps.acc = ps.step
	}
}

func (ps *PhysicsSystem) fixedStep(dt float64) {
	p := ps.pilot
	p.craft.FixedUpdate(dt)
	p.body.Step(dt)
	ps.dispatch(ps.detector.Detect(p.body, p.radius, ps.objects.Active()))
	p.craft.PostStep()
	ps.ticks++
}

// dispatch hands contacts to the craft in arrival order. The craft re-reads its
// flags for every event, so an event that locks control turns the remaining
// solid contacts into no-ops.
func (ps *PhysicsSystem) dispatch(events []craft.ContactEvent) {
	for _, ev := range events {
		ps.outcomes[ps.pilot.craft.HandleContact(ev)]++
	}
}

// Ticks returns the number of fixed steps run so far
func (ps *PhysicsSystem) Ticks() uint64 { return ps.ticks }

// Outcomes returns how often each outcome has occurred
func (ps *PhysicsSystem) Outcomes() map[craft.Outcome]int {
	out := make(map[craft.Outcome]int, len(ps.outcomes))
	for k, v := range ps.outcomes {
		out[k] = v
	}
	return out
}

// CraftSystem runs the craft's per-frame work: debug commands and timers
type CraftSystem struct {
	clock *frameClock
	craft *craft.Craft
}

// Add attaches the craft
func (cs *CraftSystem) Add(c *craft.Craft) {
	cs.craft = c
}

// Remove destroys the craft when its entity leaves the world, which cancels
// every timed procedure it still has pending
func (cs *CraftSystem) Remove(basic ecs.BasicEntity) {
	if cs.craft != nil && cs.craft.ID() == basic.ID() {
		cs.craft.Destroy()
		cs.craft = nil
	}
}

// Priority satisfies ecs.Prioritizer
func (cs *CraftSystem) Priority() int { return CraftPriority }

// Update advances the craft by one frame
func (cs *CraftSystem) Update(float32) {
	if cs.craft != nil {
		cs.craft.Update(cs.clock.dt)
	}
}

// CameraSystem keeps the camera on the craft and advances its shake
type CameraSystem struct {
	clock *frameClock
	rig   *camera.Rig
	body  *physics.RigidBody
}

// Add sets the body to follow and snaps to it
func (cs *CameraSystem) Add(body *physics.RigidBody) {
	cs.body = body
	cs.rig.Snap(body.Position())
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(ecs.BasicEntity) {}

// Priority satisfies ecs.Prioritizer
func (cs *CameraSystem) Priority() int { return CameraPriority }

// Update follows the body and advances the shake
func (cs *CameraSystem) Update(float32) {
	if cs.body != nil {
		cs.rig.Follow(cs.body.Position())
	}
	cs.rig.Update(cs.clock.dt)
}
