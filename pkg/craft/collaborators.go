// pkg/craft/collaborators.go
package craft

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/entity"
	"github.com/opd-ai/go-craft/pkg/event"
	"github.com/opd-ai/go-craft/pkg/logging"
	"github.com/opd-ai/go-craft/pkg/physics"
)

// Body is the physical body the craft steers. *physics.RigidBody implements it.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
	Velocity() mgl64.Vec3
	SetVelocity(mgl64.Vec3)
	SetAngularVelocity(mgl64.Vec3)
	Constraints() physics.Constraints
	SetConstraints(physics.Constraints)
	FreezeRotation() bool
	SetFreezeRotation(bool)
	TransformDirection(local mgl64.Vec3) mgl64.Vec3
	InverseTransformDirection(world mgl64.Vec3) mgl64.Vec3
	Right() mgl64.Vec3
	AddRelativeForce(local mgl64.Vec3)
	AddImpulse(impulse mgl64.Vec3)
	Rotate(localAxis mgl64.Vec3, degrees float64)
}

// Input exposes the two continuous pilot channels.
// Thrust is a magnitude in [0, 1]; Rotation is signed in [-1, 1].
type Input interface {
	Thrust() float64
	Rotation() float64
}

// AudioPlayer plays a fire-and-forget cue at a world position
type AudioPlayer interface {
	PlayAt(clip string, position mgl64.Vec3, volumeScale float64)
}

// AudioSource is the craft's own voice, used for locomotion and one-shot cues
type AudioSource interface {
	Play(clip string)
	PlayOneShot(clip string)
	Stop()
	IsPlaying() bool
	Clip() string
}

// Effect is a named particle or visual handle
type Effect interface {
	Play()
	Stop()
	IsPlaying() bool
}

// ShieldVisual shows the shield around the craft
type ShieldVisual interface {
	SetActive(active bool)
	Position() mgl64.Vec3
}

// SceneLoader requests level transitions. Requests are handed off and not awaited.
type SceneLoader interface {
	LoadNext()
	ReloadCurrent()
}

// ObjectDestroyer removes consumed level objects
type ObjectDestroyer interface {
	Destroy(object *entity.Object)
}

// CameraShaker plays a transient shake that decays back to the original offset
type CameraShaker interface {
	Shake(duration time.Duration, magnitude float64)
}

// DebugCommand is a developer shortcut injected into the craft
type DebugCommand int

const (
	DebugAdvanceLevel DebugCommand = iota + 1
	DebugToggleCollidable
)

func (d DebugCommand) String() string {
	switch d {
	case DebugAdvanceLevel:
		return "advance_level"
	case DebugToggleCollidable:
		return "toggle_collidable"
	default:
		return "unknown"
	}
}

// DebugSource yields queued debug commands in arrival order
type DebugSource interface {
	NextDebug() (DebugCommand, bool)
}

// Effects groups the craft's visual handles
type Effects struct {
	MainThruster  Effect
	LeftThruster  Effect
	RightThruster Effect
	Success       Effect
	Crash         Effect
}

// Sounds names the audio clips the craft plays
type Sounds struct {
	Thrust       string
	Success      string
	Crash        string
	ShieldPickup string
	ShieldBreak  string
}

// Dependencies are the collaborator handles a craft needs.
// Debug, Bus and Logger are optional; everything else is required.
type Dependencies struct {
	Body       Body
	Input      Input
	Audio      AudioPlayer
	Locomotion AudioSource
	Effects    Effects
	Shield     ShieldVisual
	Scenes     SceneLoader
	Objects    ObjectDestroyer
	Camera     CameraShaker
	Sounds     Sounds

	Debug  DebugSource
	Bus    *event.Bus
	Logger *logging.Logger
}

// Validate reports every missing handle at once
func (d Dependencies) Validate() error {
	var errs []error
	require := func(missing bool, name string) {
		if missing {
			errs = append(errs, fmt.Errorf("missing %s", name))
		}
	}

	require(d.Body == nil, "body")
	require(d.Input == nil, "input")
	require(d.Audio == nil, "audio player")
	require(d.Locomotion == nil, "locomotion audio source")
	require(d.Effects.MainThruster == nil, "main thruster effect")
	require(d.Effects.LeftThruster == nil, "left thruster effect")
	require(d.Effects.RightThruster == nil, "right thruster effect")
	require(d.Effects.Success == nil, "success effect")
	require(d.Effects.Crash == nil, "crash effect")
	require(d.Shield == nil, "shield visual")
	require(d.Scenes == nil, "scene loader")
	require(d.Objects == nil, "object destroyer")
	require(d.Camera == nil, "camera shaker")
	require(d.Sounds.Thrust == "", "thrust clip")
	require(d.Sounds.Success == "", "success clip")
	require(d.Sounds.Crash == "", "crash clip")
	require(d.Sounds.ShieldPickup == "", "shield pickup clip")
	require(d.Sounds.ShieldBreak == "", "shield break clip")

	if len(errs) > 0 {
		return fmt.Errorf("invalid craft dependencies: %w", errors.Join(errs...))
	}
	return nil
}
