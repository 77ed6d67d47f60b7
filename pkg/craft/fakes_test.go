// pkg/craft/fakes_test.go
package craft

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/entity"
	"github.com/opd-ai/go-craft/pkg/event"
	"github.com/opd-ai/go-craft/pkg/physics"
)

type fakeInput struct {
	thrust   float64
	rotation float64
	reads    int
}

func (f *fakeInput) Thrust() float64   { f.reads++; return f.thrust }
func (f *fakeInput) Rotation() float64 { f.reads++; return f.rotation }

type playedCue struct {
	clip     string
	position mgl64.Vec3
	volume   float64
}

type fakePlayer struct {
	played []playedCue
}

func (f *fakePlayer) PlayAt(clip string, position mgl64.Vec3, volume float64) {
	f.played = append(f.played, playedCue{clip, position, volume})
}

type fakeSource struct {
	clip     string
	playing  bool
	oneShots []string
	stops    int
}

func (f *fakeSource) Play(clip string)        { f.clip = clip; f.playing = true }
func (f *fakeSource) PlayOneShot(clip string) { f.oneShots = append(f.oneShots, clip) }
func (f *fakeSource) Stop()                   { f.playing = false; f.stops++ }
func (f *fakeSource) IsPlaying() bool         { return f.playing }
func (f *fakeSource) Clip() string            { return f.clip }

type fakeEffect struct {
	playing bool
	plays   int
}

func (f *fakeEffect) Play()           { f.playing = true; f.plays++ }
func (f *fakeEffect) Stop()           { f.playing = false }
func (f *fakeEffect) IsPlaying() bool { return f.playing }

type fakeShield struct {
	active   bool
	position mgl64.Vec3
}

func (f *fakeShield) SetActive(active bool) { f.active = active }
func (f *fakeShield) Position() mgl64.Vec3  { return f.position }

type fakeScenes struct {
	next    int
	reloads int
}

func (f *fakeScenes) LoadNext()      { f.next++ }
func (f *fakeScenes) ReloadCurrent() { f.reloads++ }

type fakeObjects struct {
	destroyed []*entity.Object
}

func (f *fakeObjects) Destroy(o *entity.Object) {
	o.Active = false
	f.destroyed = append(f.destroyed, o)
}

type fakeCamera struct {
	shakes    int
	duration  time.Duration
	magnitude float64
}

func (f *fakeCamera) Shake(d time.Duration, magnitude float64) {
	f.shakes++
	f.duration = d
	f.magnitude = magnitude
}

type fakeDebug struct {
	queue []DebugCommand
}

func (f *fakeDebug) NextDebug() (DebugCommand, bool) {
	if len(f.queue) == 0 {
		return 0, false
	}
	cmd := f.queue[0]
	f.queue = f.queue[1:]
	return cmd, true
}

// rig bundles a craft with its fakes
type rig struct {
	craft   *Craft
	body    *physics.RigidBody
	input   *fakeInput
	player  *fakePlayer
	source  *fakeSource
	main    *fakeEffect
	left    *fakeEffect
	right   *fakeEffect
	success *fakeEffect
	crash   *fakeEffect
	shield  *fakeShield
	scenes  *fakeScenes
	objects *fakeObjects
	camera  *fakeCamera
	debug   *fakeDebug
	bus     *event.Bus
	events  []event.Type
}

func testSounds() Sounds {
	return Sounds{
		Thrust:       "thrust",
		Success:      "success",
		Crash:        "crash",
		ShieldPickup: "shield-pickup",
		ShieldBreak:  "shield-break",
	}
}

func testSettings() Settings {
	return Settings{
		LevelLoadDelay:    time.Second,
		InvincibilityTime: time.Second,
		FreezeDuration:    500 * time.Millisecond,
		ShieldBounceForce: 0.5,
		ThrustStrength:    1000,
		RotationStrength:  100,
		PressThreshold:    0.5,
		ShakeDuration:     200 * time.Millisecond,
		ShakeMagnitude:    0.1,
		VolumeScale:       0.8,
	}
}

func newRig(t *testing.T, gravity mgl64.Vec3) *rig {
	t.Helper()
	return newRigWithSettings(t, gravity, testSettings())
}

func newRigWithSettings(t *testing.T, gravity mgl64.Vec3, settings Settings) *rig {
	t.Helper()

	r := &rig{
		body:    physics.NewRigidBody(mgl64.Vec3{0, 5, 0}, physics.BodyConfig{Mass: 1, Gravity: gravity}),
		input:   &fakeInput{},
		player:  &fakePlayer{},
		source:  &fakeSource{},
		main:    &fakeEffect{},
		left:    &fakeEffect{},
		right:   &fakeEffect{},
		success: &fakeEffect{},
		crash:   &fakeEffect{},
		shield:  &fakeShield{position: mgl64.Vec3{0, 5, 0}},
		scenes:  &fakeScenes{},
		objects: &fakeObjects{},
		camera:  &fakeCamera{},
		debug:   &fakeDebug{},
		bus:     event.NewEventBus(),
	}
	record := func(e event.Event) { r.events = append(r.events, e.GetType()) }
	for _, typ := range []event.Type{
		event.ShieldPickedUp, event.ShieldAbsorbed, event.CraftCrashed, event.LevelCompleted,
		event.InvincibilityStarted, event.InvincibilityEnded, event.ControlRestored,
		event.ControlsFrozen, event.ControlsUnfrozen, event.CollisionToggled,
	} {
		r.bus.Subscribe(typ, record)
	}

	c, err := New(context.Background(), r.dependencies(), settings)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	r.craft = c
	return r
}

func (r *rig) dependencies() Dependencies {
	return Dependencies{
		Body:       r.body,
		Input:      r.input,
		Audio:      r.player,
		Locomotion: r.source,
		Effects: Effects{
			MainThruster:  r.main,
			LeftThruster:  r.left,
			RightThruster: r.right,
			Success:       r.success,
			Crash:         r.crash,
		},
		Shield:  r.shield,
		Scenes:  r.scenes,
		Objects: r.objects,
		Camera:  r.camera,
		Sounds:  testSounds(),
		Debug:   r.debug,
		Bus:     r.bus,
	}
}

func (r *rig) count(typ event.Type) int {
	n := 0
	for _, e := range r.events {
		if e == typ {
			n++
		}
	}
	return n
}

// frame runs one engine-style frame: fixed step, integration, post-step, then timers
func (r *rig) frame(dt time.Duration) {
	seconds := dt.Seconds()
	r.craft.FixedUpdate(seconds)
	r.body.Step(seconds)
	r.craft.PostStep()
	r.craft.Update(dt)
}

func box(x float64) physics.Box {
	return physics.Box{Center: mgl64.Vec3{x, 5, 0}, HalfExtents: mgl64.Vec3{1, 1, 1}}
}

func hostile(normal mgl64.Vec3) ContactEvent {
	return NewContact(entity.NewObject("rock", "", entity.Solid, box(2)), normal)
}

func solid(tag string) ContactEvent {
	return NewContact(entity.NewObject(tag, tag, entity.Solid, box(2)), mgl64.Vec3{-1, 0, 0})
}

func pickup() ContactEvent {
	return NewContact(entity.NewObject("shield", entity.TagShield, entity.Trigger, box(1)), mgl64.Vec3{})
}
