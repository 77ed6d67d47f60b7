// pkg/camera/camera.go
package camera

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/timer"
)

// Rig is a follow camera with a fixed offset from its target and a transient shake.
// The shake jitters the offset on X and Y and snaps back to the original offset
// when it ends.
type Rig struct {
	mu sync.Mutex

	// Target to follow
	target    mgl64.Vec3
	targetSet bool

	// Smooth following
	followSpeed float64
	smoothing   bool

	offset     mgl64.Vec3
	shake      mgl64.Vec3
	currentPos mgl64.Vec3

	scheduler *timer.Scheduler
	rng       *rand.Rand
	shakes    int
}

// NewRig creates a camera that sits at offset from its target
func NewRig(offset mgl64.Vec3) *Rig {
	return NewRigWithRand(offset, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewRigWithRand creates a camera whose shake draws from rng
func NewRigWithRand(offset mgl64.Vec3, rng *rand.Rand) *Rig {
	return &Rig{
		followSpeed: 5.0,
		offset:      offset,
		scheduler:   timer.NewScheduler(),
		rng:         rng,
	}
}

// SetSmoothing enables eased following at speed (per second).
// When disabled the camera snaps to its target every update.
func (r *Rig) SetSmoothing(enabled bool, speed float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.smoothing = enabled
	if speed > 0 {
		r.followSpeed = speed
	}
}

// Follow sets the point the camera tracks
func (r *Rig) Follow(target mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
	if !r.targetSet {
		r.currentPos = target
	}
	r.targetSet = true
}

// Snap jumps straight to the target, used on level loads
func (r *Rig) Snap(target mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
	r.currentPos = target
	r.targetSet = true
}

// Shake jitters the camera for d with the given magnitude, then restores the
// original offset. A new shake replaces one in progress.
func (r *Rig) Shake(d time.Duration, magnitude float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shakes++
	r.scheduler.During(timer.CameraShake, d,
		func(time.Duration) {
			r.shake = mgl64.Vec3{
				(r.rng.Float64()*2 - 1) * magnitude,
				(r.rng.Float64()*2 - 1) * magnitude,
				0,
			}
		},
		func() { r.shake = mgl64.Vec3{} },
	)
}

// Update advances following and the shake by one frame
func (r *Rig) Update(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.targetSet {
		r.updatePosition(dt.Seconds())
	}
	r.scheduler.Advance(dt)
}

func (r *Rig) updatePosition(dt float64) {
	if !r.smoothing {
		r.currentPos = r.target
		return
	}
	t := math.Min(1, r.followSpeed*dt)
	r.currentPos = r.currentPos.Add(r.target.Sub(r.currentPos).Mul(t))
}

// Position returns the world position of the camera including any shake
func (r *Rig) Position() mgl64.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentPos.Add(r.offset).Add(r.shake)
}

// LocalOffset returns the current offset from the followed point including any shake
func (r *Rig) LocalOffset() mgl64.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset.Add(r.shake)
}

// Focus returns the point the camera is currently centered on
func (r *Rig) Focus() mgl64.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentPos.Add(r.shake)
}

// Shaking reports whether a shake is in progress
func (r *Rig) Shaking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scheduler.Active(timer.CameraShake)
}

// Shakes returns how many shakes have been requested
func (r *Rig) Shakes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shakes
}
