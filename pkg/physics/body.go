// pkg/physics/body.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultGravity pulls along world -Y
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// BodyConfig holds the physical properties of a rigid body
type BodyConfig struct {
	Mass    float64
	Drag    float64
	Gravity mgl64.Vec3
}

// RigidBody is a minimal rigid body integrator: semi-implicit Euler for linear motion,
// quaternion integration for angular motion, and per-axis constraint locking.
type RigidBody struct {
	position        mgl64.Vec3
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3 // radians per second, world frame
	orientation     mgl64.Quat
	constraints     Constraints

	mass    float64
	drag    float64
	gravity mgl64.Vec3

	force mgl64.Vec3 // accumulated since the last Step
}

// NewRigidBody creates a body at position with identity orientation
func NewRigidBody(position mgl64.Vec3, cfg BodyConfig) *RigidBody {
	mass := cfg.Mass
	if mass <= 0 {
		mass = 1
	}
	return &RigidBody{
		position:    position,
		orientation: mgl64.QuatIdent(),
		mass:        mass,
		drag:        math.Max(cfg.Drag, 0),
		gravity:     cfg.Gravity,
	}
}

// Position returns the world position
func (b *RigidBody) Position() mgl64.Vec3 { return b.position }

// SetPosition teleports the body
func (b *RigidBody) SetPosition(p mgl64.Vec3) { b.position = p }

// Velocity returns the world linear velocity
func (b *RigidBody) Velocity() mgl64.Vec3 { return b.velocity }

// SetVelocity replaces the world linear velocity
func (b *RigidBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }

// AngularVelocity returns the world angular velocity in radians per second
func (b *RigidBody) AngularVelocity() mgl64.Vec3 { return b.angularVelocity }

// SetAngularVelocity replaces the world angular velocity
func (b *RigidBody) SetAngularVelocity(w mgl64.Vec3) { b.angularVelocity = w }

// Orientation returns the body-to-world rotation
func (b *RigidBody) Orientation() mgl64.Quat { return b.orientation }

// SetOrientation replaces the body-to-world rotation
func (b *RigidBody) SetOrientation(q mgl64.Quat) { b.orientation = q.Normalize() }

// Mass returns the body mass
func (b *RigidBody) Mass() float64 { return b.mass }

// Constraints returns the current constraint mask
func (b *RigidBody) Constraints() Constraints { return b.constraints }

// SetConstraints replaces the constraint mask
func (b *RigidBody) SetConstraints(c Constraints) { b.constraints = c }

// FreezeRotation reports whether all rotation axes are locked
func (b *RigidBody) FreezeRotation() bool { return b.constraints.Has(FreezeRotation) }

// SetFreezeRotation locks or unlocks all rotation axes, leaving position locks alone
func (b *RigidBody) SetFreezeRotation(frozen bool) {
	if frozen {
		b.constraints |= FreezeRotation
	} else {
		b.constraints &^= FreezeRotation
	}
}

// TransformDirection maps a body-local direction into the world frame
func (b *RigidBody) TransformDirection(local mgl64.Vec3) mgl64.Vec3 {
	return b.orientation.Rotate(local)
}

// InverseTransformDirection maps a world direction into the body-local frame
func (b *RigidBody) InverseTransformDirection(world mgl64.Vec3) mgl64.Vec3 {
	return b.orientation.Inverse().Rotate(world)
}

// Right returns the body's local +X axis in world space
func (b *RigidBody) Right() mgl64.Vec3 { return b.TransformDirection(Right) }

// Up returns the body's local +Y axis in world space
func (b *RigidBody) Up() mgl64.Vec3 { return b.TransformDirection(Up) }

// AddForce accumulates a world-space force applied on the next Step
func (b *RigidBody) AddForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// AddRelativeForce accumulates a body-local force applied on the next Step
func (b *RigidBody) AddRelativeForce(local mgl64.Vec3) {
	b.AddForce(b.TransformDirection(local))
}

// AddImpulse changes velocity immediately by impulse / mass
func (b *RigidBody) AddImpulse(impulse mgl64.Vec3) {
	b.velocity = b.velocity.Add(impulse.Mul(1 / b.mass))
}

// ResolveContact pushes the body out of a surface along normal and removes the
// part of its velocity that points into the surface
func (b *RigidBody) ResolveContact(normal mgl64.Vec3, penetration float64) {
	if penetration > 0 {
		b.position = b.position.Add(normal.Mul(penetration))
	}
	if into := b.velocity.Dot(normal); into < 0 {
		b.velocity = b.velocity.Sub(normal.Mul(into))
	}
}

// PendingForce returns the force accumulated since the last Step
func (b *RigidBody) PendingForce() mgl64.Vec3 { return b.force }

// Rotate turns the body about a local axis by degrees.
// It is a direct orientation change and ignores rotation constraints.
func (b *RigidBody) Rotate(localAxis mgl64.Vec3, degrees float64) {
	if degrees == 0 || localAxis.Len() == 0 {
		return
	}
	delta := mgl64.QuatRotate(mgl64.DegToRad(degrees), localAxis.Normalize())
	b.orientation = b.orientation.Mul(delta).Normalize()
}

// Step integrates the body forward by dt seconds and clears accumulated force
func (b *RigidBody) Step(dt float64) {
	if dt <= 0 {
		return
	}

	accel := b.gravity.Add(b.force.Mul(1 / b.mass))
	b.velocity = b.velocity.Add(accel.Mul(dt))
	if b.drag > 0 {
		b.velocity = b.velocity.Mul(math.Max(0, 1-b.drag*dt))
	}
	b.applyConstraints()

	b.position = b.position.Add(b.velocity.Mul(dt))
	b.integrateRotation(dt)

	b.force = mgl64.Vec3{}
}

func (b *RigidBody) applyConstraints() {
	for axis := AxisX; axis <= AxisZ; axis++ {
		if b.constraints.PositionFrozen(axis) {
			b.velocity[axis] = 0
		}
		if b.constraints.RotationFrozen(axis) {
			b.angularVelocity[axis] = 0
		}
	}
}

func (b *RigidBody) integrateRotation(dt float64) {
	speed := b.angularVelocity.Len()
	if speed == 0 {
		return
	}
	delta := mgl64.QuatRotate(speed*dt, b.angularVelocity.Mul(1/speed))
	b.orientation = delta.Mul(b.orientation).Normalize()
}
