// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Local body axes. The craft thrusts along Up and bounces along Right.
var (
	Right   = mgl64.Vec3{1, 0, 0}
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// Axis indexes a component of a Vec3
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// KeepAxis returns v with every component except axis set to zero
func KeepAxis(v mgl64.Vec3, axis Axis) mgl64.Vec3 {
	var out mgl64.Vec3
	out[axis] = v[axis]
	return out
}

// WithComponent returns v with the given axis replaced by value
func WithComponent(v mgl64.Vec3, axis Axis, value float64) mgl64.Vec3 {
	v[axis] = value
	return v
}

// ApproxEqual reports whether two vectors match within tolerance on every axis
func ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

// Clamp limits value to the closed range [low, high]
func Clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}
