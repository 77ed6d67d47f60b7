// pkg/physics/collision.go
package physics

import "github.com/go-gl/mathgl/mgl64"

// Sphere represents a spherical collision shape
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Box is an axis-aligned box given by its center and half extents
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Min returns the lowest corner of the box
func (b Box) Min() mgl64.Vec3 { return b.Center.Sub(b.HalfExtents) }

// Max returns the highest corner of the box
func (b Box) Max() mgl64.Vec3 { return b.Center.Add(b.HalfExtents) }

// Contains reports whether point lies inside or on the box
func (b Box) Contains(point mgl64.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if point[i] < lo[i] || point[i] > hi[i] {
			return false
		}
	}
	return true
}

// ClosestPoint returns the point of the box nearest to p
func (b Box) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	lo, hi := b.Min(), b.Max()
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		out[i] = Clamp(p[i], lo[i], hi[i])
	}
	return out
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       mgl64.Vec3 // unit vector pointing from the box toward the sphere
	Penetration  float64
	ContactPoint mgl64.Vec3
}

// CheckCollision performs sphere-versus-box detection
func CheckCollision(s Sphere, b Box) CollisionResult {
	closest := b.ClosestPoint(s.Center)
	offset := s.Center.Sub(closest)
	distance := offset.Len()

	if distance > s.Radius {
		return CollisionResult{Collided: false}
	}

	if distance > 0 {
		return CollisionResult{
			Collided:     true,
			Normal:       offset.Mul(1 / distance),
			Penetration:  s.Radius - distance,
			ContactPoint: closest,
		}
	}

	// Center is inside the box: push out through the nearest face
	return insideBox(s, b)
}

func insideBox(s Sphere, b Box) CollisionResult {
	lo, hi := b.Min(), b.Max()
	bestAxis, bestSign := 0, 1.0
	bestDepth := hi[0] - s.Center[0]

	for i := 0; i < 3; i++ {
		if d := hi[i] - s.Center[i]; d < bestDepth {
			bestAxis, bestSign, bestDepth = i, 1, d
		}
		if d := s.Center[i] - lo[i]; d < bestDepth {
			bestAxis, bestSign, bestDepth = i, -1, d
		}
	}

	var normal mgl64.Vec3
	normal[bestAxis] = bestSign
	contact := s.Center
	if bestSign > 0 {
		contact[bestAxis] = hi[bestAxis]
	} else {
		contact[bestAxis] = lo[bestAxis]
	}

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  s.Radius + bestDepth,
		ContactPoint: contact,
	}
}

// Overlaps reports whether the sphere touches the box
func Overlaps(s Sphere, b Box) bool {
	return CheckCollision(s, b).Collided
}
