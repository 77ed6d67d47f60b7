package physics

import "strings"

// Constraints is a bitmask of frozen position and rotation axes.
// Axes are world axes; a frozen position axis keeps zero velocity along it.
type Constraints uint8

const (
	// ConstraintsNone leaves the body fully free
	ConstraintsNone Constraints = 0

	FreezePositionX Constraints = 1 << iota
	FreezePositionY
	FreezePositionZ
	FreezeRotationX
	FreezeRotationY
	FreezeRotationZ

	FreezePosition = FreezePositionX | FreezePositionY | FreezePositionZ
	FreezeRotation = FreezeRotationX | FreezeRotationY | FreezeRotationZ
	FreezeAll      = FreezePosition | FreezeRotation
)

// Has reports whether every bit of flag is set
func (c Constraints) Has(flag Constraints) bool {
	return c&flag == flag
}

// PositionFrozen reports whether the position axis is locked
func (c Constraints) PositionFrozen(axis Axis) bool {
	return c.Has(FreezePositionX << uint(axis))
}

// RotationFrozen reports whether rotation about the axis is locked
func (c Constraints) RotationFrozen(axis Axis) bool {
	return c.Has(FreezeRotationX << uint(axis))
}

func (c Constraints) String() string {
	if c == ConstraintsNone {
		return "none"
	}
	names := []string{"pos.x", "pos.y", "pos.z", "rot.x", "rot.y", "rot.z"}
	var parts []string
	for i, name := range names {
		if c&(FreezePositionX<<uint(i)) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}
