// pkg/engine/contacts.go
package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/craft"
	"github.com/opd-ai/go-craft/pkg/entity"
	"github.com/opd-ai/go-craft/pkg/physics"
)

// Body is what the detector needs from the craft's rigid body
type Body interface {
	Position() mgl64.Vec3
	ResolveContact(normal mgl64.Vec3, penetration float64)
}

// ContactDetector finds overlaps between the craft and level objects.
// An event is produced only on the first tick of an overlap ("enter" semantics);
// an object must separate before it can produce another.
type ContactDetector struct {
	touching map[entity.ID]bool
}

// NewContactDetector creates a detector with no remembered overlaps
func NewContactDetector() *ContactDetector {
	return &ContactDetector{touching: make(map[entity.ID]bool)}
}

// Detect tests the craft sphere against objects, pushes the body out of solid
// ones, and returns the contacts that began this tick in object order
func (d *ContactDetector) Detect(body Body, radius float64, objects []*entity.Object) []craft.ContactEvent {
	var events []craft.ContactEvent
	touching := make(map[entity.ID]bool, len(d.touching))

	for _, obj := range objects {
		if obj.Destroyed() {
			continue
		}
		result := physics.CheckCollision(physics.Sphere{Center: body.Position(), Radius: radius}, obj.Collider)
		if !result.Collided {
			continue
		}

		touching[obj.ID] = true
		if obj.Kind == entity.Solid {
			body.ResolveContact(result.Normal, result.Penetration)
		}
		if !d.touching[obj.ID] {
			events = append(events, craft.NewContact(obj, result.Normal))
		}
	}

	d.touching = touching
	return events
}

// Reset forgets every remembered overlap
func (d *ContactDetector) Reset() {
	d.touching = make(map[entity.ID]bool)
}

// Touching reports whether the object overlapped the craft on the last tick
func (d *ContactDetector) Touching(id entity.ID) bool {
	return d.touching[id]
}
