// pkg/entity/entity.go
package entity

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

var lastID atomic.Uint64

// GenerateID returns a process-unique entity ID
func GenerateID() ID {
	return ID(lastID.Add(1))
}

// Object tags understood by the contact resolver
const (
	TagFriendly = "Friendly"
	TagFinish   = "Finish"
	TagShield   = "Shield"
)

// Kind distinguishes solid colliders from trigger volumes
type Kind int

const (
	Solid Kind = iota
	Trigger
)

func (k Kind) String() string {
	if k == Trigger {
		return "trigger"
	}
	return "solid"
}

// Object is a static level object the craft can touch.
// Objects are owned by the Registry; the resolver only requests their destruction.
type Object struct {
	ID       ID
	Name     string
	Tag      string
	Kind     Kind
	Collider physics.Box
	Active   bool
}

// NewObject creates an active object with a fresh ID
func NewObject(name, tag string, kind Kind, collider physics.Box) *Object {
	return &Object{
		ID:       GenerateID(),
		Name:     name,
		Tag:      tag,
		Kind:     kind,
		Collider: collider,
		Active:   true,
	}
}

// GetID returns the object's unique identifier
func (o *Object) GetID() ID {
	return o.ID
}

// GetPosition returns the center of the object's collider
func (o *Object) GetPosition() mgl64.Vec3 {
	return o.Collider.Center
}

// Destroyed reports whether the object has been removed from play
func (o *Object) Destroyed() bool {
	return o == nil || !o.Active
}
