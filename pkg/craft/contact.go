// pkg/craft/contact.go
package craft

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/entity"
)

// Category classifies the other party of a contact
type Category int

const (
	Hostile Category = iota
	Friendly
	Finish
	Shield
)

func (c Category) String() string {
	switch c {
	case Friendly:
		return "friendly"
	case Finish:
		return "finish"
	case Shield:
		return "shield"
	default:
		return "hostile"
	}
}

// CategoryFromTag maps an object tag to a contact category.
// Unknown and empty tags are hostile.
func CategoryFromTag(tag string) Category {
	switch tag {
	case entity.TagFriendly:
		return Friendly
	case entity.TagFinish:
		return Finish
	case entity.TagShield:
		return Shield
	default:
		return Hostile
	}
}

// exempt reports whether a solid contact with this category never consumes the shield
func (c Category) exempt() bool {
	return c == Friendly || c == Finish || c == Shield
}

// ContactKind separates overlap events from solid collisions
type ContactKind int

const (
	ContactSolid ContactKind = iota
	ContactTrigger
)

func (k ContactKind) String() string {
	if k == ContactTrigger {
		return "trigger"
	}
	return "solid"
}

// ContactEvent is one discrete contact between the craft and a level object.
// Normal is a unit vector in world space pointing from the object towards the craft.
// The caller keeps ownership of Source.
type ContactEvent struct {
	Kind     ContactKind
	Category Category
	Normal   mgl64.Vec3
	Source   *entity.Object
}

// NewContact builds a contact event from a level object, deriving kind and category from it
func NewContact(source *entity.Object, normal mgl64.Vec3) ContactEvent {
	kind := ContactSolid
	if source.Kind == entity.Trigger {
		kind = ContactTrigger
	}
	return ContactEvent{
		Kind:     kind,
		Category: CategoryFromTag(source.Tag),
		Normal:   normal,
		Source:   source,
	}
}

func (e ContactEvent) sourceID() uint64 {
	if e.Source == nil {
		return 0
	}
	return uint64(e.Source.ID)
}

// Outcome is the result of resolving one contact
type Outcome int

const (
	Ignored Outcome = iota
	FriendlyContact
	Success
	Crash
	ShieldAbsorbed
	ShieldPickup
)

func (o Outcome) String() string {
	switch o {
	case FriendlyContact:
		return "friendly"
	case Success:
		return "success"
	case Crash:
		return "crash"
	case ShieldAbsorbed:
		return "shield_absorbed"
	case ShieldPickup:
		return "shield_pickup"
	default:
		return "ignored"
	}
}
