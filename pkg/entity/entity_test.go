// pkg/entity/entity_test.go
package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/physics"
)

func testBox(x float64) physics.Box {
	return physics.Box{Center: mgl64.Vec3{x, 0, 0}, HalfExtents: mgl64.Vec3{1, 1, 1}}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if seen[id] {
			t.Fatalf("GenerateID() returned duplicate %d", id)
		}
		seen[id] = true
	}
}

func TestNewObject_IsActive(t *testing.T) {
	o := NewObject("pad", TagFinish, Solid, testBox(3))

	if !o.Active || o.Destroyed() {
		t.Error("new object should be active")
	}
	if o.GetPosition() != (mgl64.Vec3{3, 0, 0}) {
		t.Errorf("GetPosition() = %v, want collider center", o.GetPosition())
	}
	if o.GetID() == 0 {
		t.Error("GetID() should not be zero")
	}
}

func TestObject_DestroyedOnNil(t *testing.T) {
	var o *Object
	if !o.Destroyed() {
		t.Error("nil object should report Destroyed()")
	}
}

func TestKind_String(t *testing.T) {
	if Solid.String() != "solid" || Trigger.String() != "trigger" {
		t.Errorf("Kind strings = %q/%q", Solid.String(), Trigger.String())
	}
}

func TestRegistry_DestroyRemovesOnce(t *testing.T) {
	r := NewRegistry()
	a := NewObject("a", "", Solid, testBox(0))
	b := NewObject("shield", TagShield, Trigger, testBox(5))
	r.Add(a, b, nil)

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	r.Destroy(b)
	r.Destroy(b)

	if !b.Destroyed() {
		t.Error("destroyed object should be inactive")
	}
	if _, ok := r.Get(b.ID); ok {
		t.Error("destroyed object should not be retrievable")
	}
	active := r.Active()
	if len(active) != 1 || active[0] != a {
		t.Errorf("Active() = %v, want only a", active)
	}
}

func TestRegistry_ActiveKeepsInsertionOrder(t *testing.T) {
	r := NewRegistry()
	objs := []*Object{
		NewObject("one", "", Solid, testBox(0)),
		NewObject("two", "", Solid, testBox(1)),
		NewObject("three", "", Solid, testBox(2)),
	}
	r.Add(objs...)

	for i, o := range r.Active() {
		if o != objs[i] {
			t.Errorf("Active()[%d] = %s, want %s", i, o.Name, objs[i].Name)
		}
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	o := NewObject("rock", "", Solid, testBox(0))
	r.Add(o)
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", r.Len())
	}
	if o.Active {
		t.Error("Clear() should deactivate objects")
	}
}
