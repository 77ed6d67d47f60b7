// pkg/scene/manager.go
package scene

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/config"
	"github.com/opd-ai/go-craft/pkg/entity"
	"github.com/opd-ai/go-craft/pkg/physics"
)

// Request is a pending level transition
type Request int

const (
	None Request = iota
	Next
	Reload
)

func (r Request) String() string {
	switch r {
	case Next:
		return "next"
	case Reload:
		return "reload"
	default:
		return "none"
	}
}

// Level is a level definition in build order
type Level struct {
	Index int
	Name  string
	Spawn mgl64.Vec3
	def   config.LevelConfig
}

// Objects builds fresh level objects from the definition.
// Each call returns new objects with new IDs, so a reload never sees consumed pickups.
func (l Level) Objects() []*entity.Object {
	objects := make([]*entity.Object, 0, len(l.def.Objects))
	for _, o := range l.def.Objects {
		kind := entity.Solid
		if o.Trigger {
			kind = entity.Trigger
		}
		collider := physics.Box{
			Center:      mgl64.Vec3(o.Center),
			HalfExtents: mgl64.Vec3(o.Size).Mul(0.5),
		}
		objects = append(objects, entity.NewObject(o.Name, o.Tag, kind, collider))
	}
	return objects
}

// Manager tracks the active level and collects transition requests.
// LoadNext and ReloadCurrent only record the request; the game loop applies it
// with Take between frames.
type Manager struct {
	mu      sync.Mutex
	levels  []config.LevelConfig
	current int
	pending Request
}

// NewManager creates a manager positioned on start
func NewManager(levels []config.LevelConfig, start int) (*Manager, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("scene manager needs at least one level")
	}
	if start < 0 || start >= len(levels) {
		return nil, fmt.Errorf("start level %d out of range [0, %d)", start, len(levels))
	}
	return &Manager{levels: levels, current: start}, nil
}

// LoadNext requests the next level, wrapping to the first after the last
func (m *Manager) LoadNext() {
	m.request(Next)
}

// ReloadCurrent requests a fresh copy of the active level
func (m *Manager) ReloadCurrent() {
	m.request(Reload)
}

// request keeps the first request of a frame; later ones are dropped
func (m *Manager) request(r Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == None {
		m.pending = r
	}
}

// Pending returns the request waiting to be applied
func (m *Manager) Pending() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Take applies the pending request, if any, and returns the level to build
func (m *Manager) Take() (Request, Level, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.pending
	if r == None {
		return None, Level{}, false
	}
	m.pending = None
	if r == Next {
		m.current = NextIndex(m.current, len(m.levels))
	}
	return r, m.levelLocked(), true
}

// Current returns the active level
func (m *Manager) Current() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levelLocked()
}

// Count returns the number of levels
func (m *Manager) Count() int {
	return len(m.levels)
}

func (m *Manager) levelLocked() Level {
	def := m.levels[m.current]
	return Level{
		Index: m.current,
		Name:  def.Name,
		Spawn: mgl64.Vec3(def.Spawn),
		def:   def,
	}
}

// NextIndex returns the index after current, wrapping past the last level to 0
func NextIndex(current, count int) int {
	next := current + 1
	if next >= count {
		return 0
	}
	return next
}
