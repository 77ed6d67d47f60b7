package entity

import "sync"

// Registry owns the objects of the loaded level
type Registry struct {
	mu      sync.RWMutex
	objects map[ID]*Object
	order   []ID
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{objects: make(map[ID]*Object)}
}

// Add registers objects, keeping insertion order for deterministic iteration
func (r *Registry) Add(objects ...*Object) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range objects {
		if o == nil {
			continue
		}
		if _, exists := r.objects[o.ID]; !exists {
			r.order = append(r.order, o.ID)
		}
		r.objects[o.ID] = o
	}
}

// Get looks up an object by ID
func (r *Registry) Get(id ID) (*Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.objects[id]
	return o, ok
}

// Destroy deactivates and removes an object. Destroying twice is a no-op.
func (r *Registry) Destroy(o *Object) {
	if o == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o.Active = false
	if _, ok := r.objects[o.ID]; !ok {
		return
	}
	delete(r.objects, o.ID)
	for i, id := range r.order {
		if id == o.ID {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// Active returns the live objects in insertion order
func (r *Registry) Active() []*Object {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Object, 0, len(r.order))
	for _, id := range r.order {
		if o := r.objects[id]; o.Active {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of registered objects
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// Clear removes every object
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.objects {
		o.Active = false
	}
	r.objects = make(map[ID]*Object)
	r.order = nil
}
