package scene

import "sync"

// Op describes a mutation applied to a scene object.
type Op string

// Mutation operations published to subscribers.
const (
	OpAdd     Op = "add"
	OpMove    Op = "move"
	OpScale   Op = "scale"
	OpRotate  Op = "rotate"
	OpRestyle Op = "restyle"
	OpRemove  Op = "remove"
	OpClear   Op = "clear"
)

// Event is a single scene mutation. Object is nil for OpClear.
type Event struct {
	Op     Op
	Object *Object
}

// Subscriber receives scene mutation events synchronously, on the
// mutating goroutine.
type Subscriber func(Event)

// Scene is an ordered collection of canvas objects.
//
// Exactly one goroutine mutates a Scene at a time (the view loader or the
// interaction layer), so object access is unsynchronized; only the
// subscriber list is guarded.
type Scene struct {
	objects []*Object

	mu   sync.Mutex
	subs []Subscriber
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Subscribe registers fn to receive all future mutation events.
func (s *Scene) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Scene) publish(ev Event) {
	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Add appends an object and publishes OpAdd.
func (s *Scene) Add(o *Object) {
	s.objects = append(s.objects, o)
	s.publish(Event{Op: OpAdd, Object: o})
}

// Remove deletes an object, preserving draw order, and publishes OpRemove.
// Removing an object not in the scene is a no-op.
func (s *Scene) Remove(o *Object) {
	for i, obj := range s.objects {
		if obj == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			s.publish(Event{Op: OpRemove, Object: o})
			return
		}
	}
}

// Clear drops every object and publishes OpClear.
func (s *Scene) Clear() {
	s.objects = nil
	s.publish(Event{Op: OpClear})
}

// Objects returns the current object list in draw order.
// The returned slice must not be mutated by callers.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Find returns the first visible object of the given kind, or nil.
func (s *Scene) Find(kind Kind) *Object {
	for _, o := range s.objects {
		if o.Kind == kind && o.Visible {
			return o
		}
	}
	return nil
}

// FindAll returns every visible object of the given kind in draw order.
func (s *Scene) FindAll(kind Kind) []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.Kind == kind && o.Visible {
			out = append(out, o)
		}
	}
	return out
}

// Move repositions an object's center and publishes OpMove.
func (s *Scene) Move(o *Object, x, y float64) {
	o.X, o.Y = x, y
	s.publish(Event{Op: OpMove, Object: o})
}

// SetScale changes an object's scale factors and publishes OpScale.
func (s *Scene) SetScale(o *Object, sx, sy float64) {
	o.ScaleX, o.ScaleY = sx, sy
	s.publish(Event{Op: OpScale, Object: o})
}

// SetRotation changes an object's rotation (degrees) and publishes OpRotate.
func (s *Scene) SetRotation(o *Object, deg float64) {
	o.Rotation = deg
	s.publish(Event{Op: OpRotate, Object: o})
}

// Restyle publishes OpRestyle after the caller has updated text styling
// fields (font, size, colors, alignment) directly on the object.
func (s *Scene) Restyle(o *Object) {
	s.publish(Event{Op: OpRestyle, Object: o})
}
