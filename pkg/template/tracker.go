package template

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kitforge/kitforge/pkg/scene"
)

// Tracker observes live scene edits and writes them back into the store
// incrementally. It keeps the authoritative in-memory copy of the template
// map; the view loader consults it on every transition and snapshots the
// outgoing view through it.
//
// The tracker runs on the scene-mutating goroutine (mutation events are
// delivered synchronously), so its fields need no locking.
type Tracker struct {
	store  Store
	logger *log.Logger

	m      Map
	view   scene.ViewKey
	scn    *scene.Scene
	paused int
}

// NewTracker loads the persisted template (failing soft to an empty map)
// and returns a tracker ready to observe a scene.
func NewTracker(ctx context.Context, store Store, logger *log.Logger) (*Tracker, error) {
	if logger == nil {
		logger = log.Default()
	}
	m, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Tracker{store: store, logger: logger, m: m}, nil
}

// Observe subscribes the tracker to a scene's mutation events.
func (t *Tracker) Observe(s *scene.Scene) {
	t.scn = s
	s.Subscribe(t.onEvent)
}

// SetActiveView tells the tracker which view's slot live edits belong to.
func (t *Tracker) SetActiveView(v scene.ViewKey) {
	t.view = v
}

// Pause suspends persistence while the view loader rebuilds the scene, so
// programmatic object churn during a transition is not written back as if
// it were a user edit. Pauses nest: each Pause must be matched by a Resume
// before persistence restarts.
func (t *Tracker) Pause() { t.paused++ }

// Resume undoes one Pause. Persistence restarts once every outstanding
// Pause has been resumed.
func (t *Tracker) Resume() {
	if t.paused > 0 {
		t.paused--
	}
}

// Map returns the in-memory template map. Callers must not mutate it.
func (t *Tracker) Map() Map {
	return t.m
}

// Slot returns the saved slot for a view. A missing slot is an empty one.
func (t *Tracker) Slot(v scene.ViewKey) Slot {
	return t.m[v]
}

// Snapshot captures the scene's current template-backed objects into the
// slot for view and persists the whole map. Called by the view loader
// right before tearing a view down, and by the tracker itself on edits.
func (t *Tracker) Snapshot(ctx context.Context, view scene.ViewKey, objs []*scene.Object) {
	if t.paused > 0 {
		return
	}
	slot := SnapshotScene(view, objs)
	if slot.IsEmpty() && t.m[view].IsEmpty() {
		return
	}
	t.m[view] = slot
	if err := t.store.Save(ctx, t.m); err != nil {
		t.logger.Warn("failed to persist template", "view", view, "error", err)
	}
}

// Clear resets the template to empty, in memory and in the store.
func (t *Tracker) Clear(ctx context.Context) error {
	t.m = Map{}
	return t.store.Clear(ctx)
}

func (t *Tracker) onEvent(ev scene.Event) {
	if t.paused > 0 || t.scn == nil {
		return
	}
	switch ev.Op {
	case scene.OpClear:
		// Scene teardown is handled by the view loader's snapshot.
		return
	case scene.OpAdd, scene.OpMove, scene.OpScale, scene.OpRotate, scene.OpRestyle, scene.OpRemove:
	default:
		return
	}
	if ev.Object == nil || !isTemplateBacked(ev.Object.Kind) {
		return
	}
	t.Snapshot(context.Background(), t.view, t.scn.Objects())
}

// isTemplateBacked reports whether edits to this kind are persisted.
func isTemplateBacked(k scene.Kind) bool {
	switch k {
	case scene.KindNameText, scene.KindNumberText, scene.KindCustomText, scene.KindCustomLogo:
		return true
	}
	return false
}
