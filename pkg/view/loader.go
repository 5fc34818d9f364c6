// Package view implements the view-loader state machine.
//
// The loader owns every scene transition: switching views, switching
// players, or swapping the artwork set tears the current scene down,
// snapshots live edits into the template store, and rebuilds the scene
// from template + player + view artwork.
//
// # Load Tokens
//
// Each transition takes a monotonically increasing load token from a
// generation counter. Asynchronous work belonging to a superseded
// transition checks the token before touching the scene and aborts
// (returning ErrSuperseded, which callers treat as a no-op). This is the
// sole concurrency-correctness mechanism: only the most recently
// requested transition may mutate the shared scene.
package view

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kitforge/kitforge/pkg/layout"
	"github.com/kitforge/kitforge/pkg/observability"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/template"
)

// Base canvas dimensions in pixels. Export multipliers scale from here.
const (
	CanvasWidth  = 800.0
	CanvasHeight = 800.0
)

// Built-in defaults for name/number when the template holds no placement.
const (
	defaultNameY      = 240.0
	defaultNumberY    = 420.0
	defaultNameSize   = 38.0
	defaultNumberSize = 115.0
)

// ErrSuperseded reports that a newer transition took over before this one
// finished. It is a no-op outcome, not a failure.
var ErrSuperseded = errors.New("view load superseded")

// AssetSource resolves artwork and logo references to decoded images.
// Implemented by assets.Loader.
type AssetSource interface {
	Load(ctx context.Context, ref string) (image.Image, error)
	LoadLogo(ctx context.Context, ref string) (image.Image, error)
}

// ImageSet holds the uploaded jersey artwork, one optional reference per
// view. Immutable per design session except by re-upload.
type ImageSet struct {
	Front       string `json:"front,omitempty"`
	Back        string `json:"back,omitempty"`
	LeftSleeve  string `json:"leftSleeve,omitempty"`
	RightSleeve string `json:"rightSleeve,omitempty"`
	Collar      string `json:"collar,omitempty"`
}

// Ref returns the artwork reference for a view, or "".
func (s ImageSet) Ref(v scene.ViewKey) string {
	switch v {
	case scene.ViewFront:
		return s.Front
	case scene.ViewBack:
		return s.Back
	case scene.ViewLeftSleeve:
		return s.LeftSleeve
	case scene.ViewRightSleeve:
		return s.RightSleeve
	case scene.ViewCollar:
		return s.Collar
	}
	return ""
}

// Notifier surfaces non-fatal, user-visible notices (a missing artwork
// layer, a logo that failed to load). Nil notifiers are ignored.
type Notifier func(msg string)

// Loader rebuilds the scene for view transitions.
//
// The loader itself is driven from one goroutine at a time; the
// generation counter exists so a transition started while an earlier one
// is still awaiting asset loads cleanly suppresses the earlier one's
// effects.
type Loader struct {
	scn     *scene.Scene
	tracker *template.Tracker
	assets  AssetSource
	measure layout.Measurer
	logger  *log.Logger
	notify  Notifier

	gen     atomic.Uint64
	mu      sync.Mutex // guards current + images across concurrent Loads
	current scene.ViewKey
	images  ImageSet
}

// New creates a loader bound to a scene and template tracker.
func New(scn *scene.Scene, tracker *template.Tracker, assets AssetSource, measure layout.Measurer, logger *log.Logger, notify Notifier) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		scn:     scn,
		tracker: tracker,
		assets:  assets,
		measure: measure,
		logger:  logger,
		notify:  notify,
	}
}

// Current returns the active view key ("" before the first load).
func (l *Loader) Current() scene.ViewKey {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// SetImageSet swaps the artwork set. The caller follows up with Load to
// rebuild the scene against the new artwork.
func (l *Loader) SetImageSet(s ImageSet) {
	l.mu.Lock()
	l.images = s
	l.mu.Unlock()
}

// Load transitions the scene to the given view for the given player
// (player may be nil). Live edits on the outgoing view are snapshotted
// into the template store first, so nothing is lost on switch.
//
// Returns ErrSuperseded when a newer transition takes over mid-load; the
// scene is then owned by that newer transition and was not corrupted by
// this one. Asset failures are not errors: they degrade the scene and
// notify the user.
func (l *Loader) Load(ctx context.Context, view scene.ViewKey, player *roster.Player) error {
	if !view.Valid() {
		return fmt.Errorf("invalid view %q", view)
	}

	token := l.gen.Add(1)
	start := time.Now()
	observability.Studio().OnViewLoadStart(ctx, string(view))

	err := l.load(ctx, token, view, player)
	if !errors.Is(err, ErrSuperseded) {
		observability.Studio().OnViewLoadComplete(ctx, string(view), time.Since(start), err)
	}
	return err
}

func (l *Loader) load(ctx context.Context, token uint64, view scene.ViewKey, player *roster.Player) error {
	l.mu.Lock()
	prev := l.current
	images := l.images
	l.mu.Unlock()

	// Snapshot the outgoing view before teardown.
	if prev.Valid() {
		l.tracker.Snapshot(ctx, prev, l.scn.Objects())
	}

	if l.superseded(token) {
		return ErrSuperseded
	}

	// Scene churn during the rebuild is not a user edit.
	l.tracker.Pause()
	defer l.tracker.Resume()

	l.scn.Clear()
	l.mu.Lock()
	l.current = view
	l.mu.Unlock()
	l.tracker.SetActiveView(view)

	artwork := l.loadArtwork(ctx, token, view, images)
	if l.superseded(token) {
		return ErrSuperseded
	}

	slot := l.tracker.Slot(view)

	if view == scene.ViewBack && player != nil {
		l.placeNameNumber(slot, *player, artwork)
	}

	l.placeCustomTexts(slot)

	if view == scene.ViewFront {
		if err := l.placeLogos(ctx, token, slot); err != nil {
			return err
		}
	}

	if player != nil {
		l.scn.Add(playerLabel(*player))
	}

	return nil
}

func (l *Loader) superseded(token uint64) bool {
	return l.gen.Load() != token
}

// loadArtwork fetches and places the view's artwork layer, centered on
// the canvas and scaled down to fit if oversized. Failure degrades to a
// scene without artwork.
func (l *Loader) loadArtwork(ctx context.Context, token uint64, view scene.ViewKey, images ImageSet) *scene.Object {
	ref := images.Ref(view)
	if ref == "" {
		return nil
	}

	img, err := l.assets.Load(ctx, ref)
	if err != nil {
		l.logger.Warn("artwork failed to load", "view", view, "error", err)
		l.notifyUser(fmt.Sprintf("Could not load %s artwork", view))
		return nil
	}
	if l.superseded(token) {
		return nil
	}

	o := scene.NewImage(view.ArtworkKind(), img, CanvasWidth/2, CanvasHeight/2)
	o.Src = ref
	fitToCanvas(o)
	l.scn.Add(o)
	return o
}

// fitToCanvas scales an artwork object down so it fits the base canvas
// with a small margin. Small artwork keeps its natural size.
func fitToCanvas(o *scene.Object) {
	const margin = 40.0
	maxW, maxH := CanvasWidth-margin, CanvasHeight-margin
	if o.Width <= maxW && o.Height <= maxH {
		return
	}
	s := min(maxW/o.Width, maxH/o.Height)
	o.ScaleX, o.ScaleY = s, s
}

// placeNameNumber instantiates the player name and number on the back
// view, from the saved slot when present, otherwise from built-in
// defaults plus an auto-center pass against the artwork bounds.
//
// Auto-centering runs only when neither element had a saved placement: a
// partially customized template is respected as-is.
func (l *Loader) placeNameNumber(slot template.Slot, player roster.Player, artwork *scene.Object) {
	name := scene.NewText(scene.KindNameText, player.PlayerName, CanvasWidth/2, defaultNameY, defaultNameSize)
	number := scene.NewText(scene.KindNumberText, player.JerseyNumber, CanvasWidth/2, defaultNumberY, defaultNumberSize)

	if slot.Name != nil {
		template.ApplyStyle(name, *slot.Name)
	}
	if slot.Number != nil {
		template.ApplyStyle(number, *slot.Number)
	}
	layout.Refresh(name, l.measure)
	layout.Refresh(number, l.measure)

	if slot.Name == nil && slot.Number == nil && artwork != nil {
		layout.AutoCenter(artwork.Extent(), name, number, l.measure)
	}

	l.scn.Add(name)
	l.scn.Add(number)
}

func (l *Loader) placeCustomTexts(slot template.Slot) {
	for _, st := range slot.CustomTexts {
		o := scene.NewText(scene.KindCustomText, st.Text, st.X, st.Y, st.FontSize)
		template.ApplyStyle(o, st)
		layout.Refresh(o, l.measure)
		l.scn.Add(o)
	}
}

// placeLogos loads the front view's custom logos concurrently. Each
// failure is logged and surfaced independently without aborting the
// others. The token is re-checked after the loads complete, before any
// scene mutation.
func (l *Loader) placeLogos(ctx context.Context, token uint64, slot template.Slot) error {
	if len(slot.CustomLogos) == 0 {
		return nil
	}

	type result struct {
		placement template.LogoPlacement
		img       image.Image
		err       error
	}

	results := make([]result, len(slot.CustomLogos))
	var wg sync.WaitGroup
	for i, p := range slot.CustomLogos {
		wg.Add(1)
		go func(i int, p template.LogoPlacement) {
			defer wg.Done()
			img, err := l.assets.LoadLogo(ctx, p.Src)
			results[i] = result{placement: p, img: img, err: err}
		}(i, p)
	}
	wg.Wait()

	if l.superseded(token) {
		return ErrSuperseded
	}

	for _, r := range results {
		if r.err != nil {
			l.logger.Warn("logo failed to load", "src", r.placement.Src, "error", r.err)
			l.notifyUser("Could not load a custom logo")
			continue
		}
		o := scene.NewImage(scene.KindCustomLogo, r.img, r.placement.X, r.placement.Y)
		template.ApplyPlacement(o, r.placement)
		l.scn.Add(o)
	}
	return nil
}

// playerLabel builds the on-screen identifier overlay. It is a UI aid:
// never exported, never persisted, not interactive.
func playerLabel(player roster.Player) *scene.Object {
	o := scene.NewText(scene.KindUILabel, player.Label(), 110, CanvasHeight-24, 14)
	o.Fill = "#333333"
	o.Opacity = 0.6
	return o
}

func (l *Loader) notifyUser(msg string) {
	if l.notify != nil {
		l.notify(msg)
	}
}
