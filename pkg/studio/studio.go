// Package studio ties the design-state core together behind a single
// Session facade used by both the CLI and the HTTP API: scene, template
// tracker, view loader, asset loader, points collaborator and export
// engine.
package studio

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kitforge/kitforge/pkg/assets"
	"github.com/kitforge/kitforge/pkg/cache"
	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/export"
	"github.com/kitforge/kitforge/pkg/fonts"
	"github.com/kitforge/kitforge/pkg/layout"
	"github.com/kitforge/kitforge/pkg/points"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/template"
	"github.com/kitforge/kitforge/pkg/view"
)

// Config wires a session's collaborators. Zero-value fields fall back
// to in-memory or null implementations, so a bare Config yields a
// fully offline session.
type Config struct {
	Store  template.Store  // template persistence; nil → memory
	Points points.Service  // points collaborator; nil → static balance 0
	Cache  cache.Cache     // asset byte cache; nil → no caching
	Fonts  *fonts.Library  // font resolution; nil → system font dirs
	Assets view.AssetSource // asset loading; nil → assets.NewLoader
	Notify view.Notifier   // user notices; nil → dropped
	OutDir string          // export output directory; "" → current dir
	Logger *log.Logger
}

// Session is one designer's studio: a scene, the template persisted
// across players, a view loader and an export engine. All operations
// are serialized by an internal mutex; one Session means one scene
// mutator at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	scn      *scene.Scene
	tracker  *template.Tracker
	loader   *view.Loader
	exporter *export.Exporter
	store    template.Store
	assets   view.AssetSource
	fonts    *fonts.Library
	logger   *log.Logger

	team   roster.Roster
	player int // index into team, -1 before selection
}

// NewSession builds a session, loading the persisted template through
// the configured store.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	store := cfg.Store
	if store == nil {
		store = template.NewMemoryStore()
	}
	svc := cfg.Points
	if svc == nil {
		svc = points.NewStatic(nil, 0)
	}
	lib := cfg.Fonts
	if lib == nil {
		lib = fonts.NewLibrary()
	}
	src := cfg.Assets
	if src == nil {
		src = assets.NewLoader(cfg.Cache, nil, logger)
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}

	scn := scene.New()
	tracker, err := template.NewTracker(ctx, store, logger)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load template store")
	}
	tracker.Observe(scn)

	loader := view.New(scn, tracker, src, lib, logger, cfg.Notify)
	renderer := export.NewRenderer(lib, logger)
	exporter := export.NewExporter(scn, loader, renderer, lib, svc, logger, outDir)

	return &Session{
		ID:       uuid.NewString(),
		scn:      scn,
		tracker:  tracker,
		loader:   loader,
		exporter: exporter,
		store:    store,
		assets:   src,
		fonts:    lib,
		logger:   logger,
		player:   -1,
	}, nil
}

// Close releases the template store.
func (s *Session) Close() error {
	return s.store.Close()
}

// Scene exposes the live scene for direct inspection.
func (s *Session) Scene() *scene.Scene { return s.scn }

// CurrentView returns the active view key ("" before the first load).
func (s *Session) CurrentView() scene.ViewKey { return s.loader.Current() }

// SetImageSet swaps the uploaded artwork set and rebuilds the active
// view against it.
func (s *Session) SetImageSet(ctx context.Context, set view.ImageSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader.SetImageSet(set)
	if v := s.loader.Current(); v.Valid() {
		return s.loader.Load(ctx, v, s.currentPlayer())
	}
	return nil
}

// SetRoster replaces the team roster. The current player selection is
// reset; call SelectPlayer to rebuild the scene.
func (s *Session) SetRoster(team roster.Roster) error {
	if err := team.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.team = team
	s.player = -1
	return nil
}

// Roster returns the current team roster.
func (s *Session) Roster() roster.Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.team
}

// Player returns the selected roster entry, or nil before selection.
func (s *Session) Player() *roster.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPlayer()
}

func (s *Session) currentPlayer() *roster.Player {
	if s.player < 0 || s.player >= len(s.team) {
		return nil
	}
	return &s.team[s.player]
}

// SelectPlayer switches the studio to the roster entry at idx and
// rebuilds the active view (front when none is active yet) for that
// player. Live edits on the outgoing scene are snapshotted first by the
// loader.
func (s *Session) SelectPlayer(ctx context.Context, idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.team) {
		return errors.New(errors.ErrCodePlayerNotFound, "no roster entry %d (roster has %d)", idx, len(s.team))
	}
	s.player = idx
	v := s.loader.Current()
	if !v.Valid() {
		v = scene.ViewFront
	}
	return s.loader.Load(ctx, v, s.currentPlayer())
}

// SelectView transitions the scene to the given view for the selected
// player.
func (s *Session) SelectView(ctx context.Context, v scene.ViewKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Load(ctx, v, s.currentPlayer())
}

// AddCustomText places a new custom text element on the active view and
// returns it. The addition feeds the template tracker like any user
// edit.
func (s *Session) AddCustomText(text string, x, y, size float64) *scene.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := scene.NewText(scene.KindCustomText, text, x, y, size)
	layout.Refresh(o, s.fonts)
	s.scn.Add(o)
	return o
}

// AddCustomLogo loads an image reference and places it centered on the
// canvas.
func (s *Session) AddCustomLogo(ctx context.Context, ref string) (*scene.Object, error) {
	img, err := s.assets.LoadLogo(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o := scene.NewImage(scene.KindCustomLogo, img, view.CanvasWidth/2, view.CanvasHeight/2)
	o.Src = ref
	s.scn.Add(o)
	return o, nil
}

// MoveObject repositions the first visible object of the given kind.
func (s *Session) MoveObject(kind scene.Kind, x, y float64) error {
	return s.mutate(kind, func(o *scene.Object) { s.scn.Move(o, x, y) })
}

// ScaleObject rescales the first visible object of the given kind.
func (s *Session) ScaleObject(kind scene.Kind, sx, sy float64) error {
	return s.mutate(kind, func(o *scene.Object) { s.scn.SetScale(o, sx, sy) })
}

// RotateObject sets the rotation of the first visible object of the
// given kind, in degrees.
func (s *Session) RotateObject(kind scene.Kind, deg float64) error {
	return s.mutate(kind, func(o *scene.Object) { s.scn.SetRotation(o, deg) })
}

func (s *Session) mutate(kind scene.Kind, fn func(*scene.Object)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.scn.Find(kind)
	if o == nil {
		return errors.New(errors.ErrCodeComponentNotFound, "no visible %s on the active view", kind)
	}
	fn(o)
	return nil
}

// ClearTemplate wipes the roster-wide layout template, in memory and in
// the store, then rebuilds the active view from defaults.
func (s *Session) ClearTemplate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tracker.Clear(ctx); err != nil {
		return err
	}
	if v := s.loader.Current(); v.Valid() {
		// Suppress the loader's outgoing-view snapshot: the stale
		// placements on screen must not be written back into the
		// template we just cleared.
		s.tracker.Pause()
		defer s.tracker.Resume()
		return s.loader.Load(ctx, v, s.currentPlayer())
	}
	return nil
}

// Template returns the current template map.
func (s *Session) Template() template.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Map()
}

// ExportView renders the active view for the selected player.
func (s *Session) ExportView(ctx context.Context, quality export.Quality) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporter.ExportView(ctx, s.currentPlayer(), quality)
}

// ExportComponent renders one component (a sleeve or the collar).
func (s *Session) ExportComponent(ctx context.Context, kind scene.Kind, quality export.Quality) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporter.ExportComponent(ctx, s.currentPlayer(), kind, quality)
}

// ExportAll walks every view and exports the ones with design content,
// restoring the active view afterward.
func (s *Session) ExportAll(ctx context.Context, quality export.Quality) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporter.ExportAll(ctx, s.currentPlayer(), quality)
}

// ExportBulk renders the active view once per roster entry into a
// single dated archive.
func (s *Session) ExportBulk(ctx context.Context, quality export.Quality) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.team) == 0 {
		return "", errors.New(errors.ErrCodeInvalidRoster, "no roster loaded")
	}
	return s.exporter.ExportBulk(ctx, s.team, quality)
}
