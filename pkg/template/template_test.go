package template

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kitforge/kitforge/pkg/scene"
)

func sampleMap() Map {
	return Map{
		scene.ViewBack: {
			Name:   &TextStyle{Text: "SMITH", X: 400, Y: 220, FontSize: 38, Fill: "#000000", Align: scene.AlignCenter},
			Number: &TextStyle{Text: "7", X: 400, Y: 430, FontSize: 115, Fill: "#000000", Align: scene.AlignCenter},
		},
		scene.ViewFront: {
			CustomLogos: []LogoPlacement{{Src: "data:image/png;base64,AAAA", X: 350, Y: 180, ScaleX: 0.5, ScaleY: 0.5}},
		},
		scene.ViewLeftSleeve: {
			CustomTexts: []TextStyle{{Text: "EST. 1998", X: 120, Y: 90, FontSize: 14, Rotation: 12}},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	m := sampleMap()
	if err := store.Save(ctx, m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("Load() = %+v, want %+v", got, m)
	}

	// Mutating the loaded map must not affect the store.
	got[scene.ViewBack] = Slot{}
	again, _ := store.Load(ctx)
	if reflect.DeepEqual(again, got) {
		t.Error("store returned a shared map instead of a copy")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "template.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	m := sampleMap()
	if err := store.Save(ctx, m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Reload through a fresh store to prove durability across sessions.
	store2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	got, err := store2.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("Load() = %+v, want %+v", got, m)
	}
}

func TestFileStoreFailsSoft(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "template.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	// Missing file: empty map, no error.
	got, err := store.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Errorf("Load() on missing file = %v, %v; want empty map, nil", got, err)
	}

	// Malformed file: empty map, no error.
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = store.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Errorf("Load() on malformed file = %v, %v; want empty map, nil", got, err)
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "template.json")
	store, _ := NewFileStore(path)

	if err := store.Save(ctx, sampleMap()); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Clear() should remove the template file")
	}

	// Clearing an already-empty store is fine.
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	name := scene.NewText(scene.KindNameText, "SMITH", 380, 215, 42)
	name.FontFamily = "Impact"
	name.Rotation = -3
	name.StrokeColor = "#ffffff"
	name.StrokeWidth = 2

	st := StyleFromObject(name)
	restored := scene.NewText(scene.KindNameText, "JONES", 0, 0, 38)
	ApplyStyle(restored, st)

	if restored.X != 380 || restored.Y != 215 {
		t.Errorf("position = (%v, %v), want (380, 215)", restored.X, restored.Y)
	}
	if restored.FontSize != 42 || restored.FontFamily != "Impact" {
		t.Errorf("font = %v/%v", restored.FontFamily, restored.FontSize)
	}
	if restored.Rotation != -3 || restored.StrokeColor != "#ffffff" || restored.StrokeWidth != 2 {
		t.Errorf("styling not restored: %+v", restored)
	}
	// Text content is player-bound, never template-bound.
	if restored.Text != "JONES" {
		t.Errorf("ApplyStyle must not overwrite text, got %q", restored.Text)
	}
}

func TestSnapshotSceneScoping(t *testing.T) {
	objs := []*scene.Object{
		scene.NewText(scene.KindNameText, "SMITH", 400, 220, 38),
		scene.NewText(scene.KindNumberText, "7", 400, 430, 115),
		scene.NewText(scene.KindCustomText, "CAPTAIN", 400, 520, 20),
		scene.NewImage(scene.KindCustomLogo, nil, 300, 150),
		scene.NewText(scene.KindUILabel, "Smith #7", 60, 20, 12),
	}

	back := SnapshotScene(scene.ViewBack, objs)
	if back.Name == nil || back.Number == nil {
		t.Error("back slot should capture name and number")
	}
	if len(back.CustomLogos) != 0 {
		t.Error("logos must not be captured outside the front view")
	}
	if len(back.CustomTexts) != 1 {
		t.Errorf("back slot customTexts = %d, want 1", len(back.CustomTexts))
	}

	front := SnapshotScene(scene.ViewFront, objs)
	if front.Name != nil || front.Number != nil {
		t.Error("name/number only belong to the back slot")
	}
	if len(front.CustomLogos) != 1 {
		t.Errorf("front slot customLogos = %d, want 1", len(front.CustomLogos))
	}
}

func TestTrackerPersistsEdits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr, err := NewTracker(ctx, store, nil)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	s := scene.New()
	tr.Observe(s)
	tr.SetActiveView(scene.ViewBack)

	num := scene.NewText(scene.KindNumberText, "7", 400, 430, 115)
	s.Add(num)
	s.Move(num, 410, 440)

	saved, _ := store.Load(ctx)
	slot := saved[scene.ViewBack]
	if slot.Number == nil {
		t.Fatal("number edit was not persisted")
	}
	if slot.Number.X != 410 || slot.Number.Y != 440 {
		t.Errorf("persisted position = (%v, %v), want (410, 440)", slot.Number.X, slot.Number.Y)
	}
}

func TestTrackerIgnoresNonTemplateKinds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr, _ := NewTracker(ctx, store, nil)

	s := scene.New()
	tr.Observe(s)
	tr.SetActiveView(scene.ViewBack)

	s.Add(scene.NewText(scene.KindUILabel, "Smith #7", 60, 20, 12))
	s.Add(scene.NewImage(scene.KindArtworkBack, nil, 400, 400))

	saved, _ := store.Load(ctx)
	if len(saved) != 0 {
		t.Errorf("UI/artwork mutations should not persist, got %+v", saved)
	}
}

func TestTrackerPause(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr, _ := NewTracker(ctx, store, nil)

	s := scene.New()
	tr.Observe(s)
	tr.SetActiveView(scene.ViewBack)

	tr.Pause()
	s.Add(scene.NewText(scene.KindNameText, "SMITH", 400, 220, 38))
	saved, _ := store.Load(ctx)
	if len(saved) != 0 {
		t.Error("paused tracker must not persist")
	}

	tr.Resume()
	s.Move(s.Find(scene.KindNameText), 390, 210)
	saved, _ = store.Load(ctx)
	if saved[scene.ViewBack].Name == nil {
		t.Error("resumed tracker should persist again")
	}
}

func TestTrackerPauseNests(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr, _ := NewTracker(ctx, store, nil)

	s := scene.New()
	tr.Observe(s)
	tr.SetActiveView(scene.ViewBack)

	// An outer pause must survive an inner pause/resume pair, the shape a
	// view transition produces when the loader pauses inside a caller that
	// already has.
	tr.Pause()
	tr.Pause()
	tr.Resume()
	s.Add(scene.NewText(scene.KindNameText, "SMITH", 400, 220, 38))
	saved, _ := store.Load(ctx)
	if len(saved) != 0 {
		t.Error("outer pause must hold after inner resume")
	}

	tr.Resume()
	s.Move(s.Find(scene.KindNameText), 390, 210)
	saved, _ = store.Load(ctx)
	if saved[scene.ViewBack].Name == nil {
		t.Error("tracker should persist once all pauses are resumed")
	}

	// A stray extra Resume stays at zero rather than going negative.
	tr.Resume()
	tr.Pause()
	tr.Clear(ctx)
	s.Move(s.Find(scene.KindNameText), 380, 200)
	saved, _ = store.Load(ctx)
	if len(saved) != 0 {
		t.Error("pause after unbalanced resume must still suspend persistence")
	}
}
