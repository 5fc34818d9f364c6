package export

import (
	"archive/zip"
	"context"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/fonts"
	"github.com/kitforge/kitforge/pkg/points"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/template"
	"github.com/kitforge/kitforge/pkg/view"
)

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"ultra", QualityUltra, false},
		{" High ", QualityHigh, false},
		{"MEDIUM", QualityMedium, false},
		{"low", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseQuality(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuality(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuality(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQualityMultiplier(t *testing.T) {
	if QualityUltra.Multiplier() != 4 || QualityHigh.Multiplier() != 3 || QualityMedium.Multiplier() != 2 {
		t.Errorf("multipliers = %v/%v/%v, want 4/3/2",
			QualityUltra.Multiplier(), QualityHigh.Multiplier(), QualityMedium.Multiplier())
	}
}

func TestSizeFactor(t *testing.T) {
	tests := []struct {
		size string
		want float64
	}{
		{"16", 0.8},
		{"46", 1.2},
		{"31", 1.0},  // midpoint
		{"40", 1.12}, // interpolated
		{"10", 0.8},  // clamped low
		{"60", 1.2},  // clamped high
		{"", 1.0},
		{"M", 1.0},
		{"  38 ", 1.0933333333},
	}
	for _, tt := range tests {
		got := SizeFactor(tt.size)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SizeFactor(%q) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	p := &roster.Player{PlayerName: "Jordan Smith", JerseyNumber: "7", Size: "40"}
	if got := Filename(p, "back"); got != "jordan-smith-7-40-back" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename(nil, "front"); got != "front" {
		t.Errorf("Filename(nil) = %q", got)
	}
	odd := &roster.Player{PlayerName: "  Émile  O'Brien!", JerseyNumber: "10"}
	if got := Filename(odd, "leftSleeve"); got != "mile-o-brien-10-leftsleeve" {
		t.Errorf("Filename(odd) = %q", got)
	}
}

func TestRendererCropDimensions(t *testing.T) {
	r := NewRenderer(fonts.NewLibrary(t.TempDir()), nil)
	o := scene.NewImage(scene.KindArtworkFront, image.NewRGBA(image.Rect(0, 0, 100, 50)), 200, 200)
	bounds := o.Extent()

	img, err := r.Render([]*scene.Object{o}, bounds, 2)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("output = %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestRendererRejectsBadScale(t *testing.T) {
	r := NewRenderer(fonts.NewLibrary(t.TempDir()), nil)
	o := scene.NewImage(scene.KindArtworkFront, image.NewRGBA(image.Rect(0, 0, 10, 10)), 5, 5)
	if _, err := r.Render([]*scene.Object{o}, o.Extent(), 0); !errors.Is(err, errors.ErrCodeInvalidQuality) {
		t.Errorf("scale 0 error = %v, want INVALID_QUALITY", err)
	}
}

// Test fixture plumbing: a loader over stubbed assets, a memory-backed
// template store, and a static points service.

type fixtureAssets struct{}

func (fixtureAssets) Load(_ context.Context, ref string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 600, 700)), nil
}

func (fixtureAssets) LoadLogo(ctx context.Context, ref string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 64, 64)), nil
}

type fallbackMeasurer struct{}

func (fallbackMeasurer) MeasureString(s, _ string, points float64) (w, h float64) {
	return fonts.FallbackMeasure(s, points)
}

type fixture struct {
	scn      *scene.Scene
	loader   *view.Loader
	exporter *Exporter
	svc      *points.Static
	dir      string
}

func newFixture(t *testing.T, balance int) *fixture {
	t.Helper()
	scn := scene.New()
	tracker, err := template.NewTracker(context.Background(), template.NewMemoryStore(), nil)
	if err != nil {
		t.Fatal(err)
	}
	tracker.Observe(scn)

	loader := view.New(scn, tracker, fixtureAssets{}, fallbackMeasurer{}, nil, nil)
	loader.SetImageSet(view.ImageSet{Front: "front.png", Back: "back.png"})

	dir := t.TempDir()
	svc := points.NewStatic(&points.User{ID: "u1"}, balance)
	renderer := NewRenderer(fonts.NewLibrary(dir), nil)
	ex := NewExporter(scn, loader, renderer, fallbackMeasurer{}, svc, nil, dir)
	ex.Settle = 0
	return &fixture{scn: scn, loader: loader, exporter: ex, svc: svc, dir: dir}
}

func testPlayer() *roster.Player {
	return &roster.Player{PlayerName: "Jordan Smith", JerseyNumber: "7", Size: "40"}
}

func TestExportViewProducesFileAndDeducts(t *testing.T) {
	fx := newFixture(t, 5)
	ctx := context.Background()
	if err := fx.loader.Load(ctx, scene.ViewBack, testPlayer()); err != nil {
		t.Fatal(err)
	}

	path, err := fx.exporter.ExportView(ctx, testPlayer(), QualityMedium)
	if err != nil {
		t.Fatalf("ExportView() error = %v", err)
	}
	if filepath.Base(path) != "jordan-smith-7-40-back.png" {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
	if len(fx.svc.Deductions) != 1 {
		t.Errorf("deductions = %v, want exactly one", fx.svc.Deductions)
	}
	if bal, _ := fx.svc.Balance(ctx); bal != 4 {
		t.Errorf("balance = %d, want 4", bal)
	}
}

func TestExportViewEmptyScene(t *testing.T) {
	fx := newFixture(t, 5)
	_, err := fx.exporter.ExportView(context.Background(), testPlayer(), QualityMedium)
	if !errors.Is(err, errors.ErrCodeEmptyExport) {
		t.Fatalf("error = %v, want EMPTY_EXPORT", err)
	}
	if len(fx.svc.Deductions) != 0 {
		t.Error("empty export must not deduct")
	}
}

func TestExportViewInsufficientBalance(t *testing.T) {
	fx := newFixture(t, 0)
	ctx := context.Background()
	if err := fx.loader.Load(ctx, scene.ViewBack, testPlayer()); err != nil {
		t.Fatal(err)
	}

	_, err := fx.exporter.ExportView(ctx, testPlayer(), QualityMedium)
	if !errors.Is(err, errors.ErrCodeInsufficientPoints) {
		t.Fatalf("error = %v, want INSUFFICIENT_POINTS", err)
	}
	if len(fx.svc.Deductions) != 0 {
		t.Error("no deduction call may happen on insufficient balance")
	}
	entries, _ := os.ReadDir(fx.dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".png" {
			t.Errorf("no file should be produced, found %s", e.Name())
		}
	}
}

// decliningService passes the balance pre-check but declines every
// deduction.
type decliningService struct{ *points.Static }

func (d decliningService) Deduct(ctx context.Context, amount int, reason string) (*points.DeductResult, error) {
	return &points.DeductResult{Success: false}, nil
}

func TestExportViewDeductionDeclined(t *testing.T) {
	fx := newFixture(t, 5)
	fx.exporter.points = decliningService{fx.svc}
	ctx := context.Background()
	if err := fx.loader.Load(ctx, scene.ViewBack, testPlayer()); err != nil {
		t.Fatal(err)
	}

	path, err := fx.exporter.ExportView(ctx, testPlayer(), QualityMedium)
	if !errors.Is(err, errors.ErrCodeDeductionFailed) {
		t.Fatalf("error = %v, want DEDUCTION_FAILED", err)
	}
	// Known inconsistency: the file was already produced.
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("rendered file should survive a declined deduction: %v", statErr)
	}
}

func TestExportComponent(t *testing.T) {
	fx := newFixture(t, 5)
	ctx := context.Background()

	sleeve := scene.NewImage(scene.KindSleeveLeft, image.NewRGBA(image.Rect(0, 0, 120, 80)), 300, 300)
	fx.scn.Add(sleeve)

	path, err := fx.exporter.ExportComponent(ctx, testPlayer(), scene.KindSleeveLeft, QualityHigh)
	if err != nil {
		t.Fatalf("ExportComponent() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("component file missing: %v", err)
	}

	_, err = fx.exporter.ExportComponent(ctx, testPlayer(), scene.KindCollar, QualityHigh)
	if !errors.Is(err, errors.ErrCodeComponentNotFound) {
		t.Errorf("missing component error = %v, want COMPONENT_NOT_FOUND", err)
	}
}

func TestExportAllRestoresOriginalView(t *testing.T) {
	fx := newFixture(t, 50)
	ctx := context.Background()
	p := testPlayer()
	if err := fx.loader.Load(ctx, scene.ViewBack, p); err != nil {
		t.Fatal(err)
	}

	paths, err := fx.exporter.ExportAll(ctx, p, QualityMedium)
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}
	// Only front and back carry artwork; sleeves and collar are skipped.
	if len(paths) != 2 {
		t.Errorf("exported %d files (%v), want 2", len(paths), paths)
	}
	if fx.loader.Current() != scene.ViewBack {
		t.Errorf("view after export-all = %s, want back restored", fx.loader.Current())
	}
}

func TestExportBulkArchive(t *testing.T) {
	fx := newFixture(t, 50)
	ctx := context.Background()
	original := testPlayer()
	if err := fx.loader.Load(ctx, scene.ViewBack, original); err != nil {
		t.Fatal(err)
	}

	team := roster.Roster{
		{PlayerName: "Jordan Smith", JerseyNumber: "7", Size: "40"},
		{PlayerName: "Alex Chen", JerseyNumber: "23", Size: "38"},
		{PlayerName: "Sam Okoro", JerseyNumber: "1", Size: "44"},
	}
	path, err := fx.exporter.ExportBulk(ctx, team, QualityMedium)
	if err != nil {
		t.Fatalf("ExportBulk() error = %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != len(team) {
		t.Errorf("archive holds %d entries, want %d", len(zr.File), len(team))
	}
	want := map[string]bool{
		"jordan-smith-7-40-back.png": true,
		"alex-chen-23-38-back.png":   true,
		"sam-okoro-1-44-back.png":    true,
	}
	for _, f := range zr.File {
		if !want[f.Name] {
			t.Errorf("unexpected archive entry %s", f.Name)
		}
	}

	if len(fx.svc.Deductions) != len(team) {
		t.Errorf("deductions = %d, want one per item", len(fx.svc.Deductions))
	}

	// The scene must show the originally selected player again.
	if name := fx.scn.Find(scene.KindNameText); name.Text != original.PlayerName {
		t.Errorf("name after bulk = %q, want %q", name.Text, original.PlayerName)
	}
}

// abortingService declines from the nth deduction on.
type abortingService struct {
	*points.Static
	failFrom int
	calls    int
}

func (a *abortingService) Deduct(ctx context.Context, amount int, reason string) (*points.DeductResult, error) {
	a.calls++
	if a.calls >= a.failFrom {
		return &points.DeductResult{Success: false}, nil
	}
	return a.Static.Deduct(ctx, amount, reason)
}

func TestExportBulkAbortsWhole(t *testing.T) {
	fx := newFixture(t, 50)
	ctx := context.Background()
	if err := fx.loader.Load(ctx, scene.ViewBack, testPlayer()); err != nil {
		t.Fatal(err)
	}
	fx.exporter.points = &abortingService{Static: fx.svc, failFrom: 2}

	team := roster.Roster{
		{PlayerName: "Jordan Smith", JerseyNumber: "7"},
		{PlayerName: "Alex Chen", JerseyNumber: "23"},
		{PlayerName: "Sam Okoro", JerseyNumber: "1"},
	}
	_, err := fx.exporter.ExportBulk(ctx, team, QualityMedium)
	if !errors.Is(err, errors.ErrCodeBulkAborted) {
		t.Fatalf("error = %v, want BULK_ABORTED", err)
	}

	entries, _ := os.ReadDir(fx.dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".zip" {
			t.Errorf("partial archive left behind: %s", e.Name())
		}
	}
}

func TestExportBulkEmptyRoster(t *testing.T) {
	fx := newFixture(t, 50)
	_, err := fx.exporter.ExportBulk(context.Background(), nil, QualityMedium)
	if !errors.Is(err, errors.ErrCodeInvalidRoster) {
		t.Errorf("error = %v, want INVALID_ROSTER", err)
	}
}
