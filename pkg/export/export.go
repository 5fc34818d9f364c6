package export

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/layout"
	"github.com/kitforge/kitforge/pkg/observability"
	"github.com/kitforge/kitforge/pkg/points"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/view"
)

// Quality selects the output pixel density as a multiplier over the base
// canvas.
type Quality string

// Quality presets.
const (
	QualityUltra  Quality = "ultra"
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
)

// ParseQuality maps a user-supplied quality name to a preset.
func ParseQuality(s string) (Quality, error) {
	switch Quality(strings.ToLower(strings.TrimSpace(s))) {
	case QualityUltra:
		return QualityUltra, nil
	case QualityHigh:
		return QualityHigh, nil
	case QualityMedium:
		return QualityMedium, nil
	}
	return "", errors.New(errors.ErrCodeInvalidQuality, "unknown quality %q (want ultra, high or medium)", s)
}

// Multiplier returns the base-canvas scale factor for the preset.
func (q Quality) Multiplier() float64 {
	switch q {
	case QualityUltra:
		return 4
	case QualityHigh:
		return 3
	default:
		return 2
	}
}

// Garment-size interpolation anchors: a size-16 garment renders at 0.8x,
// a size-46 at 1.2x, linear in between and clamped outside.
const (
	sizeSmall       = 16.0
	sizeLarge       = 46.0
	sizeSmallFactor = 0.8
	sizeLargeFactor = 1.2
)

// SizeFactor maps a garment size to an output scale in [0.8, 1.2].
// Non-numeric or missing sizes scale at 1.0.
func SizeFactor(size string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(size), 64)
	if err != nil {
		return 1.0
	}
	if n <= sizeSmall {
		return sizeSmallFactor
	}
	if n >= sizeLarge {
		return sizeLargeFactor
	}
	t := (n - sizeSmall) / (sizeLarge - sizeSmall)
	return sizeSmallFactor + t*(sizeLargeFactor-sizeSmallFactor)
}

// BulkLimit caps how many roster entries one bulk export processes.
const BulkLimit = 50

// defaultSettle spaces sequential file outputs during all-views export.
const defaultSettle = 300 * time.Millisecond

// Exporter runs the export flows against a live scene. Every successful
// export deducts exactly one point per produced image; the deduction runs
// after the render, so a deduction failure can leave a produced file
// behind while the export is still reported as failed.
type Exporter struct {
	scn      *scene.Scene
	loader   *view.Loader
	renderer *Renderer
	measure  layout.Measurer
	points   points.Service
	logger   *log.Logger
	outDir   string

	// Settle is the pause between sequential files in ExportAll.
	Settle time.Duration

	now func() time.Time
}

// NewExporter creates an exporter writing files into outDir.
func NewExporter(scn *scene.Scene, loader *view.Loader, renderer *Renderer, measure layout.Measurer, svc points.Service, logger *log.Logger, outDir string) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{
		scn:      scn,
		loader:   loader,
		renderer: renderer,
		measure:  measure,
		points:   svc,
		logger:   logger,
		outDir:   outDir,
		Settle:   defaultSettle,
		now:      time.Now,
	}
}

// ExportView renders the active view cropped to its design bounds and
// writes a PNG named after the player. The point balance is checked
// before rendering; one point is deducted after.
func (e *Exporter) ExportView(ctx context.Context, player *roster.Player, quality Quality) (string, error) {
	v := e.loader.Current()
	start := e.now()
	observability.Studio().OnExportStart(ctx, "view", string(v))

	path, n, err := e.exportView(ctx, player, quality, v)
	observability.Studio().OnExportComplete(ctx, "view", string(v), n, time.Since(start), err)
	return path, err
}

func (e *Exporter) exportView(ctx context.Context, player *roster.Player, quality Quality, v scene.ViewKey) (string, int, error) {
	if err := e.ensureBalance(ctx, 1); err != nil {
		return "", 0, err
	}

	objs := e.scn.Objects()
	bounds, ok := scene.DesignBounds(objs)
	if !ok {
		return "", 0, errors.New(errors.ErrCodeEmptyExport, "nothing to export on view %s", v)
	}

	path := filepath.Join(e.outDir, Filename(player, string(v))+".png")
	n, err := e.renderToFile(objs, bounds, e.scale(player, quality), path)
	if err != nil {
		return "", 0, err
	}

	if err := e.deduct(ctx, "export "+string(v)); err != nil {
		return path, n, err
	}
	return path, n, nil
}

// ExportComponent renders only the objects of one component kind
// (a sleeve or the collar), cropped to that component's bounds. A view
// with no visible object of that kind fails with a component-not-found
// condition, distinct from the empty-export one.
func (e *Exporter) ExportComponent(ctx context.Context, player *roster.Player, kind scene.Kind, quality Quality) (string, error) {
	start := e.now()
	observability.Studio().OnExportStart(ctx, "component", kind.String())

	path, n, err := e.exportComponent(ctx, player, kind, quality)
	observability.Studio().OnExportComplete(ctx, "component", kind.String(), n, time.Since(start), err)
	return path, err
}

func (e *Exporter) exportComponent(ctx context.Context, player *roster.Player, kind scene.Kind, quality Quality) (string, int, error) {
	if err := e.ensureBalance(ctx, 1); err != nil {
		return "", 0, err
	}

	objs := e.scn.Objects()
	bounds, ok := scene.KindBounds(objs, kind)
	if !ok {
		return "", 0, errors.New(errors.ErrCodeComponentNotFound, "no visible %s object to export", kind)
	}

	only := make([]*scene.Object, 0, 1)
	for _, o := range objs {
		if o.Kind == kind {
			only = append(only, o)
		}
	}

	path := filepath.Join(e.outDir, Filename(player, kind.String())+".png")
	n, err := e.renderToFile(only, bounds, e.scale(player, quality), path)
	if err != nil {
		return "", 0, err
	}

	if err := e.deduct(ctx, "export component "+kind.String()); err != nil {
		return path, n, err
	}
	return path, n, nil
}

// ExportAll walks every view through the loader and exports each one
// that has design content, with a settle delay between files. The
// originally active view is restored afterward, even on error.
func (e *Exporter) ExportAll(ctx context.Context, player *roster.Player, quality Quality) ([]string, error) {
	orig := e.loader.Current()
	defer func() {
		if orig.Valid() {
			if err := e.loader.Load(ctx, orig, player); err != nil {
				e.logger.Warn("failed to restore view after export-all", "view", orig, "error", err)
			}
		}
	}()

	var paths []string
	for i, v := range scene.AllViews {
		if i > 0 {
			if err := e.settle(ctx); err != nil {
				return paths, err
			}
		}

		if err := e.loader.Load(ctx, v, player); err != nil {
			return paths, fmt.Errorf("load %s: %w", v, err)
		}

		path, err := e.ExportView(ctx, player, quality)
		if err != nil {
			if errors.Is(err, errors.ErrCodeEmptyExport) {
				e.logger.Debug("view has no design content, skipped", "view", v)
				continue
			}
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportBulk renders the currently active view once per roster entry,
// rebinding only the player-bound text between renders, and packages the
// results into a single dated zip archive. Any per-player failure aborts
// the whole batch and removes the partial archive.
func (e *Exporter) ExportBulk(ctx context.Context, players roster.Roster, quality Quality) (string, error) {
	start := e.now()
	v := e.loader.Current()
	observability.Studio().OnExportStart(ctx, "bulk", string(v))

	path, n, err := e.exportBulk(ctx, players, quality, v)
	observability.Studio().OnExportComplete(ctx, "bulk", string(v), n, time.Since(start), err)
	return path, err
}

func (e *Exporter) exportBulk(ctx context.Context, players roster.Roster, quality Quality, v scene.ViewKey) (string, int, error) {
	if len(players) == 0 {
		return "", 0, errors.New(errors.ErrCodeInvalidRoster, "bulk export needs a non-empty roster")
	}
	if len(players) > BulkLimit {
		e.logger.Warn("roster exceeds bulk limit, extra entries skipped",
			"roster", len(players), "limit", BulkLimit)
		players = players[:BulkLimit]
	}
	if err := e.ensureBalance(ctx, len(players)); err != nil {
		return "", 0, err
	}

	path := filepath.Join(e.outDir, fmt.Sprintf("kitforge-bulk-%s.zip", e.now().Format("2006-01-02")))
	restore := e.captureBinding()
	defer restore()

	if _, err := e.writeBulkArchive(ctx, path, players, quality, v); err != nil {
		os.Remove(path)
		return "", 0, errors.Wrap(errors.ErrCodeBulkAborted, err, "bulk export aborted, no archive produced")
	}
	n := 0
	if info, err := os.Stat(path); err == nil {
		n = int(info.Size())
	}
	return path, n, nil
}

func (e *Exporter) scale(player *roster.Player, quality Quality) float64 {
	factor := 1.0
	if player != nil {
		factor = SizeFactor(player.Size)
	}
	return quality.Multiplier() * factor
}

// renderToFile rasterizes and writes a single PNG, returning its size in
// bytes.
func (e *Exporter) renderToFile(objs []*scene.Object, bounds scene.Rect, scale float64, path string) (int, error) {
	img, err := e.renderer.Render(objs, bounds, scale)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create export directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create export file")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "encode export PNG")
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "close export file")
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, nil
	}
	return int(info.Size()), nil
}

// ensureBalance fails fast, before any render, when the point balance
// cannot cover the requested number of exports. No deduction happens
// here.
func (e *Exporter) ensureBalance(ctx context.Context, needed int) error {
	balance, err := e.points.Balance(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "check point balance")
	}
	if balance < needed {
		return errors.New(errors.ErrCodeInsufficientPoints, "balance %d cannot cover %d export(s)", balance, needed)
	}
	return nil
}

// deduct charges one point for a produced export. It runs after the
// render by contract; it is attempted exactly once and never retried.
func (e *Exporter) deduct(ctx context.Context, reason string) error {
	res, err := e.points.Deduct(ctx, 1, reason)
	observability.Studio().OnDeduct(ctx, 1, err == nil && res != nil && res.Success, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDeductionFailed, err, "point deduction failed")
	}
	if !res.Success {
		return errors.New(errors.ErrCodeDeductionFailed, "point deduction declined")
	}
	return nil
}

// rebind swaps the player-bound text on the active scene without going
// through the scene's mutation API: a bulk rebind is not a user edit and
// must not feed the template tracker.
func (e *Exporter) rebind(p *roster.Player) {
	if name := e.scn.Find(scene.KindNameText); name != nil {
		name.Text = p.PlayerName
		layout.Refresh(name, e.measure)
	}
	if number := e.scn.Find(scene.KindNumberText); number != nil {
		number.Text = p.JerseyNumber
		layout.Refresh(number, e.measure)
	}
	if label := e.scn.Find(scene.KindUILabel); label != nil {
		label.Text = p.Label()
	}
}

// captureBinding snapshots the current player-bound texts and returns a
// restorer, so a bulk run leaves the scene showing its original player.
func (e *Exporter) captureBinding() func() {
	type bound struct {
		o    *scene.Object
		text string
	}
	var saved []bound
	for _, k := range []scene.Kind{scene.KindNameText, scene.KindNumberText, scene.KindUILabel} {
		if o := e.scn.Find(k); o != nil {
			saved = append(saved, bound{o: o, text: o.Text})
		}
	}
	return func() {
		for _, b := range saved {
			b.o.Text = b.text
			if b.o.Kind != scene.KindUILabel {
				layout.Refresh(b.o, e.measure)
			}
		}
	}
}

func (e *Exporter) settle(ctx context.Context) error {
	if e.Settle <= 0 {
		return nil
	}
	t := time.NewTimer(e.Settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// renderPlayer renders the active scene for one roster entry and returns
// the encoded PNG.
func (e *Exporter) renderPlayer(p *roster.Player, quality Quality) (image.Image, error) {
	e.rebind(p)
	objs := e.scn.Objects()
	bounds, ok := scene.DesignBounds(objs)
	if !ok {
		return nil, errors.New(errors.ErrCodeEmptyExport, "nothing to export for %s", p.Label())
	}
	return e.renderer.Render(objs, bounds, e.scale(p, quality))
}
