package export

import (
	"archive/zip"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/roster"
	"github.com/kitforge/kitforge/pkg/scene"
)

// writeBulkArchive renders every roster entry into one zip file and
// returns the entry count. On any error the caller removes the partial
// archive; no partial batch ever survives.
func (e *Exporter) writeBulkArchive(ctx context.Context, path string, players roster.Roster, quality Quality, v scene.ViewKey) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	if err := e.writeArchiveEntries(ctx, f, players, quality, v); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "close archive")
	}
	return len(players), nil
}

func (e *Exporter) writeArchiveEntries(ctx context.Context, f *os.File, players roster.Roster, quality Quality, v scene.ViewKey) error {
	zw := zip.NewWriter(f)
	for i := range players {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &players[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("roster entry %d: %w", i+1, err)
		}

		img, err := e.renderPlayer(p, quality)
		if err != nil {
			return fmt.Errorf("render %s: %w", p.Label(), err)
		}

		w, err := zw.Create(Filename(p, string(v)) + ".png")
		if err != nil {
			return fmt.Errorf("archive entry for %s: %w", p.Label(), err)
		}
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode %s: %w", p.Label(), err)
		}

		if err := e.deduct(ctx, "bulk export "+p.Label()); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
