package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kitforge/kitforge/pkg/cache"
	kferrors "github.com/kitforge/kitforge/pkg/errors"
)

// pngBytes encodes a solid test image.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.png")
	if err := os.WriteFile(path, pngBytes(t, 40, 60), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, nil, nil)
	img, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 60 {
		t.Errorf("image size = %dx%d, want 40x60", b.Dx(), b.Dy())
	}
}

func TestLoadFromDataURI(t *testing.T) {
	data := pngBytes(t, 10, 10)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	l := NewLoader(nil, nil, nil)
	img, err := l.Load(context.Background(), uri)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 {
		t.Errorf("image width = %d, want 10", b.Dx())
	}
}

func TestLoadDataURIMalformed(t *testing.T) {
	l := NewLoader(nil, nil, nil)
	tests := []struct {
		name string
		uri  string
	}{
		{"NoComma", "data:image/png;base64"},
		{"NotBase64Encoding", "data:image/png;utf8,hello"},
		{"BadPayload", "data:image/png;base64,!!!not-base64!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Load(context.Background(), tt.uri); !kferrors.Is(err, kferrors.ErrCodeInvalidAssetRef) {
				t.Errorf("want INVALID_ASSET_REF, got %v", err)
			}
		})
	}
}

func TestLoadFromHTTPWithCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(pngBytes(t, 20, 20))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(fc, nil, nil)

	for range 3 {
		if _, err := l.Load(context.Background(), srv.URL+"/logo.png"); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (cache should absorb repeats)", got)
	}
}

func TestLoadHTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	l := NewLoader(nil, nil, nil)
	_, err := l.Load(context.Background(), srv.URL+"/missing.png")
	if !kferrors.Is(err, kferrors.ErrCodeAssetLoad) {
		t.Errorf("want ASSET_LOAD, got %v", err)
	}
}

func TestLoadEmptyRef(t *testing.T) {
	l := NewLoader(nil, nil, nil)
	if _, err := l.Load(context.Background(), ""); !kferrors.Is(err, kferrors.ErrCodeInvalidAssetRef) {
		t.Errorf("want INVALID_ASSET_REF, got %v", err)
	}
}

func TestLoadUndecodableBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, nil, nil)
	if _, err := l.Load(context.Background(), path); !kferrors.Is(err, kferrors.ErrCodeAssetLoad) {
		t.Errorf("want ASSET_LOAD, got %v", err)
	}
}

func TestLoadLogoDownscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big-logo.png")
	if err := os.WriteFile(path, pngBytes(t, 2048, 512), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(nil, nil, nil)
	img, err := l.LoadLogo(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadLogo() error = %v", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxLogoDim || b.Dy() > MaxLogoDim {
		t.Errorf("logo not downscaled: %dx%d", b.Dx(), b.Dy())
	}
	// Aspect ratio preserved (2048x512 → 1024x256).
	if b.Dx() != 1024 || b.Dy() != 256 {
		t.Errorf("logo size = %dx%d, want 1024x256", b.Dx(), b.Dy())
	}
}
