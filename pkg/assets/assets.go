// Package assets loads jersey artwork and logo images for the design
// canvas.
//
// References can be local file paths, http(s) URLs, or data URIs.
// Remote fetches are cached (pkg/cache) and retried with backoff
// (pkg/httputil). Decoding supports PNG, JPEG, GIF, and WebP.
//
// Every load failure is isolated: the caller decides whether a missing
// asset degrades the scene or aborts the operation, per element.
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	// Image decoders for artwork uploads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/kitforge/kitforge/pkg/cache"
	kferrors "github.com/kitforge/kitforge/pkg/errors"
	"github.com/kitforge/kitforge/pkg/httputil"
)

// MaxLogoDim is the longest edge allowed for custom logos. Oversized
// uploads are downscaled to fit, preserving aspect ratio.
const MaxLogoDim = 1024

// DefaultTTL is how long fetched assets stay cached.
const DefaultTTL = 24 * time.Hour

// Loader resolves asset references to decoded images.
// Safe for concurrent use.
type Loader struct {
	http   *http.Client
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewLoader creates a loader with the given cache backend.
// A nil cache disables caching; a nil keyer uses the default; a nil
// logger uses log.Default().
func NewLoader(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Loader {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		http:   &http.Client{Timeout: 30 * time.Second},
		cache:  c,
		keyer:  keyer,
		ttl:    DefaultTTL,
		logger: logger,
	}
}

// Load resolves ref to a decoded image.
// Returns an ASSET_LOAD error (wrapping the cause) on any failure.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.bytes(ctx, ref)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, kferrors.Wrap(kferrors.ErrCodeAssetLoad, err, "decode %s", describeRef(ref))
	}
	return img, nil
}

// LoadLogo resolves ref like Load, then downscales the result to fit
// within MaxLogoDim so oversized uploads do not dwarf the canvas.
func (l *Loader) LoadLogo(ctx context.Context, ref string) (image.Image, error) {
	img, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > MaxLogoDim || b.Dy() > MaxLogoDim {
		img = imaging.Fit(img, MaxLogoDim, MaxLogoDim, imaging.Lanczos)
	}
	return img, nil
}

func (l *Loader) bytes(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, kferrors.New(kferrors.ErrCodeInvalidAssetRef, "empty asset reference")
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, kferrors.Wrap(kferrors.ErrCodeAssetLoad, err, "read %s", ref)
		}
		return data, nil
	}
}

// fetch downloads a remote asset, consulting the cache first.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	key := l.keyer.AssetKey(url)
	if data, ok, _ := l.cache.Get(ctx, key); ok {
		return data, nil
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		data, ferr = l.doFetch(ctx, url)
		return ferr
	})
	if err != nil {
		return nil, kferrors.Wrap(kferrors.ErrCodeAssetLoad, err, "fetch %s", url)
	}

	if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
		l.logger.Debug("failed to cache asset", "url", url, "error", err)
	}
	return data, nil
}

func (l *Loader) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case httputil.RetryableStatus(resp.StatusCode):
		return nil, &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
}

// decodeDataURI extracts the payload of a base64 data URI
// (data:image/png;base64,....).
func decodeDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, kferrors.New(kferrors.ErrCodeInvalidAssetRef, "malformed data URI")
	}
	meta, payload := uri[:idx], uri[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, kferrors.New(kferrors.ErrCodeInvalidAssetRef, "data URI must be base64-encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, kferrors.Wrap(kferrors.ErrCodeInvalidAssetRef, err, "decode data URI")
	}
	return data, nil
}

// describeRef shortens data URIs for error messages; other refs pass
// through unchanged.
func describeRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		if idx := strings.Index(ref, ","); idx > 0 {
			return ref[:idx] + ",…"
		}
	}
	return ref
}
