// Package fonts resolves font families to renderable faces for canvas
// text, and measures text extents for layout.
//
// Families are resolved against font files on disk (the studio fonts
// directory plus common system locations). Resolution results are cached
// per family. When a family cannot be resolved, measurement falls back to
// a deterministic per-glyph estimate so layout and export remain usable in
// headless environments.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gogpu/gg/text"
)

// DefaultFamily is used when a text element names no font family.
const DefaultFamily = "DejaVuSans"

// Heuristic metrics for the fallback measurer. Average glyph advance and
// line height as fractions of the point size, tuned against common
// sans-serif faces.
const (
	fallbackAdvance    = 0.58
	fallbackLineHeight = 1.2
)

// Library resolves and caches font sources by family name.
// Safe for concurrent use.
type Library struct {
	dirs []string

	mu      sync.Mutex
	sources map[string]*text.FontSource
	misses  map[string]bool
}

// NewLibrary creates a font library searching the given directories in
// order. With no directories, common system font paths and the studio
// config fonts dir are used.
func NewLibrary(dirs ...string) *Library {
	if len(dirs) == 0 {
		dirs = defaultDirs()
	}
	return &Library{
		dirs:    dirs,
		sources: make(map[string]*text.FontSource),
		misses:  make(map[string]bool),
	}
}

func defaultDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/System/Library/Fonts",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append([]string{filepath.Join(home, ".config", "kitforge", "fonts")}, dirs...)
	}
	return dirs
}

// Face returns a renderable face for the family at the given point size.
// Returns an error when no matching font file exists in the search dirs.
func (l *Library) Face(family string, points float64) (text.Face, error) {
	src, err := l.source(family)
	if err != nil {
		return nil, err
	}
	return src.Face(points), nil
}

func (l *Library) source(family string) (*text.FontSource, error) {
	if family == "" {
		family = DefaultFamily
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if src, ok := l.sources[family]; ok {
		return src, nil
	}
	if l.misses[family] {
		return nil, fmt.Errorf("font family %q not found", family)
	}

	path := l.findFile(family)
	if path == "" {
		l.misses[family] = true
		return nil, fmt.Errorf("font family %q not found", family)
	}

	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		l.misses[family] = true
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	l.sources[family] = src
	return src, nil
}

// findFile walks the search dirs for a file whose base name matches the
// family (case-insensitive, ignoring spaces and hyphens).
func (l *Library) findFile(family string) string {
	want := normalizeFamily(family)
	var found string
	for _, dir := range l.dirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() || found != "" {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if normalizeFamily(base) == want {
				found = path
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func normalizeFamily(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// MeasureString returns the rendered extent of s in the given family and
// point size. When the family cannot be resolved it falls back to the
// deterministic per-glyph estimate, so the result is always usable.
func (l *Library) MeasureString(s, family string, points float64) (w, h float64) {
	face, err := l.Face(family, points)
	if err != nil {
		return FallbackMeasure(s, points)
	}
	return text.Measure(s, face)
}

// FallbackMeasure estimates a text extent without any font file.
// Deterministic: depends only on glyph count and point size.
func FallbackMeasure(s string, points float64) (w, h float64) {
	n := utf8.RuneCountInString(s)
	return float64(n) * points * fallbackAdvance, points * fallbackLineHeight
}
