package fonts

import (
	"testing"
)

func TestFallbackMeasure(t *testing.T) {
	w1, h1 := FallbackMeasure("SMITH", 38)
	w2, h2 := FallbackMeasure("SMITH", 38)
	if w1 != w2 || h1 != h2 {
		t.Error("FallbackMeasure must be deterministic")
	}

	// Wider text measures wider; larger size measures taller.
	wLong, _ := FallbackMeasure("LONGERNAME", 38)
	if wLong <= w1 {
		t.Errorf("longer text width %v should exceed %v", wLong, w1)
	}
	_, hBig := FallbackMeasure("SMITH", 115)
	if hBig <= h1 {
		t.Errorf("bigger point size height %v should exceed %v", hBig, h1)
	}

	if w, h := FallbackMeasure("", 38); w != 0 || h <= 0 {
		t.Errorf("empty string measure = (%v, %v)", w, h)
	}
}

func TestMeasureStringFallsBack(t *testing.T) {
	// A library pointed at an empty dir resolves nothing, so measurement
	// must use the fallback estimate instead of failing.
	l := NewLibrary(t.TempDir())

	w, h := l.MeasureString("SMITH", "NoSuchFamily", 38)
	fw, fh := FallbackMeasure("SMITH", 38)
	if w != fw || h != fh {
		t.Errorf("MeasureString = (%v, %v), want fallback (%v, %v)", w, h, fw, fh)
	}

	// The miss is cached: a second lookup takes the same path.
	if _, err := l.Face("NoSuchFamily", 38); err == nil {
		t.Error("Face() should fail for an unresolvable family")
	}
}

func TestNormalizeFamily(t *testing.T) {
	tests := []struct{ in, want string }{
		{"DejaVu Sans", "dejavusans"},
		{"dejavu-sans", "dejavusans"},
		{"DEJAVU_SANS", "dejavusans"},
	}
	for _, tt := range tests {
		if got := normalizeFamily(tt.in); got != tt.want {
			t.Errorf("normalizeFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
