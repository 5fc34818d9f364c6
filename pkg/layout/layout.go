// Package layout computes default name/number placement on the back view.
//
// Placement and font size are proportional to the back artwork's rendered
// bounding box, with a greedy shrink-to-fit pass on the name. The routine
// is idempotent: repeated invocation against an unchanged bounding box
// converges to the same result and causes no further change.
package layout

import (
	"github.com/kitforge/kitforge/pkg/scene"
)

// Proportions of the artwork bounding box used for default placement.
// Ratios are measured from the artwork top edge.
const (
	// NameTopRatio positions the top of the name text.
	NameTopRatio = 0.27

	// NumberTopRatio positions the top of the number text.
	NumberTopRatio = 0.54

	// NameFontRatio sizes the name font from artwork height.
	NameFontRatio = 0.08

	// NumberFontRatio sizes the number font from artwork height.
	NumberFontRatio = 0.28

	// MinNameFont and MinNumberFont are the proportional-sizing floors.
	MinNameFont   = 16.0
	MinNumberFont = 48.0

	// MaxNameWidthRatio caps the name's rendered width against artwork
	// width; the shrink pass steps the font down until it fits.
	MaxNameWidthRatio = 0.70

	// ShrinkFloor is the hard lower bound for the shrink pass.
	ShrinkFloor = 12.0
)

// Measurer reports the rendered extent of text. Implemented by
// fonts.Library; tests substitute deterministic fakes.
type Measurer interface {
	MeasureString(s, family string, points float64) (w, h float64)
}

// AutoCenter places the name and number relative to the back artwork's
// bounding box. Either object may be nil (e.g. no player selected yet).
// Objects keep center-origin coordinates, so no re-centering is needed
// after the shrink pass.
func AutoCenter(artwork scene.Rect, name, number *scene.Object, m Measurer) {
	h := artwork.Height()
	w := artwork.Width()
	if h <= 0 || w <= 0 {
		return
	}
	centerX := artwork.MinX + w/2

	if name != nil {
		size := max(h*NameFontRatio, MinNameFont)
		size = shrinkToFit(name.Text, name.FontFamily, size, w*MaxNameWidthRatio, m)
		name.FontSize = size
		tw, th := m.MeasureString(name.Text, name.FontFamily, size)
		name.Width, name.Height = tw, th
		name.X = centerX
		name.Y = artwork.MinY + h*NameTopRatio + th/2
	}

	if number != nil {
		size := max(h*NumberFontRatio, MinNumberFont)
		number.FontSize = size
		tw, th := m.MeasureString(number.Text, number.FontFamily, size)
		number.Width, number.Height = tw, th
		number.X = centerX
		number.Y = artwork.MinY + h*NumberTopRatio + th/2
	}
}

// shrinkToFit steps the font size down in unit steps while the rendered
// width exceeds maxWidth, never going below ShrinkFloor.
func shrinkToFit(text, family string, size, maxWidth float64, m Measurer) float64 {
	for size > ShrinkFloor {
		w, _ := m.MeasureString(text, family, size)
		if w <= maxWidth {
			break
		}
		size--
	}
	return size
}

// Refresh re-measures a text object's base extent after its content or
// styling changed. Non-text objects are left alone.
func Refresh(o *scene.Object, m Measurer) {
	if o == nil || o.Text == "" || o.FontSize <= 0 {
		return
	}
	o.Width, o.Height = m.MeasureString(o.Text, o.FontFamily, o.FontSize)
}
