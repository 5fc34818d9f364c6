package scene

import (
	"image"
	"math"
)

// Align is the horizontal text alignment of a text object.
type Align string

// Text alignment values.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Object is a single element on the design canvas.
//
// Position is center-origin: (X, Y) is the object's center. Width and
// Height are the base (untransformed) size; for text objects they are the
// measured text extent, for images the pixel dimensions.
type Object struct {
	Kind    Kind
	Visible bool

	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64 // degrees, clockwise
	Width, Height  float64

	// Text attributes (text kinds only).
	Text        string
	FontFamily  string
	FontSize    float64
	Fill        string
	StrokeColor string
	StrokeWidth float64
	Align       Align
	BoxW, BoxH  float64 // optional fixed bounding box
	Opacity     float64 // 0 means 1.0

	// Image attributes (artwork/logo kinds only).
	Image image.Image
	Src   string // original reference (URL, path or data-URI)
}

// NewImage creates a visible image object centered at (x, y) with natural
// size taken from img. A nil img yields a zero-size object; the bounds
// resolver rejects those via its non-finite/empty guard.
func NewImage(kind Kind, img image.Image, x, y float64) *Object {
	o := &Object{
		Kind:    kind,
		Visible: true,
		X:       x,
		Y:       y,
		ScaleX:  1,
		ScaleY:  1,
	}
	if img != nil {
		b := img.Bounds()
		o.Image = img
		o.Width = float64(b.Dx())
		o.Height = float64(b.Dy())
	}
	return o
}

// NewText creates a visible text object centered at (x, y).
// Width/Height start at zero; callers set them from a measurer.
func NewText(kind Kind, text string, x, y, size float64) *Object {
	return &Object{
		Kind:     kind,
		Visible:  true,
		X:        x,
		Y:        y,
		ScaleX:   1,
		ScaleY:   1,
		Text:     text,
		FontSize: size,
		Fill:     "#000000",
		Align:    AlignCenter,
	}
}

// IsDesignElement reports whether this object counts toward export bounds.
// Tagged design kinds always count; untagged objects count only when they
// carry an image (the artwork fallback).
func (o *Object) IsDesignElement() bool {
	if o.Kind.IsDesign() {
		return true
	}
	return o.Kind == KindUnknown && o.Image != nil
}

// Extent returns the post-transform axis-aligned bounding rectangle.
// The scaled half-size rectangle is rotated around the center and reduced
// to min/max corners.
func (o *Object) Extent() Rect {
	hw := o.Width * o.ScaleX / 2
	hh := o.Height * o.ScaleY / 2
	if o.BoxW > 0 {
		hw = o.BoxW * o.ScaleX / 2
	}
	if o.BoxH > 0 {
		hh = o.BoxH * o.ScaleY / 2
	}

	rad := o.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)

	// Rotating a centered rectangle: the AABB half-extents.
	rw := math.Abs(hw*cos) + math.Abs(hh*sin)
	rh := math.Abs(hw*sin) + math.Abs(hh*cos)

	return Rect{
		MinX: o.X - rw,
		MinY: o.Y - rh,
		MaxX: o.X + rw,
		MaxY: o.Y + rh,
	}
}

// EffectiveOpacity returns the draw opacity, treating the zero value as 1.0.
func (o *Object) EffectiveOpacity() float64 {
	if o.Opacity == 0 {
		return 1.0
	}
	return o.Opacity
}
