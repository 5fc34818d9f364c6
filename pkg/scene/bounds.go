package scene

import "math"

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

func (r Rect) finite() bool {
	for _, v := range [...]float64{r.MinX, r.MinY, r.MaxX, r.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DesignBounds computes the tight bounding box of all visible design
// elements in objs: artwork layers, name/number text, custom texts, custom
// logos, and untagged images. UI overlays and hidden objects are excluded.
//
// The second return value is false when no design element is present or
// when any computed extent is non-finite (zero-size images, failed loads).
// The result is a pure min/max reduction and therefore order-independent,
// with no padding added.
func DesignBounds(objs []*Object) (Rect, bool) {
	var bounds Rect
	found := false

	for _, o := range objs {
		if o == nil || !o.Visible || !o.IsDesignElement() {
			continue
		}
		ext := o.Extent()
		if !ext.finite() {
			return Rect{}, false
		}
		if !found {
			bounds = ext
			found = true
			continue
		}
		bounds = bounds.Union(ext)
	}

	if !found || !bounds.finite() {
		return Rect{}, false
	}
	return bounds, true
}

// KindBounds computes the tight bounding box restricted to visible objects
// of a single kind. Used by component export (single sleeve or collar).
func KindBounds(objs []*Object, kind Kind) (Rect, bool) {
	var filtered []*Object
	for _, o := range objs {
		if o != nil && o.Kind == kind {
			filtered = append(filtered, o)
		}
	}
	return DesignBounds(filtered)
}
