package template

import (
	"github.com/kitforge/kitforge/pkg/scene"
)

// StyleFromObject converts a live text object into its saved style.
func StyleFromObject(o *scene.Object) TextStyle {
	return TextStyle{
		Text:        o.Text,
		X:           o.X,
		Y:           o.Y,
		FontFamily:  o.FontFamily,
		FontSize:    o.FontSize,
		Fill:        o.Fill,
		StrokeColor: o.StrokeColor,
		StrokeWidth: o.StrokeWidth,
		Rotation:    o.Rotation,
		Align:       o.Align,
		BoxW:        o.BoxW,
		BoxH:        o.BoxH,
	}
}

// ApplyStyle copies a saved style onto a live text object.
// The text content itself is left to the caller: name and number always
// come from the selected player, not from the template.
func ApplyStyle(o *scene.Object, st TextStyle) {
	o.X, o.Y = st.X, st.Y
	o.FontFamily = st.FontFamily
	o.FontSize = st.FontSize
	if st.Fill != "" {
		o.Fill = st.Fill
	}
	o.StrokeColor = st.StrokeColor
	o.StrokeWidth = st.StrokeWidth
	o.Rotation = st.Rotation
	if st.Align != "" {
		o.Align = st.Align
	}
	o.BoxW, o.BoxH = st.BoxW, st.BoxH
}

// PlacementFromObject converts a live logo object into its saved placement.
func PlacementFromObject(o *scene.Object) LogoPlacement {
	return LogoPlacement{
		Src:      o.Src,
		X:        o.X,
		Y:        o.Y,
		ScaleX:   o.ScaleX,
		ScaleY:   o.ScaleY,
		Rotation: o.Rotation,
	}
}

// ApplyPlacement copies a saved placement onto a live logo object.
func ApplyPlacement(o *scene.Object, p LogoPlacement) {
	o.X, o.Y = p.X, p.Y
	o.ScaleX, o.ScaleY = p.ScaleX, p.ScaleY
	o.Rotation = p.Rotation
	o.Src = p.Src
}

// SnapshotScene collects the template-backed objects of a scene into a
// slot for the given view. In-progress edits are captured exactly as they
// stand, so nothing is lost when the view changes.
func SnapshotScene(view scene.ViewKey, objs []*scene.Object) Slot {
	var slot Slot
	for _, o := range objs {
		switch o.Kind {
		case scene.KindNameText:
			if view == scene.ViewBack {
				st := StyleFromObject(o)
				slot.Name = &st
			}
		case scene.KindNumberText:
			if view == scene.ViewBack {
				st := StyleFromObject(o)
				slot.Number = &st
			}
		case scene.KindCustomText:
			slot.CustomTexts = append(slot.CustomTexts, StyleFromObject(o))
		case scene.KindCustomLogo:
			if view == scene.ViewFront {
				slot.CustomLogos = append(slot.CustomLogos, PlacementFromObject(o))
			}
		}
	}
	return slot
}
