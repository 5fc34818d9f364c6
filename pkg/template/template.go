// Package template persists the roster-wide jersey layout template.
//
// A template is a per-view record of text placement/style and logo
// placement. It is global: one template applies uniformly to every player
// in the roster, and every edit by any player overwrites the shared slot.
// The template survives player switches and application restarts; it is
// lost only on an explicit clear.
//
// The package defines the Store interface with several backends:
//   - memory: in-memory storage for development/testing
//   - file: JSON file under the user config dir, for the CLI
//   - redis: Redis-backed storage for a hosted studio
//   - mongo: MongoDB single-document storage for a hosted studio
//
// All backends are whole-map replacement with last-writer-wins semantics.
// There is no merge or versioning; concurrent writers can clobber each
// other. That matches the single-tab, single-user contract of the studio.
package template

import (
	"github.com/kitforge/kitforge/pkg/scene"
)

// TextStyle captures the saved placement and styling of one text element.
// Position is center-origin, matching scene.Object.
type TextStyle struct {
	Text        string      `json:"text" bson:"text"`
	X           float64     `json:"x" bson:"x"`
	Y           float64     `json:"y" bson:"y"`
	FontFamily  string      `json:"fontFamily,omitempty" bson:"fontFamily,omitempty"`
	FontSize    float64     `json:"fontSize" bson:"fontSize"`
	Fill        string      `json:"fill,omitempty" bson:"fill,omitempty"`
	StrokeColor string      `json:"strokeColor,omitempty" bson:"strokeColor,omitempty"`
	StrokeWidth float64     `json:"strokeWidth,omitempty" bson:"strokeWidth,omitempty"`
	Rotation    float64     `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Align       scene.Align `json:"align,omitempty" bson:"align,omitempty"`
	BoxW        float64     `json:"boxW,omitempty" bson:"boxW,omitempty"`
	BoxH        float64     `json:"boxH,omitempty" bson:"boxH,omitempty"`
}

// LogoPlacement captures the saved placement of one custom logo.
type LogoPlacement struct {
	Src      string  `json:"src" bson:"src"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	ScaleX   float64 `json:"scaleX" bson:"scaleX"`
	ScaleY   float64 `json:"scaleY" bson:"scaleY"`
	Rotation float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
}

// Slot is the saved layout for one view. Name and Number are only
// populated for the back view; CustomLogos only for the front view.
type Slot struct {
	Name        *TextStyle      `json:"name,omitempty" bson:"name,omitempty"`
	Number      *TextStyle      `json:"number,omitempty" bson:"number,omitempty"`
	CustomTexts []TextStyle     `json:"customTexts,omitempty" bson:"customTexts,omitempty"`
	CustomLogos []LogoPlacement `json:"customLogos,omitempty" bson:"customLogos,omitempty"`
}

// IsEmpty reports whether the slot holds no saved layout at all.
func (s Slot) IsEmpty() bool {
	return s.Name == nil && s.Number == nil && len(s.CustomTexts) == 0 && len(s.CustomLogos) == 0
}

// Map is the full template: one slot per view key.
// The key is the view only; there is no per-player namespacing.
type Map map[scene.ViewKey]Slot

// Clone returns a deep copy of the map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, slot := range m {
		cp := Slot{}
		if slot.Name != nil {
			n := *slot.Name
			cp.Name = &n
		}
		if slot.Number != nil {
			n := *slot.Number
			cp.Number = &n
		}
		if len(slot.CustomTexts) > 0 {
			cp.CustomTexts = append([]TextStyle(nil), slot.CustomTexts...)
		}
		if len(slot.CustomLogos) > 0 {
			cp.CustomLogos = append([]LogoPlacement(nil), slot.CustomLogos...)
		}
		out[k] = cp
	}
	return out
}
