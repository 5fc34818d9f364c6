package scene

import "fmt"

// Kind identifies what a scene object represents on the jersey canvas.
// The zero value KindUnknown marks objects that were never tagged; an
// untagged image still counts as a design element so artwork that failed
// to receive a tag remains exportable.
type Kind int

const (
	// KindUnknown is the zero value for untagged objects.
	KindUnknown Kind = iota

	// KindArtworkFront is the full front jersey artwork layer.
	KindArtworkFront

	// KindArtworkBack is the full back jersey artwork layer.
	KindArtworkBack

	// KindSleeveLeft is the left sleeve artwork layer.
	KindSleeveLeft

	// KindSleeveRight is the right sleeve artwork layer.
	KindSleeveRight

	// KindCollar is the collar artwork layer.
	KindCollar

	// KindNameText is the player-name text element (back view).
	KindNameText

	// KindNumberText is the jersey-number text element (back view).
	KindNumberText

	// KindCustomText is a user-added text element.
	KindCustomText

	// KindCustomLogo is a user-added logo image (front view).
	KindCustomLogo

	// KindUILabel is an on-screen aid (player identifier). Never exported.
	KindUILabel
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindArtworkFront: "artworkFront",
	KindArtworkBack:  "artworkBack",
	KindSleeveLeft:   "sleeveLeft",
	KindSleeveRight:  "sleeveRight",
	KindCollar:       "collar",
	KindNameText:     "nameText",
	KindNumberText:   "numberText",
	KindCustomText:   "customText",
	KindCustomLogo:   "customLogo",
	KindUILabel:      "uiLabel",
}

// String returns a stable lowercase name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsArtwork reports whether the kind is a jersey artwork layer.
func (k Kind) IsArtwork() bool {
	switch k {
	case KindArtworkFront, KindArtworkBack, KindSleeveLeft, KindSleeveRight, KindCollar:
		return true
	}
	return false
}

// IsDesign reports whether the kind counts toward exportable design bounds.
// UI overlays are excluded by construction; KindUnknown is handled by the
// bounds resolver (only untagged images qualify).
func (k Kind) IsDesign() bool {
	switch k {
	case KindArtworkFront, KindArtworkBack, KindSleeveLeft, KindSleeveRight,
		KindCollar, KindNameText, KindNumberText, KindCustomText, KindCustomLogo:
		return true
	}
	return false
}

// ViewKey identifies one of the five physical jersey facets.
type ViewKey string

// The five jersey views a canvas can display and export.
const (
	ViewFront       ViewKey = "front"
	ViewBack        ViewKey = "back"
	ViewLeftSleeve  ViewKey = "leftSleeve"
	ViewRightSleeve ViewKey = "rightSleeve"
	ViewCollar      ViewKey = "collar"
)

// AllViews lists every view key in display order.
// Iteration order matters for "export all views".
var AllViews = []ViewKey{ViewFront, ViewBack, ViewLeftSleeve, ViewRightSleeve, ViewCollar}

// Valid reports whether v is one of the five known views.
func (v ViewKey) Valid() bool {
	switch v {
	case ViewFront, ViewBack, ViewLeftSleeve, ViewRightSleeve, ViewCollar:
		return true
	}
	return false
}

// ArtworkKind returns the artwork layer kind belonging to this view.
func (v ViewKey) ArtworkKind() Kind {
	switch v {
	case ViewFront:
		return KindArtworkFront
	case ViewBack:
		return KindArtworkBack
	case ViewLeftSleeve:
		return KindSleeveLeft
	case ViewRightSleeve:
		return KindSleeveRight
	case ViewCollar:
		return KindCollar
	}
	return KindUnknown
}

// ParseView converts a string to a ViewKey, accepting a few CLI-friendly
// aliases ("left-sleeve", "left_sleeve").
func ParseView(s string) (ViewKey, error) {
	switch s {
	case "front":
		return ViewFront, nil
	case "back":
		return ViewBack, nil
	case "leftSleeve", "left-sleeve", "left_sleeve":
		return ViewLeftSleeve, nil
	case "rightSleeve", "right-sleeve", "right_sleeve":
		return ViewRightSleeve, nil
	case "collar":
		return ViewCollar, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}
