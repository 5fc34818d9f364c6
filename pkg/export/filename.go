package export

import (
	"strings"

	"github.com/kitforge/kitforge/pkg/roster"
)

// Filename builds the export file stem for a player and view/component
// suffix: sanitized player name, jersey number, garment size and suffix
// joined by dashes. A nil player yields just the suffix.
func Filename(p *roster.Player, suffix string) string {
	parts := make([]string, 0, 4)
	if p != nil {
		parts = append(parts, sanitize(p.PlayerName), sanitize(p.JerseyNumber), sanitize(p.Size))
	}
	parts = append(parts, sanitize(suffix))

	kept := parts[:0]
	for _, s := range parts {
		if s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "export"
	}
	return strings.Join(kept, "-")
}

// sanitize lowercases and replaces every run of non-alphanumeric
// characters with a single dash, trimming dashes at both ends.
func sanitize(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
