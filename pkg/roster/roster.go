// Package roster models the player roster handed to the design studio by
// the upload step.
//
// Rosters arrive as already-parsed JSON or CSV. Player identity is
// structural (name + number); there is no stored key, because the layout
// template is roster-wide rather than per-player.
package roster

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kitforge/kitforge/pkg/errors"
)

// Player is one roster entry.
type Player struct {
	PlayerName   string `json:"playerName"`
	JerseyNumber string `json:"jerseyNumber"`
	Size         string `json:"size"`
	Position     string `json:"position,omitempty"`
	TeamName     string `json:"teamName,omitempty"`
	CustomTag    string `json:"customTag,omitempty"`
}

// Validate checks the fields needed by the design/export pipeline.
func (p Player) Validate() error {
	if err := errors.ValidatePlayerName(p.PlayerName); err != nil {
		return err
	}
	return errors.ValidateJerseyNumber(p.JerseyNumber)
}

// Label returns the short on-canvas identifier shown in the UI overlay.
func (p Player) Label() string {
	return fmt.Sprintf("%s #%s", p.PlayerName, p.JerseyNumber)
}

// Roster is an ordered list of players.
type Roster []Player

// Validate checks every player, reporting the first failure with its index.
func (r Roster) Validate() error {
	if len(r) == 0 {
		return errors.New(errors.ErrCodeInvalidRoster, "roster is empty")
	}
	for i, p := range r {
		if err := p.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRoster, err, "player %d (%s)", i+1, p.PlayerName)
		}
	}
	return nil
}

// ParseJSON reads a roster from a JSON array of player objects.
func ParseJSON(r io.Reader) (Roster, error) {
	var out Roster
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoster, err, "decode roster JSON")
	}
	return out, nil
}

// csvColumns maps header names (lowercased, spaces stripped) to fields.
var csvColumns = map[string]func(*Player, string){
	"playername":   func(p *Player, v string) { p.PlayerName = v },
	"name":         func(p *Player, v string) { p.PlayerName = v },
	"jerseynumber": func(p *Player, v string) { p.JerseyNumber = v },
	"number":       func(p *Player, v string) { p.JerseyNumber = v },
	"size":         func(p *Player, v string) { p.Size = v },
	"position":     func(p *Player, v string) { p.Position = v },
	"teamname":     func(p *Player, v string) { p.TeamName = v },
	"team":         func(p *Player, v string) { p.TeamName = v },
	"customtag":    func(p *Player, v string) { p.CustomTag = v },
	"tag":          func(p *Player, v string) { p.CustomTag = v },
}

// ParseCSV reads a roster from CSV with a header row. Column names are
// matched case-insensitively and without spaces; unknown columns are
// ignored so spreadsheets with extra data still import.
func ParseCSV(r io.Reader) (Roster, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRoster, err, "read roster header")
	}

	setters := make([]func(*Player, string), len(header))
	for i, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "")
		setters[i] = csvColumns[key]
	}

	var out Roster
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRoster, err, "read roster row %d", len(out)+2)
		}
		var p Player
		for i, v := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&p, strings.TrimSpace(v))
			}
		}
		out = append(out, p)
	}
	return out, nil
}
