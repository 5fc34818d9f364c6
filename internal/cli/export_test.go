package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kitforge/kitforge/pkg/scene"
)

func TestComponentKind(t *testing.T) {
	tests := []struct {
		name    string
		want    scene.Kind
		wantErr bool
	}{
		{"leftSleeve", scene.KindSleeveLeft, false},
		{"left-sleeve", scene.KindSleeveLeft, false},
		{"RightSleeve", scene.KindSleeveRight, false},
		{"collar", scene.KindCollar, false},
		{"back", scene.KindUnknown, true},
	}
	for _, tt := range tests {
		got, err := componentKind(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("componentKind(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("componentKind(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadRosterFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.csv")
	data := "Name,Number,Size\nJordan Smith,7,40\nAlex Chen,23,38\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	team, err := loadRosterFile(path)
	if err != nil {
		t.Fatalf("loadRosterFile() error = %v", err)
	}
	if len(team) != 2 || team[0].PlayerName != "Jordan Smith" || team[1].JerseyNumber != "23" {
		t.Errorf("roster = %+v", team)
	}
}

func TestLoadRosterFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.json")
	data := `[{"playerName":"Jordan Smith","jerseyNumber":"7","size":"40"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	team, err := loadRosterFile(path)
	if err != nil {
		t.Fatalf("loadRosterFile() error = %v", err)
	}
	if len(team) != 1 || team[0].Size != "40" {
		t.Errorf("roster = %+v", team)
	}
}

func TestLoadRosterFileMissing(t *testing.T) {
	if _, err := loadRosterFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("missing roster file should error")
	}
}
