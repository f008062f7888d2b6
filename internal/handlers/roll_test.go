package handlers

import (
	"testing"

	"github.com/campforge-dev/campforge/internal/dice"
)

func TestRollAnnouncement(t *testing.T) {
	tests := []struct {
		expression string
		outcome    dice.Outcome
		want       string
	}{
		{
			"3d6+2",
			dice.Outcome{Rolls: []int{4, 2, 6}, Modifier: 2, Total: 14},
			"Rolled 3d6+2: 4+2+6+2 = 14",
		},
		{
			"1d20-1",
			dice.Outcome{Rolls: []int{20}, Modifier: -1, Total: 19},
			"Rolled 1d20-1: 20-1 = 19",
		},
		{
			"2d4",
			dice.Outcome{Rolls: []int{1, 3}, Modifier: 0, Total: 4},
			"Rolled 2d4: 1+3 = 4",
		},
	}

	for _, tt := range tests {
		if got := rollAnnouncement(tt.expression, &tt.outcome); got != tt.want {
			t.Errorf("rollAnnouncement(%q) = %q, want %q", tt.expression, got, tt.want)
		}
	}
}

func TestDefaultSheetTemplate(t *testing.T) {
	sheet := defaultSheet("Brienne")

	if sheet["name"] != "Brienne" {
		t.Errorf("name = %v, want Brienne", sheet["name"])
	}
	if sheet["level"] != 1 {
		t.Errorf("level = %v, want 1", sheet["level"])
	}

	abilities, ok := sheet["abilities"].(map[string]int)
	if !ok {
		t.Fatal("abilities missing from template")
	}

	for _, ability := range []string{"str", "dex", "con", "int", "wis", "cha"} {
		if abilities[ability] != 10 {
			t.Errorf("ability %s = %d, want 10", ability, abilities[ability])
		}
	}

	for _, key := range []string{"skills", "saves", "hp", "ac", "speed", "initiative", "attacks", "spells", "equipment"} {
		if _, present := sheet[key]; !present {
			t.Errorf("template missing %q", key)
		}
	}
}
