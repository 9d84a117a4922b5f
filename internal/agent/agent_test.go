package agent

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseActionPlainJSON(t *testing.T) {
	action := parseAction(`{"action": "move", "direction": "north", "reasoning": "exploring"}`, testLogger)

	move, ok := action.(crawlerverse.Move)
	if !ok {
		t.Fatalf("Expected Move, got %T", action)
	}
	if move.Direction != crawlerverse.North || move.Reasoning != "exploring" {
		t.Errorf("Unexpected fields: %+v", move)
	}
}

func TestParseActionFencedJSON(t *testing.T) {
	raw := "```json\n{\"action\": \"use\", \"itemType\": \"health_potion\"}\n```"
	action := parseAction(raw, testLogger)

	use, ok := action.(crawlerverse.Use)
	if !ok {
		t.Fatalf("Expected Use, got %T", action)
	}
	if use.ItemType != "health_potion" {
		t.Errorf("Expected health_potion, got %q", use.ItemType)
	}
}

func TestParseActionEmbeddedJSON(t *testing.T) {
	raw := `I think the best move is: {"action": "attack", "direction": "east"} because the goblin is adjacent.`
	action := parseAction(raw, testLogger)

	attack, ok := action.(crawlerverse.Attack)
	if !ok {
		t.Fatalf("Expected Attack, got %T", action)
	}
	if attack.Direction != crawlerverse.East {
		t.Errorf("Expected east, got %q", attack.Direction)
	}
}

func TestParseActionFallsBackToWait(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I move north"},
		{"unknown action", `{"action": "teleport"}`},
		{"invalid fields", `{"action": "ranged_attack", "direction": "north", "distance": 0}`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := parseAction(tt.raw, testLogger)
			if _, ok := action.(crawlerverse.Wait); !ok {
				t.Errorf("Expected Wait fallback, got %T", action)
			}
		})
	}
}

func TestFormatObservation(t *testing.T) {
	var obs crawlerverse.Observation
	err := json.Unmarshal([]byte(`{
		"turn": 7,
		"floor": 2,
		"player": {
			"position": [5, 5], "hp": 12, "maxHp": 20,
			"attack": 5, "defense": 3, "equippedWeapon": "rusty_sword"
		},
		"inventory": [{"id": "itm-1", "type": "health_potion", "name": "Health Potion"}],
		"visibleTiles": [
			{"x": 5, "y": 5, "type": "floor", "items": []},
			{"x": 4, "y": 5, "type": "floor", "items": ["gold"]},
			{"x": 6, "y": 5, "type": "floor", "items": [],
				"monster": {"type": "goblin", "hp": 6, "maxHp": 8}},
			{"x": 5, "y": 4, "type": "wall", "items": []}
		],
		"messages": ["You descend the stairs."]
	}`), &obs)
	if err != nil {
		t.Fatalf("Failed to unmarshal observation: %v", err)
	}

	out := FormatObservation(&obs)
	for _, want := range []string{
		"Turn 7 | Floor 2",
		"HP: 12/20 | ATK: 5 | DEF: 3",
		"Weapon: rusty_sword",
		"Inventory: Health Potion (health_potion)",
		"Passable directions: west",
		"[MONSTER: goblin HP:6/8]",
		"[ITEMS: gold]",
		"You descend the stairs.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatObservation missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Armor:") {
		t.Error("Unequipped armor should not be mentioned")
	}
}
