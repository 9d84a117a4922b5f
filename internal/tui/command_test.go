package tui

import (
	"testing"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  crawlerverse.Action
	}{
		{"move north", crawlerverse.Move{Direction: crawlerverse.North}},
		{"m se", crawlerverse.Move{Direction: crawlerverse.Southeast}},
		{"n", crawlerverse.Move{Direction: crawlerverse.North}},
		{"SW", crawlerverse.Move{Direction: crawlerverse.Southwest}},
		{"attack e", crawlerverse.Attack{Direction: crawlerverse.East}},
		{"hit west", crawlerverse.Attack{Direction: crawlerverse.West}},
		{"shoot n 4", crawlerverse.RangedAttack{Direction: crawlerverse.North, Distance: 4}},
		{"pickup", crawlerverse.Pickup{}},
		{"get", crawlerverse.Pickup{}},
		{"drop gold", crawlerverse.Drop{ItemType: "gold"}},
		{"use health_potion", crawlerverse.Use{ItemType: "health_potion"}},
		{"quaff health_potion", crawlerverse.Use{ItemType: "health_potion"}},
		{"equip sword", crawlerverse.Equip{ItemType: "sword"}},
		{"wait", crawlerverse.Wait{}},
		{"portal", crawlerverse.EnterPortal{}},
		{"  move   north  ", crawlerverse.Move{Direction: crawlerverse.North}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("ParseCommand(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []string{
		"",
		"fly",
		"move",
		"move up",
		"attack",
		"shoot n",
		"shoot n zero",
		"shoot n 0",
		"shoot n -1",
		"use",
		"drop",
		"equip",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseCommand(input); err == nil {
				t.Errorf("ParseCommand(%q) should fail", input)
			}
		})
	}
}
