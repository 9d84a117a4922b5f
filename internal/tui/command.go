package tui

import (
	"fmt"
	"strconv"
	"strings"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
)

var directionAliases = map[string]crawlerverse.Direction{
	"n":         crawlerverse.North,
	"north":     crawlerverse.North,
	"s":         crawlerverse.South,
	"south":     crawlerverse.South,
	"e":         crawlerverse.East,
	"east":      crawlerverse.East,
	"w":         crawlerverse.West,
	"west":      crawlerverse.West,
	"ne":        crawlerverse.Northeast,
	"northeast": crawlerverse.Northeast,
	"nw":        crawlerverse.Northwest,
	"northwest": crawlerverse.Northwest,
	"se":        crawlerverse.Southeast,
	"southeast": crawlerverse.Southeast,
	"sw":        crawlerverse.Southwest,
	"southwest": crawlerverse.Southwest,
}

func parseDirection(word string) (crawlerverse.Direction, error) {
	d, ok := directionAliases[strings.ToLower(word)]
	if !ok {
		return "", fmt.Errorf("unknown direction %q", word)
	}
	return d, nil
}

// ParseCommand turns a typed command into an action. Supported commands:
//
//	move <dir> (or just a direction like "n", "sw")
//	attack <dir>
//	shoot <dir> <distance>
//	pickup | get
//	drop <item> | use <item> | equip <item>
//	wait
//	portal
func ParseCommand(input string) (crawlerverse.Action, error) {
	words := strings.Fields(strings.TrimSpace(input))
	if len(words) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	verb := strings.ToLower(words[0])
	args := words[1:]

	// A bare direction is a move.
	if d, err := parseDirection(verb); err == nil {
		return crawlerverse.Move{Direction: d}, nil
	}

	switch verb {
	case "move", "m", "go":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: move <direction>")
		}
		d, err := parseDirection(args[0])
		if err != nil {
			return nil, err
		}
		return crawlerverse.Move{Direction: d}, nil

	case "attack", "a", "hit":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: attack <direction>")
		}
		d, err := parseDirection(args[0])
		if err != nil {
			return nil, err
		}
		return crawlerverse.Attack{Direction: d}, nil

	case "shoot", "ranged":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: shoot <direction> <distance>")
		}
		d, err := parseDirection(args[0])
		if err != nil {
			return nil, err
		}
		dist, err := strconv.Atoi(args[1])
		if err != nil || dist <= 0 {
			return nil, fmt.Errorf("distance must be a positive number, got %q", args[1])
		}
		return crawlerverse.RangedAttack{Direction: d, Distance: dist}, nil

	case "pickup", "get", "take":
		return crawlerverse.Pickup{}, nil

	case "drop":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: drop <item-type>")
		}
		return crawlerverse.Drop{ItemType: args[0]}, nil

	case "use", "quaff", "drink":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: use <item-type>")
		}
		return crawlerverse.Use{ItemType: args[0]}, nil

	case "equip", "wield", "wear":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: equip <item-type>")
		}
		return crawlerverse.Equip{ItemType: args[0]}, nil

	case "wait", "rest":
		return crawlerverse.Wait{}, nil

	case "portal", "enter":
		return crawlerverse.EnterPortal{}, nil
	}

	return nil, fmt.Errorf("unknown command %q", verb)
}
