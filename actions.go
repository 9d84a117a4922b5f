package crawlerverse

import (
	"encoding/json"
	"fmt"
)

// Action is one of the nine moves an agent can submit each turn: Move,
// Attack, RangedAttack, Pickup, Drop, Use, Equip, Wait or EnterPortal.
// The set is closed.
type Action interface {
	// ActionName is the wire discriminator for the variant.
	ActionName() string
	validate() error
}

// Move steps one tile in a direction.
type Move struct {
	Direction Direction `json:"direction"`
	Reasoning string    `json:"reasoning,omitempty"`
}

func (Move) ActionName() string { return "move" }

func (a Move) validate() error { return validDirection(a.Direction) }

// Attack strikes an adjacent tile.
type Attack struct {
	Direction Direction `json:"direction"`
	Reasoning string    `json:"reasoning,omitempty"`
}

func (Attack) ActionName() string { return "attack" }

func (a Attack) validate() error { return validDirection(a.Direction) }

// RangedAttack fires at a tile some distance away.
type RangedAttack struct {
	Direction Direction `json:"direction"`
	Distance  int       `json:"distance"`
	Reasoning string    `json:"reasoning,omitempty"`
}

func (RangedAttack) ActionName() string { return "ranged_attack" }

func (a RangedAttack) validate() error {
	if err := validDirection(a.Direction); err != nil {
		return err
	}
	if a.Distance <= 0 {
		return fmt.Errorf("ranged_attack: distance must be positive, got %d", a.Distance)
	}
	return nil
}

// Pickup collects the items on the player's tile.
type Pickup struct {
	Reasoning string `json:"reasoning,omitempty"`
}

func (Pickup) ActionName() string { return "pickup" }

func (Pickup) validate() error { return nil }

// Drop discards a carried item by type.
type Drop struct {
	ItemType  string `json:"itemType"`
	Reasoning string `json:"reasoning,omitempty"`
}

func (Drop) ActionName() string { return "drop" }

func (a Drop) validate() error { return validItemType("drop", a.ItemType) }

// Use consumes or activates a carried item by type.
type Use struct {
	ItemType  string `json:"itemType"`
	Reasoning string `json:"reasoning,omitempty"`
}

func (Use) ActionName() string { return "use" }

func (a Use) validate() error { return validItemType("use", a.ItemType) }

// Equip wields or wears a carried item by type.
type Equip struct {
	ItemType  string `json:"itemType"`
	Reasoning string `json:"reasoning,omitempty"`
}

func (Equip) ActionName() string { return "equip" }

func (a Equip) validate() error { return validItemType("equip", a.ItemType) }

// Wait passes the turn.
type Wait struct {
	Reasoning string `json:"reasoning,omitempty"`
}

func (Wait) ActionName() string { return "wait" }

func (Wait) validate() error { return nil }

// EnterPortal steps through the portal the player is standing on.
type EnterPortal struct {
	Reasoning string `json:"reasoning,omitempty"`
}

func (EnterPortal) ActionName() string { return "enter_portal" }

func (EnterPortal) validate() error { return nil }

func validDirection(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("invalid direction %q", d)
	}
	return nil
}

func validItemType(name, itemType string) error {
	if itemType == "" {
		return fmt.Errorf("%s: itemType must not be empty", name)
	}
	return nil
}

// MarshalAction validates and serializes an action as a JSON object with
// the "action" discriminator field. Absent optional fields are omitted,
// never emitted as null.
func MarshalAction(a Action) ([]byte, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	fields, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	obj := make(map[string]any)
	if err := json.Unmarshal(fields, &obj); err != nil {
		return nil, err
	}
	obj["action"] = a.ActionName()
	return json.Marshal(obj)
}

// DecodeAction parses a JSON action object by its "action" discriminator
// and validates the variant's fields. Unknown discriminators and malformed
// shapes return an error; callers that consume untrusted model output
// should substitute a safe Wait themselves.
func DecodeAction(data []byte) (Action, error) {
	var tag struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	var action Action
	switch tag.Action {
	case "move":
		var a Move
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode move: %w", err)
		}
		action = a
	case "attack":
		var a Attack
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode attack: %w", err)
		}
		action = a
	case "ranged_attack":
		var a RangedAttack
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode ranged_attack: %w", err)
		}
		action = a
	case "pickup":
		var a Pickup
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode pickup: %w", err)
		}
		action = a
	case "drop":
		var a Drop
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode drop: %w", err)
		}
		action = a
	case "use":
		var a Use
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode use: %w", err)
		}
		action = a
	case "equip":
		var a Equip
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode equip: %w", err)
		}
		action = a
	case "wait":
		var a Wait
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode wait: %w", err)
		}
		action = a
	case "enter_portal":
		var a EnterPortal
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("decode enter_portal: %w", err)
		}
		action = a
	default:
		return nil, fmt.Errorf("decode action: unknown action %q", tag.Action)
	}

	if err := action.validate(); err != nil {
		return nil, err
	}
	return action, nil
}
