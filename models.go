package crawlerverse

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Position is an integer grid coordinate. On the wire it is a two-element
// array [x, y].
type Position struct {
	X int
	Y int
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Monster occupies a visible tile.
type Monster struct {
	Type  string `json:"type"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
}

// VisibleTile is one tile of the map visible to the player this turn.
type VisibleTile struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Type    TileType `json:"type"`
	Items   []string `json:"items"`
	Monster *Monster `json:"monster,omitempty"`
}

// InventoryItem is an item carried by the player.
type InventoryItem struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Player is the player's own state within an observation.
type Player struct {
	Position       Position `json:"position"`
	HP             int      `json:"hp"`
	MaxHP          int      `json:"maxHp"`
	Attack         int      `json:"attack"`
	Defense        int      `json:"defense"`
	EquippedWeapon string   `json:"equippedWeapon,omitempty"`
	EquippedArmor  string   `json:"equippedArmor,omitempty"`
}

// Observation is the agent's view of the game world for a single turn.
// It is never mutated after decoding; each turn produces a fresh one.
type Observation struct {
	Turn         int             `json:"turn"`
	Floor        int             `json:"floor"`
	Player       Player          `json:"player"`
	Inventory    []InventoryItem `json:"inventory"`
	VisibleTiles []VisibleTile   `json:"visibleTiles"`
	Messages     []string        `json:"messages"`
}

// TileAt returns the visible tile at the given coordinates, or nil.
func (o *Observation) TileAt(x, y int) *VisibleTile {
	for i := range o.VisibleTiles {
		if o.VisibleTiles[i].X == x && o.VisibleTiles[i].Y == y {
			return &o.VisibleTiles[i]
		}
	}
	return nil
}

// Monsters returns all visible tiles that contain a monster.
func (o *Observation) Monsters() []*VisibleTile {
	var tiles []*VisibleTile
	for i := range o.VisibleTiles {
		if o.VisibleTiles[i].Monster != nil {
			tiles = append(tiles, &o.VisibleTiles[i])
		}
	}
	return tiles
}

// NearestMonster returns the tile of the closest monster by Manhattan
// distance, or nil if no monster is visible.
func (o *Observation) NearestMonster() *VisibleTile {
	pos := o.Player.Position
	var nearest *VisibleTile
	best := -1
	for _, tile := range o.Monsters() {
		dist := abs(tile.X-pos.X) + abs(tile.Y-pos.Y)
		if best < 0 || dist < best {
			best = dist
			nearest = tile
		}
	}
	return nearest
}

// ItemsAtFeet returns the items on the tile the player is standing on.
func (o *Observation) ItemsAtFeet() []string {
	pos := o.Player.Position
	tile := o.TileAt(pos.X, pos.Y)
	if tile == nil {
		return nil
	}
	return tile.Items
}

// HasItem reports whether the player carries an item with the given name
// (case-insensitive).
func (o *Observation) HasItem(name string) bool {
	for _, item := range o.Inventory {
		if strings.EqualFold(item.Name, name) {
			return true
		}
	}
	return false
}

// CanMove reports whether the player can move in the given direction.
// Returns false if the target tile is not visible, not walkable, or
// occupied by a monster.
func (o *Observation) CanMove(d Direction) bool {
	dx, dy := d.Offset()
	tile := o.TileAt(o.Player.Position.X+dx, o.Player.Position.Y+dy)
	if tile == nil || tile.Monster != nil {
		return false
	}
	return tile.Type.Walkable()
}

// String renders a short human-readable summary of the observation.
func (o *Observation) String() string {
	p := o.Player
	itemCount := 0
	for _, tile := range o.VisibleTiles {
		itemCount += len(tile.Items)
	}
	invNames := make([]string, 0, len(o.Inventory))
	for _, item := range o.Inventory {
		invNames = append(invNames, item.Name)
	}
	inv := strings.Join(invNames, ", ")
	if inv == "" {
		inv = "empty"
	}
	lines := []string{
		fmt.Sprintf("Turn %d | Floor %d | HP %d/%d | Pos %s",
			o.Turn, o.Floor, p.HP, p.MaxHP, p.Position),
		fmt.Sprintf("Inventory: %s", inv),
		fmt.Sprintf("Visible: %d monsters, %d items", len(o.Monsters()), itemCount),
	}
	if len(o.Messages) > 0 {
		lines = append(lines, fmt.Sprintf("Messages: %q", o.Messages[len(o.Messages)-1]))
	}
	return strings.Join(lines, "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Outcome is the tagged terminal/non-terminal status of a game. It is one
// of InProgressOutcome, CompletedOutcome or AbandonedOutcome.
type Outcome interface {
	Status() GameStatus
	isOutcome()
}

// InProgressOutcome means the game continues.
type InProgressOutcome struct{}

func (InProgressOutcome) Status() GameStatus { return StatusInProgress }
func (InProgressOutcome) isOutcome()         {}

// CompletedOutcome means the game reached a natural end.
type CompletedOutcome struct {
	Result Result `json:"result"`
	Floor  int    `json:"floor"`
	Turns  int    `json:"turns"`
}

func (CompletedOutcome) Status() GameStatus { return StatusCompleted }
func (CompletedOutcome) isOutcome()         {}

// AbandonedOutcome means the game was ended without a result.
type AbandonedOutcome struct {
	Reason AbandonReason `json:"reason"`
	Floor  int           `json:"floor"`
	Turns  int           `json:"turns"`
}

func (AbandonedOutcome) Status() GameStatus { return StatusAbandoned }
func (AbandonedOutcome) isOutcome()         {}

// ParseOutcome decodes an outcome object by its status discriminator.
func ParseOutcome(data []byte) (Outcome, error) {
	var tag struct {
		Status GameStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("parse outcome: %w", err)
	}
	switch tag.Status {
	case StatusInProgress:
		return InProgressOutcome{}, nil
	case StatusCompleted:
		var out CompletedOutcome
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parse completed outcome: %w", err)
		}
		return out, nil
	case StatusAbandoned:
		var out AbandonedOutcome
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("parse abandoned outcome: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parse outcome: unknown status %q", tag.Status)
	}
}

// CreateGameResponse is returned when a new game is created.
type CreateGameResponse struct {
	GameID       string      `json:"gameId"`
	Observation  Observation `json:"observation"`
	SpectatorURL string      `json:"spectatorUrl"`
}

// ActionResponse is returned after submitting an action.
type ActionResponse struct {
	Observation Observation
	Outcome     Outcome
}

func (r *ActionResponse) UnmarshalJSON(data []byte) error {
	obs, outcome, err := unmarshalObservationOutcome(data)
	if err != nil {
		return err
	}
	r.Observation = obs
	r.Outcome = outcome
	return nil
}

// GameStateResponse is the current state of an existing game.
type GameStateResponse struct {
	Observation Observation
	Outcome     Outcome
}

func (r *GameStateResponse) UnmarshalJSON(data []byte) error {
	obs, outcome, err := unmarshalObservationOutcome(data)
	if err != nil {
		return err
	}
	r.Observation = obs
	r.Outcome = outcome
	return nil
}

func unmarshalObservationOutcome(data []byte) (Observation, Outcome, error) {
	var raw struct {
		Observation Observation     `json:"observation"`
		Outcome     json.RawMessage `json:"outcome"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Observation{}, nil, err
	}
	outcome, err := ParseOutcome(raw.Outcome)
	if err != nil {
		return Observation{}, nil, err
	}
	return raw.Observation, outcome, nil
}

// GameSummary is one entry in a game listing.
type GameSummary struct {
	GameID       string     `json:"gameId"`
	Status       GameStatus `json:"status"`
	ModelID      string     `json:"modelId,omitempty"`
	FloorReached int        `json:"floorReached"`
	TotalTurns   int        `json:"totalTurns"`
	Result       Result     `json:"result,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
	SpectatorURL string     `json:"spectatorUrl"`
}

// ListGamesResponse is a page of game summaries.
type ListGamesResponse struct {
	Games   []GameSummary `json:"games"`
	HasMore bool          `json:"hasMore"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// AbandonGameResponse is returned when a game is abandoned by the caller.
type AbandonGameResponse struct {
	GameID string `json:"gameId"`
	Status string `json:"status"`
	Floor  int    `json:"floor"`
	Turns  int    `json:"turns"`
}

// GameResult is returned by RunGame once a game reaches a terminal state.
// Outcome is always CompletedOutcome or AbandonedOutcome.
type GameResult struct {
	GameID       string
	SpectatorURL string
	Outcome      Outcome
}
