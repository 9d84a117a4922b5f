package crawlerverse

// Direction is a cardinal or diagonal direction for movement and attacks.
type Direction string

const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
)

// Directions lists every valid direction, in a stable order.
var Directions = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
}

var directionOffsets = map[Direction][2]int{
	North:     {0, -1},
	South:     {0, 1},
	East:      {1, 0},
	West:      {-1, 0},
	Northeast: {1, -1},
	Northwest: {-1, -1},
	Southeast: {1, 1},
	Southwest: {-1, 1},
}

// Offset returns the (dx, dy) grid delta for the direction. Unknown
// directions return (0, 0).
func (d Direction) Offset() (dx, dy int) {
	off, ok := directionOffsets[d]
	if !ok {
		return 0, 0
	}
	return off[0], off[1]
}

// Valid reports whether d is one of the eight known directions.
func (d Direction) Valid() bool {
	_, ok := directionOffsets[d]
	return ok
}

// GameStatus is the coarse state of a game.
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
	StatusAbandoned  GameStatus = "abandoned"
)

// Result is the terminal result of a completed game.
type Result string

const (
	ResultVictory Result = "victory"
	ResultDeath   Result = "death"
)

// AbandonReason explains why a game was abandoned.
type AbandonReason string

const (
	ReasonTimeout      AbandonReason = "timeout"
	ReasonDisconnected AbandonReason = "disconnected"
)

// TileType is the kind of a tile visible in the game map.
type TileType string

const (
	TileFloor      TileType = "floor"
	TileWall       TileType = "wall"
	TileStairsDown TileType = "stairs_down"
	TileStairsUp   TileType = "stairs_up"
	TileDoor       TileType = "door"
	TilePortal     TileType = "portal"
)

var walkableTiles = map[TileType]bool{
	TileFloor:      true,
	TileDoor:       true,
	TileStairsDown: true,
	TileStairsUp:   true,
	TilePortal:     true,
}

// Walkable reports whether the player can stand on this tile type.
func (t TileType) Walkable() bool {
	return walkableTiles[t]
}
