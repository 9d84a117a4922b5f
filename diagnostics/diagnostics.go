// Package diagnostics helps debug agent behavior: it validates chosen
// moves against the local map, flags position anomalies between turns,
// and renders a small ASCII map around the player.
//
// Enable with CRAWLERVERSE_DEBUG=1. Wire it into a run via StepCallback:
//
//	tracker := diagnostics.NewTracker(os.Stdout)
//	crawlerverse.RunGame(ctx, client, agent, crawlerverse.RunConfig{
//		OnStep: tracker.StepCallback(),
//	})
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	crawlerverse "github.com/crawlerverse/crawlerverse-go"
)

var tileChars = map[crawlerverse.TileType]string{
	crawlerverse.TileWall:       "#",
	crawlerverse.TileFloor:      ".",
	crawlerverse.TileDoor:       "+",
	crawlerverse.TileStairsDown: ">",
	crawlerverse.TileStairsUp:   "<",
	crawlerverse.TilePortal:     "%",
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	playerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	monsterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

// Enabled reports whether debug diagnostics are switched on via the
// CRAWLERVERSE_DEBUG environment variable.
func Enabled() bool {
	switch strings.TrimSpace(os.Getenv("CRAWLERVERSE_DEBUG")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func tileChar(tile *crawlerverse.VisibleTile) string {
	if tile == nil {
		return "?"
	}
	if tile.Monster != nil {
		return monsterStyle.Render("M")
	}
	if ch, ok := tileChars[tile.Type]; ok {
		return ch
	}
	return string(tile.Type[0])
}

// RenderMap draws an ASCII grid of the given radius centred on the
// player: @ player, # wall, . floor, M monster, ? unseen.
func RenderMap(obs *crawlerverse.Observation, radius int) string {
	pos := obs.Player.Position
	var b strings.Builder
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			b.WriteString(" ")
			if dx == 0 && dy == 0 {
				b.WriteString(playerStyle.Render("@"))
				continue
			}
			b.WriteString(tileChar(obs.TileAt(pos.X+dx, pos.Y+dy)))
		}
		if dy < radius {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Tracker follows an agent across turns and prints diagnostics. Call
// OnAction before submitting each action and OnResult after receiving the
// response; StepCallback wires OnAction into RunGame.
type Tracker struct {
	out     io.Writer
	enabled bool

	prevPos       *crawlerverse.Position
	prevAction    string
	prevDirection crawlerverse.Direction
}

// NewTracker builds a tracker writing to out (os.Stdout if nil), enabled
// per the CRAWLERVERSE_DEBUG environment variable.
func NewTracker(out io.Writer) *Tracker {
	if out == nil {
		out = os.Stdout
	}
	return &Tracker{out: out, enabled: Enabled()}
}

func (tr *Tracker) printf(format string, args ...any) {
	fmt.Fprintf(tr.out, "  %s %s\n", labelStyle.Render("[DIAG]"), fmt.Sprintf(format, args...))
}

func (tr *Tracker) warnf(format string, args ...any) {
	fmt.Fprintf(tr.out, "  %s %s\n", labelStyle.Render("[DIAG]"), warningStyle.Render(fmt.Sprintf(format, args...)))
}

// OnAction diagnoses the chosen action against the pre-action observation.
func (tr *Tracker) OnAction(obs *crawlerverse.Observation, action crawlerverse.Action) {
	if !tr.enabled {
		return
	}

	tr.checkPosition(obs)

	move, ok := action.(crawlerverse.Move)
	if !ok {
		pos := obs.Player.Position
		tr.prevPos = &pos
		tr.prevAction = action.ActionName()
		tr.prevDirection = ""
		return
	}

	pos := obs.Player.Position
	tr.printf("Player at %s, wants to move %s", pos, move.Direction)
	tr.printf("Local map (@ = player, # = wall, . = floor, M = monster, ? = unseen):")
	for _, line := range strings.Split(RenderMap(obs, 2), "\n") {
		tr.printf(" %s", line)
	}

	dx, dy := move.Direction.Offset()
	target := obs.TileAt(pos.X+dx, pos.Y+dy)
	desc := "NOT VISIBLE"
	if target != nil {
		desc = string(target.Type)
		if target.Monster != nil {
			desc += fmt.Sprintf(" [monster: %s]", target.Monster.Type)
		}
	}
	can := obs.CanMove(move.Direction)
	tr.printf("Target (%d,%d): %s | canMove(%s)=%v", pos.X+dx, pos.Y+dy, desc, move.Direction, can)
	if !can {
		tr.warnf("*** INVALID MOVE *** agent chose a blocked direction")
	}

	tr.prevPos = &pos
	tr.prevAction = move.ActionName()
	tr.prevDirection = move.Direction
}

// OnResult checks the observation returned after an action for anomalies.
// Optional; gives feedback immediately instead of on the next OnAction.
func (tr *Tracker) OnResult(obs *crawlerverse.Observation) {
	if !tr.enabled {
		return
	}
	tr.checkPosition(obs)
}

// StepCallback adapts the tracker to RunGame's OnStep hook. Returns nil
// when diagnostics are disabled so callers can pass it through directly.
func (tr *Tracker) StepCallback() crawlerverse.StepFunc {
	if !tr.enabled {
		return nil
	}
	return func(obs *crawlerverse.Observation, action crawlerverse.Action) error {
		tr.OnAction(obs, action)
		return nil
	}
}

func (tr *Tracker) checkPosition(obs *crawlerverse.Observation) {
	if tr.prevPos == nil {
		return
	}

	dx := obs.Player.Position.X - tr.prevPos.X
	dy := obs.Player.Position.Y - tr.prevPos.Y

	if tr.prevAction == "move" && tr.prevDirection != "" {
		ex, ey := tr.prevDirection.Offset()
		if (dx == ex && dy == ey) || (dx == 0 && dy == 0) {
			// Moved as expected, or was blocked. Both are normal.
			return
		}
		tr.warnf("*** POSITION MISMATCH *** prev=%s action=move %s expected delta=(%d,%d) actual delta=(%d,%d) new pos=%s",
			tr.prevPos, tr.prevDirection, ex, ey, dx, dy, obs.Player.Position)
	} else if tr.prevAction != "move" && (dx != 0 || dy != 0) {
		tr.warnf("*** UNEXPECTED MOVEMENT *** prev=%s action=%s but position changed by (%d,%d) to %s",
			tr.prevPos, tr.prevAction, dx, dy, obs.Player.Position)
	}
}
