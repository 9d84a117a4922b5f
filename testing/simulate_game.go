// Simulates a full game end to end with a scripted heuristic bot instead
// of an LLM. Useful for exercising the client and runner against a live
// service without burning model tokens.
//
//	export CRAWLERVERSE_API_KEY=cra_...
//	go run ./testing
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
	"github.com/crawlerverse/crawlerverse-go/diagnostics"
	"github.com/crawlerverse/crawlerverse-go/internal/config"
)

// bot is a simple scripted policy: heal when hurt, fight adjacent
// monsters, grab loot, head for the stairs, otherwise keep walking.
type bot struct {
	lastDirection crawlerverse.Direction
}

func (b *bot) decide(obs *crawlerverse.Observation) (crawlerverse.Action, error) {
	p := obs.Player

	if p.HP*3 < p.MaxHP && obs.HasItem("Health Potion") {
		return crawlerverse.Use{ItemType: "health_potion", Reasoning: "low HP"}, nil
	}

	for _, d := range crawlerverse.Directions {
		dx, dy := d.Offset()
		tile := obs.TileAt(p.Position.X+dx, p.Position.Y+dy)
		if tile != nil && tile.Monster != nil {
			return crawlerverse.Attack{Direction: d, Reasoning: "adjacent " + tile.Monster.Type}, nil
		}
	}

	if len(obs.ItemsAtFeet()) > 0 {
		return crawlerverse.Pickup{Reasoning: "loot underfoot"}, nil
	}

	if tile := obs.TileAt(p.Position.X, p.Position.Y); tile != nil && tile.Type == crawlerverse.TilePortal {
		return crawlerverse.EnterPortal{}, nil
	}

	// Head toward visible stairs down.
	if target := findTile(obs, crawlerverse.TileStairsDown); target != nil {
		if d := stepToward(obs, target.X, target.Y); d != "" {
			b.lastDirection = d
			return crawlerverse.Move{Direction: d, Reasoning: "toward stairs"}, nil
		}
	}

	// Keep walking, preferring the previous direction.
	if b.lastDirection != "" && obs.CanMove(b.lastDirection) {
		return crawlerverse.Move{Direction: b.lastDirection}, nil
	}
	for _, d := range crawlerverse.Directions {
		if obs.CanMove(d) {
			b.lastDirection = d
			return crawlerverse.Move{Direction: d}, nil
		}
	}

	return crawlerverse.Wait{Reasoning: "nowhere to go"}, nil
}

func findTile(obs *crawlerverse.Observation, tileType crawlerverse.TileType) *crawlerverse.VisibleTile {
	for i := range obs.VisibleTiles {
		if obs.VisibleTiles[i].Type == tileType {
			return &obs.VisibleTiles[i]
		}
	}
	return nil
}

// stepToward picks the passable direction that most reduces the Manhattan
// distance to (tx, ty), or "" if every candidate is blocked.
func stepToward(obs *crawlerverse.Observation, tx, ty int) crawlerverse.Direction {
	p := obs.Player.Position
	best := crawlerverse.Direction("")
	bestDist := abs(tx-p.X) + abs(ty-p.Y)
	for _, d := range crawlerverse.Directions {
		if !obs.CanMove(d) {
			continue
		}
		dx, dy := d.Offset()
		dist := abs(tx-(p.X+dx)) + abs(ty-(p.Y+dy))
		if dist < bestDist {
			bestDist = dist
			best = d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var opts []crawlerverse.ClientOption
	opts = append(opts, crawlerverse.WithLogger(logger))
	if cfg.BaseURL != "" {
		opts = append(opts, crawlerverse.WithBaseURL(cfg.BaseURL))
	}
	client, err := crawlerverse.NewClient(opts...)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	b := &bot{}
	tracker := diagnostics.NewTracker(os.Stdout)

	result, err := crawlerverse.RunGame(ctx, client, b.decide, crawlerverse.RunConfig{
		ModelID: "scripted/heuristic-bot",
		GameID:  cfg.GameID,
		OnStep:  tracker.StepCallback(),
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Printf("\nSimulation finished: %s\n", result.Outcome.Status())
	switch outcome := result.Outcome.(type) {
	case crawlerverse.CompletedOutcome:
		fmt.Printf("  %s on floor %d after %d turns\n", outcome.Result, outcome.Floor, outcome.Turns)
	case crawlerverse.AbandonedOutcome:
		fmt.Printf("  abandoned (%s) on floor %d after %d turns\n", outcome.Reason, outcome.Floor, outcome.Turns)
	}
	if result.SpectatorURL != "" {
		fmt.Printf("  Watch replay: %s\n", result.SpectatorURL)
	}
}
