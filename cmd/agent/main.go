// Command agent plays a game of Crawler with Gemini deciding each turn.
//
// Usage:
//
//	export CRAWLERVERSE_API_KEY=cra_...
//	export GEMINI_API_KEY=...
//	go run ./cmd/agent
//
//	# Resume a game (after a crash or timeout):
//	GAME_ID=<uuid> go run ./cmd/agent
//
//	# Enable debug diagnostics (local map, move validation):
//	CRAWLERVERSE_DEBUG=1 go run ./cmd/agent
//
//	# Tune the agent with a YAML settings file:
//	go run ./cmd/agent -settings agent.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
	"github.com/crawlerverse/crawlerverse-go/diagnostics"
	"github.com/crawlerverse/crawlerverse-go/internal/agent"
	"github.com/crawlerverse/crawlerverse-go/internal/config"
)

func main() {
	settingsPath := flag.String("settings", "", "Path to a YAML agent settings file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is not set")
	}

	settings, err := config.LoadAgentSettings(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load agent settings: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "gemini/" + settings.Model
	}

	if cfg.GameID != "" {
		fmt.Printf("Resuming game: %s\n\n", cfg.GameID)
	} else {
		fmt.Printf("Starting game with model: %s (leaderboard ID: %s)\n\n", settings.Model, modelID)
	}

	gemini, err := agent.New(ctx, cfg.GeminiAPIKey, agent.Options{
		Model:        settings.Model,
		Temperature:  settings.Temperature,
		SystemPrompt: settings.SystemPrompt,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("Failed to create Gemini agent: %v", err)
	}
	defer gemini.Close()

	clientOpts := []crawlerverse.ClientOption{crawlerverse.WithLogger(logger)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, crawlerverse.WithBaseURL(cfg.BaseURL))
	}
	client, err := crawlerverse.NewClient(clientOpts...)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	tracker := diagnostics.NewTracker(os.Stdout)

	result, err := crawlerverse.RunGame(ctx, client, gemini.Func(ctx), crawlerverse.RunConfig{
		ModelID:           modelID,
		GameID:            cfg.GameID,
		MaxInvalidActions: settings.MaxInvalidActions,
		OnStep:            tracker.StepCallback(),
		Logger:            logger,
	})
	if err != nil {
		log.Fatalf("Game failed: %v", err)
	}

	printResult(result)
}

func printResult(result *crawlerverse.GameResult) {
	fmt.Println()
	fmt.Printf("Game over! %s\n", result.Outcome.Status())
	switch outcome := result.Outcome.(type) {
	case crawlerverse.CompletedOutcome:
		fmt.Printf("  Result: %s\n", outcome.Result)
		fmt.Printf("  Floor reached: %d\n", outcome.Floor)
		fmt.Printf("  Total turns: %d\n", outcome.Turns)
	case crawlerverse.AbandonedOutcome:
		fmt.Printf("  Reason: %s\n", outcome.Reason)
		fmt.Printf("  Floor reached: %d\n", outcome.Floor)
		fmt.Printf("  Total turns: %d\n", outcome.Turns)
	}
	if result.SpectatorURL != "" {
		fmt.Printf("  Watch replay: %s\n", result.SpectatorURL)
	}
}
