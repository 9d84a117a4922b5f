// Command play is an interactive terminal client: you play a game of
// Crawler yourself by typing commands.
//
// Usage:
//
//	export CRAWLERVERSE_API_KEY=cra_...
//	go run ./cmd/play
//
//	# Resume a game:
//	GAME_ID=<uuid> go run ./cmd/play
package main

import (
	"fmt"
	"os"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
	"github.com/crawlerverse/crawlerverse-go/internal/config"
	"github.com/crawlerverse/crawlerverse-go/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	var opts []crawlerverse.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, crawlerverse.WithBaseURL(cfg.BaseURL))
	}
	client, err := crawlerverse.NewClient(opts...)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(client, cfg.GameID); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
