package crawlerverse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// AgentFunc decides the next action for an observation. It is called once
// per turn, and again with the same observation when the previous action
// was rejected as invalid or rate-limited.
type AgentFunc func(obs *Observation) (Action, error)

// StepFunc observes each successfully submitted turn. It receives the
// observation the action was decided against (the pre-action state) and
// the action itself. A non-nil error stops the run and propagates to the
// caller unmodified.
type StepFunc func(obs *Observation, action Action) error

// GameService is the transport surface the runner needs. *Client
// satisfies it.
type GameService interface {
	CreateGame(ctx context.Context, modelID string) (*CreateGameResponse, error)
	GetGame(ctx context.Context, gameID string) (*GameStateResponse, error)
	SubmitAction(ctx context.Context, gameID string, action Action) (*ActionResponse, error)
}

// DefaultMaxInvalidActions is how many consecutive invalid-action
// rejections the runner tolerates before giving up.
const DefaultMaxInvalidActions = 5

// RunConfig tunes a single RunGame invocation.
type RunConfig struct {
	// ModelID is recorded with the game at creation; ignored when
	// resuming.
	ModelID string

	// GameID resumes an existing game instead of creating one.
	GameID string

	// MaxInvalidActions bounds consecutive invalid-action rejections.
	// Zero means DefaultMaxInvalidActions.
	MaxInvalidActions int

	// OnStep, when set, is invoked once per successful turn.
	OnStep StepFunc

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// sleep is the rate-limit backoff, replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// RunGame drives one game end to end: create or resume, call the agent
// each turn, submit its action, and return once the game reaches a
// terminal outcome.
//
// Invalid-action rejections and rate limits repeat the decision step with
// the same observation. A game that ended server-side between turns
// (conflict carrying an outcome) is a normal result, not an error. Agent
// failures, step-callback failures, the invalid-action threshold and any
// other transport error abort the run.
func RunGame(ctx context.Context, svc GameService, agent AgentFunc, cfg RunConfig) (*GameResult, error) {
	maxInvalid := cfg.MaxInvalidActions
	if maxInvalid <= 0 {
		maxInvalid = DefaultMaxInvalidActions
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := cfg.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var (
		gameID       string
		spectatorURL string
		observation  *Observation
	)

	if cfg.GameID != "" {
		state, err := svc.GetGame(ctx, cfg.GameID)
		if err != nil {
			return nil, err
		}
		gameID = cfg.GameID
		// The service does not resurface the spectator URL on fetch.
		if state.Outcome.Status() != StatusInProgress {
			return &GameResult{GameID: gameID, Outcome: state.Outcome}, nil
		}
		observation = &state.Observation
	} else {
		game, err := svc.CreateGame(ctx, cfg.ModelID)
		if err != nil {
			return nil, err
		}
		gameID = game.GameID
		spectatorURL = game.SpectatorURL
		observation = &game.Observation
	}

	logger.Info("game started", "game", gameID, "spectator", spectatorURL)

	consecutiveInvalid := 0

	for {
		action, err := agent(observation)
		if err != nil {
			return nil, fmt.Errorf("agent function failed [game=%s, turn=%d]: %w",
				gameID, observation.Turn, err)
		}

		result, err := svc.SubmitAction(ctx, gameID, action)
		if err != nil {
			var invalidErr *InvalidActionError
			var rateErr *RateLimitError
			var overErr *GameOverError
			switch {
			case errors.As(err, &invalidErr):
				consecutiveInvalid++
				logger.Warn("invalid action",
					"attempt", consecutiveInvalid,
					"max", maxInvalid,
					"message", invalidErr.Message,
					"code", invalidErr.Code,
					"game", gameID,
					"turn", observation.Turn,
					"action", action.ActionName())
				if consecutiveInvalid >= maxInvalid {
					return nil, err
				}
				continue
			case errors.As(err, &rateErr):
				logger.Warn("rate limited",
					"sleep_seconds", rateErr.RetryAfter,
					"game", gameID,
					"turn", observation.Turn)
				if err := sleep(ctx, time.Duration(rateErr.RetryAfter)*time.Second); err != nil {
					return nil, err
				}
				continue
			case errors.As(err, &overErr):
				logger.Info("game ended between turns",
					"game", gameID, "message", overErr.Message)
				return &GameResult{
					GameID:       gameID,
					SpectatorURL: spectatorURL,
					Outcome:      overErr.Outcome,
				}, nil
			default:
				return nil, err
			}
		}
		consecutiveInvalid = 0

		if cfg.OnStep != nil {
			if err := cfg.OnStep(observation, action); err != nil {
				return nil, err
			}
		}

		observation = &result.Observation

		if result.Outcome.Status() != StatusInProgress {
			logger.Info("game finished",
				"game", gameID, "status", result.Outcome.Status())
			return &GameResult{
				GameID:       gameID,
				SpectatorURL: spectatorURL,
				Outcome:      result.Outcome,
			}, nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
