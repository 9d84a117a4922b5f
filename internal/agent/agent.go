// Package agent implements a Gemini-backed decision function for the
// crawlerverse runner.
package agent

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/system.txt
var defaultSystemPrompt string

//go:embed prompts/turn.txt
var turnPrompt string

// Options configure a new Agent.
type Options struct {
	// Model is the Gemini model name, e.g. "gemini-2.5-flash".
	Model string

	// Temperature for generation.
	Temperature float32

	// SystemPrompt overrides the built-in system prompt when non-empty.
	SystemPrompt string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Agent asks Gemini to pick one action per observation.
type Agent struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	turnTmpl *template.Template
	logger   *slog.Logger
}

// New creates an agent talking to Gemini with the given API key.
func New(ctx context.Context, apiKey string, opts Options) (*Agent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	modelName := opts.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(opts.Temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	tmpl, err := template.New("turn").Parse(turnPrompt)
	if err != nil {
		return nil, err
	}

	return &Agent{
		client:   client,
		model:    model,
		turnTmpl: tmpl,
		logger:   logger,
	}, nil
}

// Close releases the underlying Gemini client.
func (a *Agent) Close() {
	a.client.Close()
}

// Func adapts the agent to the runner's AgentFunc signature.
func (a *Agent) Func(ctx context.Context) crawlerverse.AgentFunc {
	return func(obs *crawlerverse.Observation) (crawlerverse.Action, error) {
		return a.Decide(ctx, obs)
	}
}

// Decide asks Gemini for the next action. Responses that cannot be parsed
// as a valid action degrade to Wait rather than failing the run.
func (a *Agent) Decide(ctx context.Context, obs *crawlerverse.Observation) (crawlerverse.Action, error) {
	var buf bytes.Buffer
	data := struct{ Observation string }{Observation: FormatObservation(obs)}
	if err := a.turnTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	resp, err := a.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}

	action := parseAction(string(text), a.logger)
	a.logger.Info("decided action",
		"turn", obs.Turn, "action", action.ActionName())
	return action, nil
}

// FormatObservation renders an observation as the turn prompt body.
func FormatObservation(obs *crawlerverse.Observation) string {
	p := obs.Player
	lines := []string{
		fmt.Sprintf("Turn %d | Floor %d", obs.Turn, obs.Floor),
		fmt.Sprintf("HP: %d/%d | ATK: %d | DEF: %d", p.HP, p.MaxHP, p.Attack, p.Defense),
		fmt.Sprintf("Position: %s", p.Position),
	}

	if p.EquippedWeapon != "" {
		lines = append(lines, fmt.Sprintf("Weapon: %s", p.EquippedWeapon))
	}
	if p.EquippedArmor != "" {
		lines = append(lines, fmt.Sprintf("Armor: %s", p.EquippedArmor))
	}

	if len(obs.Inventory) > 0 {
		items := make([]string, 0, len(obs.Inventory))
		for _, item := range obs.Inventory {
			items = append(items, fmt.Sprintf("%s (%s)", item.Name, item.Type))
		}
		lines = append(lines, fmt.Sprintf("Inventory: %s", strings.Join(items, ", ")))
	}

	var passable []string
	for _, d := range crawlerverse.Directions {
		if obs.CanMove(d) {
			passable = append(passable, string(d))
		}
	}
	if len(passable) == 0 {
		passable = []string{"none"}
	}
	lines = append(lines, fmt.Sprintf("Passable directions: %s", strings.Join(passable, ", ")))

	lines = append(lines, "", "Visible tiles:")
	for _, tile := range obs.VisibleTiles {
		parts := []string{fmt.Sprintf("  (%d,%d) %s", tile.X, tile.Y, tile.Type)}
		if tile.Monster != nil {
			parts = append(parts, fmt.Sprintf("[MONSTER: %s HP:%d/%d]",
				tile.Monster.Type, tile.Monster.HP, tile.Monster.MaxHP))
		}
		if len(tile.Items) > 0 {
			parts = append(parts, fmt.Sprintf("[ITEMS: %s]", strings.Join(tile.Items, ", ")))
		}
		lines = append(lines, strings.Join(parts, " "))
	}

	if len(obs.Messages) > 0 {
		lines = append(lines, "", "Messages:")
		for _, msg := range obs.Messages {
			lines = append(lines, "  "+msg)
		}
	}

	return strings.Join(lines, "\n")
}

// parseAction extracts a JSON action from a model reply, falling back to
// Wait when the reply is unusable.
func parseAction(raw string, logger *slog.Logger) crawlerverse.Action {
	text := strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(text, "```"); ok {
		if _, rest, found := strings.Cut(after, "\n"); found {
			text = rest
		} else {
			text = after
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	// Extract the JSON object if it is surrounded by other text.
	if !strings.HasPrefix(text, "{") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start >= 0 && end > start {
			text = text[start : end+1]
		}
	}

	action, err := crawlerverse.DecodeAction([]byte(text))
	if err != nil {
		snippet := text
		if len(snippet) > 100 {
			snippet = snippet[:100]
		}
		logger.Warn("failed to parse model response", "error", err, "response", snippet)
		return crawlerverse.Wait{Reasoning: "Failed to parse response"}
	}
	return action
}
