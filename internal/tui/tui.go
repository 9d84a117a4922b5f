// Package tui is an interactive terminal client: a human plays a game by
// typing commands, with the local map and player state alongside the
// event log.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	crawlerverse "github.com/crawlerverse/crawlerverse-go"
	"github.com/crawlerverse/crawlerverse-go/diagnostics"
)

type sessionState int

const (
	stateConnecting sessionState = iota
	statePlaying
	stateSubmitting
	stateGameOver
	stateError
)

type model struct {
	state        sessionState
	client       *crawlerverse.Client
	resumeID     string
	gameID       string
	spectatorURL string
	observation  *crawlerverse.Observation
	outcome      crawlerverse.Outcome

	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	err       error
	width     int
	height    int
}

var (
	playerInputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EEEEEE")).
				Background(lipgloss.Color("#5F5F87")).
				Bold(true).
				PaddingLeft(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func newModel(client *crawlerverse.Client, resumeID string) model {
	ti := textinput.New()
	ti.Placeholder = "move north, attack e, use health_potion..."
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 40

	return model{
		state:     stateConnecting,
		client:    client,
		resumeID:  resumeID,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.connect())
}

type gameStartedMsg struct {
	gameID       string
	spectatorURL string
	observation  *crawlerverse.Observation
}

type turnDoneMsg struct {
	observation *crawlerverse.Observation
	outcome     crawlerverse.Outcome
}

type rejectedMsg struct {
	reason string
}

type gameOverMsg struct {
	outcome crawlerverse.Outcome
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state != statePlaying {
				return m, nil
			}
			input := m.textInput.Value()
			if input == "" {
				return m, nil
			}
			m.textInput.Reset()

			if input == "/quit" {
				return m, tea.Quit
			}

			action, err := ParseCommand(input)
			if err != nil {
				m.appendLog(rejectStyle.Render(err.Error()))
				return m, nil
			}

			m.appendLog(playerInputStyle.Width(m.logWidth()).Render("> " + input))
			m.state = stateSubmitting
			return m, m.submit(action)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		m.viewport.SetContent(m.gameLog)

	case gameStartedMsg:
		m.gameID = msg.gameID
		m.spectatorURL = msg.spectatorURL
		m.observation = msg.observation
		m.state = statePlaying
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), m.height-6)
		}
		header := messageStyle.Bold(true).Render("Game " + m.gameID)
		m.gameLog = header
		if m.spectatorURL != "" {
			m.gameLog += "\n" + helpStyle.Render("Watch: "+m.spectatorURL)
		}
		m.appendMessages(msg.observation.Messages)
		m.viewport.SetContent(m.gameLog)
		return m, nil

	case turnDoneMsg:
		m.observation = msg.observation
		m.appendMessages(msg.observation.Messages)
		if msg.outcome.Status() != crawlerverse.StatusInProgress {
			m.outcome = msg.outcome
			m.state = stateGameOver
		} else {
			m.state = statePlaying
		}
		return m, nil

	case rejectedMsg:
		m.appendLog(rejectStyle.Render(msg.reason))
		m.state = statePlaying
		return m, nil

	case gameOverMsg:
		m.outcome = msg.outcome
		m.state = stateGameOver
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) logWidth() int {
	w := int(float64(m.width) * 0.6)
	if w < 20 {
		w = 20
	}
	return w
}

func (m *model) appendLog(line string) {
	m.gameLog += "\n" + line
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m *model) appendMessages(messages []string) {
	for _, msg := range messages {
		m.appendLog(messageStyle.Render(msg))
	}
}

func (m model) View() string {
	switch m.state {
	case stateConnecting:
		return "\n  Connecting...\n"

	case stateError:
		return fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.\n", m.err)

	case stateGameOver:
		var b strings.Builder
		b.WriteString("\n  " + titleStyle.Render("GAME OVER") + "\n\n")
		switch outcome := m.outcome.(type) {
		case crawlerverse.CompletedOutcome:
			b.WriteString(fmt.Sprintf("  Result: %s\n  Floor: %d\n  Turns: %d\n",
				outcome.Result, outcome.Floor, outcome.Turns))
		case crawlerverse.AbandonedOutcome:
			b.WriteString(fmt.Sprintf("  Abandoned: %s\n  Floor: %d\n  Turns: %d\n",
				outcome.Reason, outcome.Floor, outcome.Turns))
		}
		if m.spectatorURL != "" {
			b.WriteString("  Watch replay: " + m.spectatorURL + "\n")
		}
		b.WriteString("\n  Press Esc to quit.\n")
		return b.String()
	}

	logView := m.viewport.View()
	sidebar := m.renderSidebar()
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, logView, sidebar)

	prompt := m.textInput.View()
	if m.state == stateSubmitting {
		prompt = helpStyle.Render("Submitting...")
	}
	help := helpStyle.Render("Commands: move/attack/shoot <dir>, pickup, use/equip/drop <item>, wait, portal, /quit")

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+prompt,
		"\n"+help,
	) + "\n"
}

func (m model) renderSidebar() string {
	if m.observation == nil {
		return ""
	}
	obs := m.observation
	p := obs.Player

	var b strings.Builder
	b.WriteString(titleStyle.Render("MAP") + "\n")
	b.WriteString(diagnostics.RenderMap(obs, 4) + "\n\n")

	b.WriteString(titleStyle.Render("STATUS") + "\n")
	b.WriteString(fmt.Sprintf("Turn %d | Floor %d\n", obs.Turn, obs.Floor))
	b.WriteString(fmt.Sprintf("HP: %d/%d\nATK: %d  DEF: %d\n", p.HP, p.MaxHP, p.Attack, p.Defense))
	if p.EquippedWeapon != "" {
		b.WriteString("Weapon: " + p.EquippedWeapon + "\n")
	}
	if p.EquippedArmor != "" {
		b.WriteString("Armor: " + p.EquippedArmor + "\n")
	}
	b.WriteString("\n" + titleStyle.Render("INVENTORY") + "\n")
	if len(obs.Inventory) == 0 {
		b.WriteString("(empty)")
	} else {
		for _, item := range obs.Inventory {
			b.WriteString("- " + item.Name + "\n")
		}
	}

	sidebarWidth := m.width - m.logWidth() - 4
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	return sidebarStyle.Width(sidebarWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) connect() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if m.resumeID != "" {
			state, err := m.client.GetGame(ctx, m.resumeID)
			if err != nil {
				return errMsg{err}
			}
			if state.Outcome.Status() != crawlerverse.StatusInProgress {
				return gameOverMsg{outcome: state.Outcome}
			}
			obs := state.Observation
			return gameStartedMsg{gameID: m.resumeID, observation: &obs}
		}

		game, err := m.client.CreateGame(ctx, "")
		if err != nil {
			return errMsg{err}
		}
		obs := game.Observation
		return gameStartedMsg{
			gameID:       game.GameID,
			spectatorURL: game.SpectatorURL,
			observation:  &obs,
		}
	}
}

func (m model) submit(action crawlerverse.Action) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.SubmitAction(context.Background(), m.gameID, action)
		if err != nil {
			var invalidErr *crawlerverse.InvalidActionError
			var rateErr *crawlerverse.RateLimitError
			var overErr *crawlerverse.GameOverError
			switch {
			case errors.As(err, &invalidErr):
				return rejectedMsg{reason: fmt.Sprintf("Rejected: %s [%s]", invalidErr.Message, invalidErr.Code)}
			case errors.As(err, &rateErr):
				return rejectedMsg{reason: fmt.Sprintf("Rate limited, try again in %ds", rateErr.RetryAfter)}
			case errors.As(err, &overErr):
				return gameOverMsg{outcome: overErr.Outcome}
			default:
				return errMsg{err}
			}
		}
		obs := result.Observation
		return turnDoneMsg{observation: &obs, outcome: result.Outcome}
	}
}

// Run starts the interactive client. resumeID resumes an existing game
// when non-empty.
func Run(client *crawlerverse.Client, resumeID string) error {
	p := tea.NewProgram(newModel(client, resumeID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
