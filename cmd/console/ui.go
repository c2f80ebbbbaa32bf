package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nightdial/sunrise-engine/pkg/engine"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

const PlaceHolderText = "Speak your next move..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	snap         *state.Snapshot
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	lines        []string
	ready        bool
	width        int
	height       int
	err          error
	gameOver     bool

	events       <-chan engine.Event
	cancelStream context.CancelFunc

	showQuitModal bool
	copiedNotice  bool
}

type outcomeMsg struct {
	outcome *engine.Outcome
	err     error
}

type tickMsg struct {
	snap *state.Snapshot
	err  error
}

type streamStartedMsg struct {
	events <-chan engine.Event
	cancel context.CancelFunc
	err    error
}

type eventMsg struct {
	event engine.Event
	open  bool
}

type clockTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")). // violet
			Bold(true)

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, snap *state.Snapshot) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		snap:         snap,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: metaVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.startStream(), scheduleClockTick(m.config.TickEvery), textarea.Blink)
}

func (m ConsoleUI) startStream() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		events, err := subscribeEvents(ctx, m.config.APIBaseURL, m.snap.ID)
		if err != nil {
			cancel()
			return streamStartedMsg{err: err}
		}
		return streamStartedMsg{events: events, cancel: cancel}
	}
}

func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, open := <-events
		return eventMsg{event: ev, open: open}
	}
}

func scheduleClockTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}

func (m ConsoleUI) sendTranscriptCmd(transcript string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := sendTranscript(m.client, m.config.APIBaseURL, m.snap.ID, transcript)
		return outcomeMsg{outcome, err}
	}
}

func (m ConsoleUI) tickCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := sendTick(m.client, m.config.APIBaseURL, m.snap.ID, m.config.TickMinutes)
		return tickMsg{snap, err}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(m.snap.ID.String()); err == nil {
				m.copiedNotice = true
				m.metaViewport.SetContent(m.writeMetadata())
			}
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.gameOver {
				return m, nil
			}
			m.textarea.Reset()
			m.appendLine(playerStyle.Render("You: ") + input)
			return m, m.sendTranscriptCmd(input)
		}

	case streamStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.appendLine(errorStyle.Render("Event stream unavailable: " + msg.err.Error()))
			return m, nil
		}
		m.events = msg.events
		m.cancelStream = msg.cancel
		return m, waitForEvent(m.events)

	case eventMsg:
		if !msg.open {
			return m, nil
		}
		m.handleEvent(msg.event)
		return m, waitForEvent(m.events)

	case outcomeMsg:
		if msg.err != nil {
			m.appendLine(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.applyOutcome(msg.outcome)
		}
		return m, nil

	case tickMsg:
		if msg.err == nil && msg.snap != nil {
			m.snap = msg.snap
			m.metaViewport.SetContent(m.writeMetadata())
			if msg.snap.Outcome != state.OutcomeNone || !msg.snap.IsAlive {
				m.gameOver = true
			}
		}
		if m.gameOver {
			return m, nil
		}
		return m, scheduleClockTick(m.config.TickEvery)

	case clockTickMsg:
		if m.gameOver {
			return m, nil
		}
		return m, m.tickCmd()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) layout() {
	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

// handleEvent folds one streamed event into the log and the side panel
func (m *ConsoleUI) handleEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventNarration:
		if line, ok := ev.Data["line"].(string); ok {
			m.appendLine(narrationStyle.Render(line))
		}
	case engine.EventFearChange:
		m.appendLine(warnStyle.Render(fmt.Sprintf("Fear shifts: %s", ev.NewFearState)))
	case engine.EventHealthChange:
		m.appendLine(warnStyle.Render(fmt.Sprintf("Health shifts: %s", ev.NewHealthState)))
	case engine.EventNight:
		style := warnStyle
		if ev.Interrupt {
			style = dangerStyle
		}
		if n, ok := ev.Data["narration"].(string); ok {
			m.appendLine(style.Render(n))
		}
	case engine.EventSessionEnded:
		m.gameOver = true
		if ev.Data["outcome"] == string(state.OutcomeSurvived) {
			m.appendLine(titleStyle.Render("SUNRISE. You survived the night."))
		} else {
			m.appendLine(dangerStyle.Render("You didn't make it to morning."))
		}
	}

	if ev.State.ID == m.snap.ID {
		snap := ev.State
		m.snap = &snap
		m.metaViewport.SetContent(m.writeMetadata())
	}
}

func (m *ConsoleUI) applyOutcome(out *engine.Outcome) {
	snap := out.State
	m.snap = &snap
	m.metaViewport.SetContent(m.writeMetadata())

	switch {
	case out.Dropped:
		m.appendLine(promptStyle.Render("(" + out.DropReason + ")"))
	case out.Detail != "":
		m.appendLine(narrationStyle.Render(out.Detail))
	case out.Applied:
		m.appendLine(promptStyle.Render(fmt.Sprintf("(%s, %.0f%% sure)",
			out.Parsed.Action, out.Parsed.Confidence*100)))
	}
}

func (m *ConsoleUI) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.writeLogContent()
}

func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6
	if logWidth < 20 {
		logWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SURVIVE UNTIL SUNRISE") + "\n\n")
	content.WriteString("Speak (type) your actions. Make it to 06:00.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth)) + "\n\n")

	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, logWidth) + "\n\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("NIGHT STATUS") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(m.snap.ID.String()[:8] + "...\n")
	if m.copiedNotice {
		content.WriteString(promptStyle.Render("(copied)") + "\n")
	}
	content.WriteString("\n")

	content.WriteString(fmt.Sprintf("Clock: %s\n\n", m.snap.CurrentTime))

	content.WriteString(fmt.Sprintf("Fear: %s\n", m.snap.FearState))
	content.WriteString(renderBar(m.snap.FearLevel, 14) + "\n\n")

	content.WriteString(fmt.Sprintf("Health: %s\n", m.snap.HealthState))
	content.WriteString(renderBar(m.snap.Health, 14) + "\n\n")

	content.WriteString("Location:\n")
	content.WriteString(m.snap.Location + "\n\n")

	content.WriteString("Inventory:\n")
	if len(m.snap.Inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range m.snap.Inventory {
			label := item.Name
			if item.IsActive {
				label += " (on)"
			}
			content.WriteString("• " + label + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Speak\n")
	content.WriteString("• Ctrl+Y: Copy ID\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func renderBar(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	filled := int(level / 100 * float64(width))

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m.quit()
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) quit() (tea.Model, tea.Cmd) {
	if m.cancelStream != nil {
		m.cancelStream()
	}
	return m, tea.Quit
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Abandon the night?"))
	content.WriteString("\n\n")
	content.WriteString("The house will still be here tomorrow.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
