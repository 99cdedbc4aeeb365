// Package tui provides the Bubble Tea practice screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/digitdrill/internal/challenge"
	"github.com/verte-zerg/digitdrill/internal/drill"
	"github.com/verte-zerg/digitdrill/internal/model"
)

const (
	defaultAdvanceDelay = time.Second
	barWidth            = 30
)

// Recorder journals scored attempts.
type Recorder interface {
	RecordAttempt(ctx context.Context, rec model.AttemptRecord) (int64, error)
}

// advanceMsg asks the drill to move past a resolved round.
type advanceMsg struct {
	round int
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config    model.Config
	drill     *drill.Drill
	recorder  Recorder
	sessionID string
	logger    *slog.Logger
	now       func() time.Time
	clipboard func() (string, error)

	input  textinput.Model
	bar    progress.Model
	help   help.Model
	keys   keyMap
	ticker *ticker

	dateCursor int

	width  int
	height int
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	elapsedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B9BD5")).Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle    = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// NewModel constructs a practice TUI model around d. A nil recorder disables
// journaling; a nil logger discards log output.
func NewModel(cfg model.Config, d *drill.Drill, recorder Recorder, sessionID string, logger *slog.Logger) *Model {
	if cfg.AdvanceDelay <= 0 {
		cfg.AdvanceDelay = defaultAdvanceDelay
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "_____"
	input.CharLimit = challenge.Length
	input.Width = challenge.Length + 1
	input.KeyMap.Paste.SetEnabled(false)
	input.Focus()

	return &Model{
		config:    cfg,
		drill:     d,
		recorder:  recorder,
		sessionID: sessionID,
		logger:    logger,
		now:       time.Now,
		clipboard: clipboard.ReadAll,
		input:     input,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(barWidth)),
		help:      help.New(),
		keys:      defaultKeyMap(),
		ticker:    newTicker(tickInterval),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.ticker.Start())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		cmd, ok := m.ticker.Handle(msg)
		if !ok {
			return m, nil
		}
		m.drill.Tick(m.now())
		return m, cmd
	case advanceMsg:
		if !m.drill.Advance(msg.round, m.now()) {
			m.logger.Debug("dropped stale advance", "round", msg.round)
			return m, nil
		}
		return m, m.beginRound()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncInput()
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	state := m.drill.State()
	var content string
	if state.Phase == drill.PhaseConfirming {
		content = m.renderConfirm()
	} else {
		content = panelStyle.Render(m.renderPractice(state))
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.help.ShortHelpView(m.keys.helpFor(state.Phase))
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.ticker.Stop()
		return m, tea.Quit
	}
	phase := m.drill.State().Phase
	if phase == drill.PhaseConfirming {
		if key.Matches(msg, m.keys.Confirm) {
			return m, m.confirm()
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Reset):
		m.drill.Reset(m.now())
		m.logger.Info("counters reset")
		return m, m.beginRound()
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveDateCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveDateCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		m.drill.SelectDate(m.dateCursor)
		return m, nil
	case key.Matches(msg, m.keys.Pick):
		idx := int(msg.Runes[0] - '1')
		if m.drill.SelectDate(idx) {
			m.dateCursor = idx
		}
		return m, nil
	}
	if phase != drill.PhaseActive {
		return m, nil
	}
	if key.Matches(msg, m.keys.Paste) {
		m.paste()
		return m, nil
	}
	if msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncInput()
	return m, cmd
}

// syncInput stores the field value in the drill and shows back what was kept.
func (m *Model) syncInput() {
	value := m.input.Value()
	if stored := m.drill.SetInput(value); stored != value {
		m.input.SetValue(stored)
		m.input.CursorEnd()
	}
}

func (m *Model) paste() {
	text, err := m.clipboard()
	if err != nil {
		m.logger.Warn("failed to read clipboard", "err", err)
		return
	}
	value := m.input.Value()
	pos := m.input.Position()
	if pos > len(value) {
		pos = len(value)
	}
	stored := m.drill.SetInput(value[:pos] + text + value[pos:])
	m.input.SetValue(stored)
	m.input.CursorEnd()
}

// beginRound restarts the per-round UI after the drill generated a challenge.
func (m *Model) beginRound() tea.Cmd {
	m.input.SetValue("")
	focus := m.input.Focus()
	m.logger.Debug("round started", "round", m.drill.State().Round)
	return tea.Batch(focus, m.ticker.Start())
}

func (m *Model) submit() {
	res, ok := m.drill.Submit(m.now())
	if !ok {
		return
	}
	m.logger.Debug("submission", "round", res.Round, "outcome", res.Outcome)
	switch res.Outcome {
	case drill.OutcomePending:
		m.input.Blur()
	}
	m.record(res)
}

func (m *Model) confirm() tea.Cmd {
	res, ok := m.drill.Confirm(m.now())
	if !ok {
		return nil
	}
	m.logger.Info("round resolved", "round", res.Round, "outcome", res.Outcome, "elapsed_ms", res.Elapsed.Milliseconds())
	m.record(res)
	round := res.Round
	return tea.Tick(m.config.AdvanceDelay, func(time.Time) tea.Msg {
		return advanceMsg{round: round}
	})
}

func (m *Model) record(res drill.Result) {
	if m.recorder == nil {
		return
	}
	rec := model.AttemptRecord{
		SessionID:    m.sessionID,
		CreatedAt:    m.now(),
		Round:        res.Round,
		Challenge:    res.Challenge,
		Input:        res.Input,
		SelectedDate: res.Date,
		Outcome:      string(res.Outcome),
		ElapsedMs:    res.Elapsed.Milliseconds(),
	}
	if _, err := m.recorder.RecordAttempt(context.Background(), rec); err != nil {
		m.logger.Error("failed to record attempt", "err", err, "round", res.Round)
	}
}

func (m *Model) moveDateCursor(delta int) {
	count := len(m.drill.State().Dates)
	if count == 0 {
		return
	}
	next := m.dateCursor + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.dateCursor = next
}

func (m *Model) renderPractice(state drill.State) string {
	ratio := state.Elapsed.Seconds() / m.drill.Deadline().Seconds()
	if ratio > 1 {
		ratio = 1
	}
	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Digit drill"),
		elapsedStyle.Render(fmt.Sprintf("Elapsed: %ss", drill.FormatSeconds(state.Elapsed))),
		m.bar.ViewAs(ratio),
	)
	entry := lipgloss.JoinHorizontal(lipgloss.Center,
		renderTiles(state.Challenge),
		"   ",
		lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(m.input.View()),
	)
	sections := []string{header, "", entry, "", m.renderDates(state)}
	if status := m.renderStatus(state); status != "" {
		sections = append(sections, "", status)
	}
	sections = append(sections, "", m.renderFooter(state))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m *Model) renderDates(state drill.State) string {
	lines := make([]string, 0, len(state.Dates))
	for i, date := range state.Dates {
		marker := "  "
		if i == m.dateCursor {
			marker = cursorStyle.Render("› ")
		}
		style := dateStyle
		if date == state.SelectedDate {
			style = selectedStyle
		}
		lines = append(lines, marker+style.Render(date))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus(state drill.State) string {
	var lines []string
	if state.Message != "" {
		style := messageStyle
		switch state.Message {
		case drill.MessageInvalid, drill.MessageTimeout:
			style = errorStyle
		case drill.MessageSuccess:
			style = successStyle
		}
		lines = append(lines, style.Render(state.Message))
	}
	if state.HasTimeTaken {
		lines = append(lines, elapsedStyle.Render(fmt.Sprintf("Time taken: %ss", drill.FormatSeconds(state.TimeTaken))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter(state drill.State) string {
	return footerStyle.Render(fmt.Sprintf("Successes: %d / Attempts: %d", state.Successes, state.Attempts))
}

func (m *Model) renderConfirm() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"Submit this answer?",
		"",
		cursorStyle.Render("[y] Yes"),
	)
	return modalStyle.Render(content)
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(runes) > 0
}
