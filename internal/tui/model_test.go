package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/digitdrill/internal/challenge"
	"github.com/verte-zerg/digitdrill/internal/drill"
	"github.com/verte-zerg/digitdrill/internal/model"
)

var testDates = []string{
	"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04",
	"2024-03-05", "2024-03-06", "2024-03-07",
}

type fixedGen struct {
	digits string
}

func (g fixedGen) Generate() challenge.Challenge {
	styles := make([]challenge.DigitStyle, len(g.digits))
	for i := range styles {
		styles[i] = challenge.DigitStyle{FontSize: 14}
	}
	return challenge.Challenge{Digits: g.digits, Styles: styles}
}

type memRecorder struct {
	records []model.AttemptRecord
	err     error
}

func (r *memRecorder) RecordAttempt(_ context.Context, rec model.AttemptRecord) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.records = append(r.records, rec)
	return int64(len(r.records)), nil
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestModel(t *testing.T, rec Recorder) (*Model, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	d := drill.New(fixedGen{digits: "13579"}, testDates, drill.DefaultDeadline, clk.t)
	m := NewModel(model.Config{AdvanceDelay: time.Millisecond}, d, rec, "session-1", nil)
	m.now = clk.now
	return m, clk
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeDigits(m *Model, digits string) {
	for _, r := range digits {
		m.Update(runes(string(r)))
	}
}

func TestModelSuccessfulRound(t *testing.T) {
	rec := &memRecorder{}
	m, clk := newTestModel(t, rec)

	typeDigits(m, "13579")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	clk.t = clk.t.Add(2 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.drill.State().Phase; got != drill.PhaseConfirming {
		t.Fatalf("expected confirming phase, got %s", got)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Submit this answer?") {
		t.Fatalf("expected confirmation dialog in view")
	}

	clk.t = clk.t.Add(500 * time.Millisecond)
	_, cmd := m.Update(runes("y"))
	state := m.drill.State()
	if state.Message != drill.MessageSuccess {
		t.Fatalf("expected success message, got %q", state.Message)
	}
	if state.Successes != 1 || state.Attempts != 1 {
		t.Fatalf("expected 1/1, got %d/%d", state.Successes, state.Attempts)
	}
	if len(rec.records) != 2 {
		t.Fatalf("expected submit and confirm records, got %d", len(rec.records))
	}
	if pending := rec.records[0]; pending.Outcome != string(drill.OutcomePending) || pending.ElapsedMs != 2000 {
		t.Fatalf("unexpected submit record: %+v", pending)
	}
	got := rec.records[1]
	if got.Outcome != string(drill.OutcomeSuccess) || got.ElapsedMs != 2500 || got.SelectedDate != testDates[0] {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.SessionID != "session-1" || got.Challenge != "13579" || got.Input != "13579" {
		t.Fatalf("unexpected record identity: %+v", got)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Time taken: 2.50s") {
		t.Fatalf("expected time taken in view:\n%s", view)
	}

	if cmd == nil {
		t.Fatalf("expected advance command")
	}
	msg, ok := cmd().(advanceMsg)
	if !ok {
		t.Fatalf("expected advanceMsg")
	}
	m.Update(msg)
	state = m.drill.State()
	if state.Round != 2 || state.Phase != drill.PhaseActive {
		t.Fatalf("expected round 2 active, got %d %s", state.Round, state.Phase)
	}
	if m.input.Value() != "" || state.Message != "" {
		t.Fatalf("expected cleared round, got input %q message %q", m.input.Value(), state.Message)
	}
}

func TestModelTimeoutAfterDeadline(t *testing.T) {
	rec := &memRecorder{}
	m, clk := newTestModel(t, rec)

	typeDigits(m, "13579")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	clk.t = clk.t.Add(6 * time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	state := m.drill.State()
	if state.Message != drill.MessageTimeout {
		t.Fatalf("expected timeout message, got %q", state.Message)
	}
	if state.Successes != 0 || state.Attempts != 1 {
		t.Fatalf("expected 0/1, got %d/%d", state.Successes, state.Attempts)
	}
	if len(rec.records) != 2 || rec.records[1].Outcome != string(drill.OutcomeTimeout) {
		t.Fatalf("expected timeout record, got %+v", rec.records)
	}
}

func TestModelInvalidSubmission(t *testing.T) {
	rec := &memRecorder{}
	m, _ := newTestModel(t, rec)

	typeDigits(m, "13579")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	state := m.drill.State()
	if state.Phase != drill.PhaseActive {
		t.Fatalf("expected active phase, got %s", state.Phase)
	}
	if state.Message != drill.MessageInvalid || state.Attempts != 1 {
		t.Fatalf("expected invalid attempt, got %q attempts %d", state.Message, state.Attempts)
	}
	if len(rec.records) != 1 || rec.records[0].Outcome != string(drill.OutcomeInvalid) {
		t.Fatalf("expected invalid record, got %+v", rec.records)
	}
}

func TestModelIgnoresNonDigitInput(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m.Update(runes("a"))
	typeDigits(m, "12")
	m.Update(runes("x"))
	typeDigits(m, "3456")

	if got := m.drill.State().Input; got != "12345" {
		t.Fatalf("expected input 12345, got %q", got)
	}
	if got := m.input.Value(); got != "12345" {
		t.Fatalf("expected field value 12345, got %q", got)
	}
}

func TestModelDateCursorAndPick(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.dateCursor != len(testDates)-1 {
		t.Fatalf("expected cursor to wrap to last date, got %d", m.dateCursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := m.drill.State().SelectedDate; got != testDates[6] {
		t.Fatalf("expected %s selected, got %s", testDates[6], got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true})
	if got := m.drill.State().SelectedDate; got != testDates[2] {
		t.Fatalf("expected %s selected, got %s", testDates[2], got)
	}
	if m.dateCursor != 2 {
		t.Fatalf("expected cursor to follow pick, got %d", m.dateCursor)
	}
}

func TestModelDropsStaleAdvance(t *testing.T) {
	m, _ := newTestModel(t, nil)

	typeDigits(m, "13579")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(runes("y"))
	if cmd == nil {
		t.Fatalf("expected advance command")
	}
	stale := cmd()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if got := m.drill.State().Round; got != 2 {
		t.Fatalf("expected reset to start round 2, got %d", got)
	}
	typeDigits(m, "135")

	m.Update(stale)
	state := m.drill.State()
	if state.Round != 2 || state.Input != "135" {
		t.Fatalf("stale advance changed round: round %d input %q", state.Round, state.Input)
	}
	if state.Successes != 0 || state.Attempts != 0 {
		t.Fatalf("expected reset counters, got %d/%d", state.Successes, state.Attempts)
	}
}

func TestModelTickUpdatesElapsed(t *testing.T) {
	m, clk := newTestModel(t, nil)
	m.Init()

	clk.t = clk.t.Add(1500 * time.Millisecond)
	_, cmd := m.Update(tickMsg{id: m.ticker.id})
	if cmd == nil {
		t.Fatalf("expected next tick to be scheduled")
	}
	if !strings.Contains(ansi.Strip(m.View()), "Elapsed: 1.50s") {
		t.Fatalf("expected elapsed readout in view")
	}

	clk.t = clk.t.Add(time.Second)
	if _, cmd := m.Update(tickMsg{id: m.ticker.id - 1}); cmd != nil {
		t.Fatalf("expected stale tick to be dropped")
	}
	if got := m.drill.State().Elapsed; got != 1500*time.Millisecond {
		t.Fatalf("expected elapsed unchanged by stale tick, got %v", got)
	}
}

func TestModelFooterCounters(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	typeDigits(m, "99999")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Successes: 0 / Attempts: 1") {
		t.Fatalf("expected counters in view:\n%s", view)
	}
	if !strings.Contains(view, drill.MessageInvalid) {
		t.Fatalf("expected invalid message in view:\n%s", view)
	}
}

func TestModelRecorderFailureKeepsDrilling(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	m, _ := newTestModel(t, rec)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.drill.State().Attempts; got != 1 {
		t.Fatalf("expected attempt to count despite journal failure, got %d", got)
	}
}

func TestModelQuitStopsTicker(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Init()
	live := tickMsg{id: m.ticker.id}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if _, cmd := m.Update(live); cmd != nil {
		t.Fatalf("expected tick after quit to be dropped")
	}
}

func TestModelQuitDuringConfirmKeepsSubmission(t *testing.T) {
	rec := &memRecorder{}
	m, _ := newTestModel(t, rec)

	typeDigits(m, "13579")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if got := m.drill.State().Attempts; got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
	if len(rec.records) != 1 || rec.records[0].Outcome != string(drill.OutcomePending) {
		t.Fatalf("expected pending record, got %+v", rec.records)
	}
}

func TestModelPasteGoesThroughDrill(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.clipboard = func() (string, error) { return "13579", nil }

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := m.drill.State().Input; got != "13579" {
		t.Fatalf("expected drill input 13579, got %q", got)
	}
	if got := m.input.Value(); got != "13579" {
		t.Fatalf("expected field value 13579, got %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.drill.State().Phase; got != drill.PhaseConfirming {
		t.Fatalf("expected pasted digits to reach confirmation, got %s", got)
	}
}

func TestModelPasteKeepsOnlyDigits(t *testing.T) {
	m, _ := newTestModel(t, nil)
	typeDigits(m, "1")
	m.clipboard = func() (string, error) { return "a3-5 79 11", nil }

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := m.drill.State().Input; got != "13579" {
		t.Fatalf("expected drill input 13579, got %q", got)
	}
	if got := m.input.Value(); got != "13579" {
		t.Fatalf("expected field value 13579, got %q", got)
	}
}

func TestModelPasteClipboardError(t *testing.T) {
	m, _ := newTestModel(t, nil)
	typeDigits(m, "13")
	m.clipboard = func() (string, error) { return "", errors.New("no clipboard") }

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := m.drill.State().Input; got != "13" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestModelFieldStaysInSyncWithDrill(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.input.SetValue("9x8")

	m.Update(struct{}{})
	if got := m.input.Value(); got != "98" {
		t.Fatalf("expected field resynced to 98, got %q", got)
	}
	if got := m.drill.State().Input; got != "98" {
		t.Fatalf("expected drill input 98, got %q", got)
	}
}
