package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/digitdrill/internal/model"
)

type fakeSource struct {
	sessions  []model.SessionAggregate
	successes []model.SuccessSample
	err       error
}

func (f fakeSource) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.sessions, f.err
}

func (f fakeSource) ListSuccesses(context.Context, []string) ([]model.SuccessSample, error) {
	return f.successes, nil
}

func sampleSource() fakeSource {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return fakeSource{
		sessions: []model.SessionAggregate{
			{SessionID: "a", StartedAt: start, DeadlineMs: 5000, Attempts: 4, Successes: 2, Timeouts: 1, SuccessSumMs: 5000, BestSuccessMs: 2000},
			{SessionID: "b", StartedAt: start.Add(time.Hour), DeadlineMs: 5000, Attempts: 2, Successes: 2, SuccessSumMs: 3000, BestSuccessMs: 1200},
		},
		successes: []model.SuccessSample{
			{SessionID: "a", ElapsedMs: 3000},
			{SessionID: "a", ElapsedMs: 2000},
			{SessionID: "b", ElapsedMs: 1800},
			{SessionID: "b", ElapsedMs: 1200},
		},
	}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := ansi.Strip(m.View())
	for _, want := range []string{"Overview", "Sessions", "66.7%", "1.20s", "window=2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestSessionsTab(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	if m.activeTab != tabSessions {
		t.Fatalf("expected sessions tab, got %d", m.activeTab)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Attempts") || !strings.Contains(view, "100.0%") {
		t.Fatalf("expected session rows in view:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap, got %d", m.activeTab)
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := NewModel(sampleSource(), model.StatsConfig{CurveWindow: 10})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}})
	if m.cfg.CurveWindow != 15 {
		t.Fatalf("expected window 15, got %d", m.cfg.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
}

func TestEmptyAndFailingSources(t *testing.T) {
	m := NewModel(fakeSource{}, model.StatsConfig{CurveWindow: 10})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(ansi.Strip(m.View()), "No sessions found.") {
		t.Fatalf("expected empty message")
	}

	m = NewModel(fakeSource{err: errors.New("boom")}, model.StatsConfig{CurveWindow: 10})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Failed to load stats.") || !strings.Contains(view, "boom") {
		t.Fatalf("expected failure in view:\n%s", view)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(fakeSource{}, model.StatsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("next(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prev(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}

func TestFitLinesTruncatesAndPads(t *testing.T) {
	out := fitLines("abcdef\nxy", 4, 3)
	want := "abcd\nxy  \n    "
	if out != want {
		t.Fatalf("fitLines = %q, want %q", out, want)
	}
}
