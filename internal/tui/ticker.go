package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 100 * time.Millisecond

// tickMsg refreshes the elapsed readout. Ticks carrying an old id belong to a
// stopped or replaced run and are dropped.
type tickMsg struct {
	id int
}

// ticker is a cancellable repeating tea.Tick.
type ticker struct {
	id       int
	interval time.Duration
	running  bool
}

func newTicker(interval time.Duration) *ticker {
	return &ticker{interval: interval}
}

// Start cancels any previous run and schedules the first tick of a new one.
func (t *ticker) Start() tea.Cmd {
	t.id++
	t.running = true
	return t.schedule()
}

// Stop cancels the current run. A tick already in flight is dropped on arrival.
func (t *ticker) Stop() {
	t.id++
	t.running = false
}

// Handle reports whether msg belongs to the live run and, if so, schedules the
// next tick.
func (t *ticker) Handle(msg tickMsg) (tea.Cmd, bool) {
	if !t.running || msg.id != t.id {
		return nil, false
	}
	return t.schedule(), true
}

func (t *ticker) schedule() tea.Cmd {
	id := t.id
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}
