// Package drill holds the practice state machine: challenge rounds, submissions,
// confirmation and scoring against the deadline.
package drill

import (
	"fmt"
	"time"

	"github.com/verte-zerg/digitdrill/internal/challenge"
)

// DefaultDeadline is the time allowed from presentation to confirmation.
const DefaultDeadline = 5 * time.Second

// Feedback messages shown after a submission or confirmation.
const (
	MessageInvalid = "Digits or date are incorrect. Try again!"
	MessageSuccess = "Success! Moving on to the next number."
	MessageTimeout = "Time is up! Try again."
)

// Phase is the position of the current round in its lifecycle.
type Phase string

const (
	PhaseActive     Phase = "active"
	PhaseConfirming Phase = "confirming"
	PhaseResolved   Phase = "resolved"
)

// Outcome classifies a submission or confirmation.
type Outcome string

const (
	OutcomeInvalid Outcome = "invalid"
	OutcomePending Outcome = "pending"
	OutcomeSuccess Outcome = "success"
	OutcomeTimeout Outcome = "timeout"
)

// Generator produces a fresh challenge for each round.
type Generator interface {
	Generate() challenge.Challenge
}

// State is a snapshot of everything the practice screen renders.
type State struct {
	Round     int
	Challenge challenge.Challenge
	Dates     []string

	Input        string
	SelectedDate string
	Message      string
	TimeTaken    time.Duration
	HasTimeTaken bool
	Phase        Phase

	StartedAt        time.Time
	ConfirmStartedAt time.Time
	Elapsed          time.Duration

	Successes int
	Attempts  int
}

// Result describes a scored event, suitable for journaling.
type Result struct {
	Outcome   Outcome
	Round     int
	Challenge string
	Input     string
	Date      string
	Elapsed   time.Duration
}

// Drill owns the practice state. It is not safe for concurrent use; the
// caller drives it from a single event loop.
type Drill struct {
	gen      Generator
	deadline time.Duration
	state    State
}

// New constructs a Drill and generates the first round at now.
func New(gen Generator, dates []string, deadline time.Duration, now time.Time) *Drill {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	d := &Drill{
		gen:      gen,
		deadline: deadline,
		state: State{
			Dates: append([]string(nil), dates...),
		},
	}
	d.Generate(now)
	return d
}

// State returns a copy of the current state.
func (d *Drill) State() State {
	s := d.state
	s.Dates = append([]string(nil), d.state.Dates...)
	s.Challenge.Styles = append([]challenge.DigitStyle(nil), d.state.Challenge.Styles...)
	return s
}

// Deadline returns the configured scoring deadline.
func (d *Drill) Deadline() time.Duration {
	return d.deadline
}

// Generate starts a new round: a fresh challenge, cleared attempt fields and a
// new presentation time. Counters are kept.
func (d *Drill) Generate(now time.Time) {
	s := &d.state
	s.Round++
	s.Challenge = d.gen.Generate()
	s.Input = ""
	s.SelectedDate = ""
	s.Message = ""
	s.TimeTaken = 0
	s.HasTimeTaken = false
	s.Phase = PhaseActive
	s.StartedAt = now
	s.ConfirmStartedAt = time.Time{}
	s.Elapsed = 0
}

// SetInput replaces the typed input, keeping only digits up to the challenge
// length. It returns the value actually stored.
func (d *Drill) SetInput(input string) string {
	if d.state.Phase != PhaseActive {
		return d.state.Input
	}
	buf := make([]byte, 0, challenge.Length)
	for i := 0; i < len(input) && len(buf) < challenge.Length; i++ {
		if input[i] >= '0' && input[i] <= '9' {
			buf = append(buf, input[i])
		}
	}
	d.state.Input = string(buf)
	return d.state.Input
}

// SelectDate selects the date at index i of the window. Out-of-range indexes
// and selections outside an active round are ignored.
func (d *Drill) SelectDate(i int) bool {
	if d.state.Phase != PhaseActive {
		return false
	}
	if i < 0 || i >= len(d.state.Dates) {
		return false
	}
	d.state.SelectedDate = d.state.Dates[i]
	return true
}

// Submit evaluates the typed input and date. Every accepted submission counts
// as an attempt. A match with a selected date opens the confirmation step;
// anything else sets the invalid message. Submissions outside an active round
// are ignored and report false.
func (d *Drill) Submit(now time.Time) (Result, bool) {
	s := &d.state
	if s.Phase != PhaseActive {
		return Result{}, false
	}
	s.Attempts++
	res := d.result(now)
	if s.Input == s.Challenge.Digits && s.SelectedDate != "" {
		s.Phase = PhaseConfirming
		s.ConfirmStartedAt = now
		s.Message = ""
		res.Outcome = OutcomePending
		return res, true
	}
	s.Message = MessageInvalid
	res.Outcome = OutcomeInvalid
	return res, true
}

// Confirm scores the pending submission. The duration runs from the round's
// presentation, not from when confirmation opened.
func (d *Drill) Confirm(now time.Time) (Result, bool) {
	s := &d.state
	if s.Phase != PhaseConfirming {
		return Result{}, false
	}
	res := d.result(now)
	if res.Elapsed <= d.deadline {
		s.Successes++
		s.TimeTaken = res.Elapsed
		s.HasTimeTaken = true
		s.Message = MessageSuccess
		res.Outcome = OutcomeSuccess
	} else {
		s.Message = MessageTimeout
		res.Outcome = OutcomeTimeout
	}
	s.Phase = PhaseResolved
	s.ConfirmStartedAt = time.Time{}
	return res, true
}

// Advance moves a resolved round on to a new challenge. Requests for any
// round other than the current one are stale and ignored.
func (d *Drill) Advance(round int, now time.Time) bool {
	if round != d.state.Round || d.state.Phase != PhaseResolved {
		return false
	}
	d.Generate(now)
	return true
}

// Reset zeroes the counters and starts a new round from any phase.
func (d *Drill) Reset(now time.Time) {
	d.state.Successes = 0
	d.state.Attempts = 0
	d.Generate(now)
}

// Tick refreshes the elapsed display value. It has no effect on scoring.
func (d *Drill) Tick(now time.Time) time.Duration {
	d.state.Elapsed = since(d.state.StartedAt, now)
	return d.state.Elapsed
}

func (d *Drill) result(now time.Time) Result {
	return Result{
		Round:     d.state.Round,
		Challenge: d.state.Challenge.Digits,
		Input:     d.state.Input,
		Date:      d.state.SelectedDate,
		Elapsed:   since(d.state.StartedAt, now),
	}
}

func since(start, now time.Time) time.Duration {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return now.Sub(start)
}

// FormatSeconds renders a duration as seconds with two decimals.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
