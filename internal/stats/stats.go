// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/digitdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Totals aggregates counters across sessions.
type Totals struct {
	Sessions      int
	Attempts      int
	Successes     int
	Timeouts      int
	SuccessSumMs  int64
	BestSuccessMs int64
}

// SessionMetrics computes the success rate and average success time in seconds.
func SessionMetrics(successes, attempts int, successSumMs int64) (rate, avgSeconds float64) {
	if attempts > 0 {
		rate = float64(successes) / float64(attempts)
	}
	if successes > 0 {
		avgSeconds = float64(successSumMs) / float64(successes) / 1000.0
	}
	return rate, avgSeconds
}

// Sum totals the given session aggregates.
func Sum(sessions []model.SessionAggregate) Totals {
	t := Totals{Sessions: len(sessions)}
	for _, s := range sessions {
		t.Attempts += s.Attempts
		t.Successes += s.Successes
		t.Timeouts += s.Timeouts
		t.SuccessSumMs += s.SuccessSumMs
		if s.Successes > 0 && (t.BestSuccessMs == 0 || s.BestSuccessMs < t.BestSuccessMs) {
			t.BestSuccessMs = s.BestSuccessMs
		}
	}
	return t
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// SummaryLines formats the headline numbers for a set of sessions.
func SummaryLines(sessions []model.SessionAggregate) []string {
	t := Sum(sessions)
	rate, avg := SessionMetrics(t.Successes, t.Attempts, t.SuccessSumMs)
	best := "-"
	if t.BestSuccessMs > 0 {
		best = fmt.Sprintf("%.2fs", float64(t.BestSuccessMs)/1000.0)
	}
	avgLabel := "-"
	if t.Successes > 0 {
		avgLabel = fmt.Sprintf("%.2fs", avg)
	}
	return []string{
		fmt.Sprintf("Sessions: %d", t.Sessions),
		fmt.Sprintf("Attempts: %d", t.Attempts),
		fmt.Sprintf("Successes: %d", t.Successes),
		fmt.Sprintf("Timeouts: %d", t.Timeouts),
		fmt.Sprintf("Success rate: %.1f%%", rate*100),
		fmt.Sprintf("Best time: %s", best),
		fmt.Sprintf("Avg time: %s", avgLabel),
	}
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	for _, line := range SummaryLines(sessions) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurve prints a sparkline of the moving average of success times,
// cut to the last width samples when width is positive.
func RenderCurve(w io.Writer, samples []model.SuccessSample, window, width int) error {
	if len(samples) == 0 {
		return nil
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s.ElapsedMs) / 1000.0
	}
	values = MovingAverage(values, window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if _, err := fmt.Fprintf(w, "Success time (moving avg, window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(values)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "latest %.2fs\n", values[len(values)-1])
	return err
}
