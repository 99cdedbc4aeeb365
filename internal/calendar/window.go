// Package calendar computes the selectable date window.
package calendar

import "time"

const (
	// WindowDays is the number of selectable dates, today included.
	WindowDays = 7
	// DateLayout is the ISO calendar date format used for date options.
	DateLayout = "2006-01-02"
)

// Window returns days consecutive ISO dates starting at today's local date.
func Window(today time.Time, days int) []string {
	if days <= 0 {
		return nil
	}
	y, m, d := today.Date()
	loc := today.Location()
	out := make([]string, 0, days)
	for i := 0; i < days; i++ {
		// Noon keeps DST shifts from moving the date.
		day := time.Date(y, m, d+i, 12, 0, 0, 0, loc)
		out = append(out, day.Format(DateLayout))
	}
	return out
}
