// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/digitdrill/internal/model"
)

// sessionNumericCols are right-aligned in the per-session table.
var sessionNumericCols = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}

// SessionTable returns the headers and rows of the per-session table.
func SessionTable(sessions []model.SessionAggregate) ([]string, [][]string) {
	headers := []string{"Started", "Attempts", "Successes", "Timeouts", "Rate", "Best (s)", "Avg (s)"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rate, avg := SessionMetrics(s.Successes, s.Attempts, s.SuccessSumMs)
		best, avgLabel := "-", "-"
		if s.Successes > 0 {
			best = fmt.Sprintf("%.2f", float64(s.BestSuccessMs)/1000.0)
			avgLabel = fmt.Sprintf("%.2f", avg)
		}
		rows = append(rows, []string{
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d", s.Successes),
			fmt.Sprintf("%d", s.Timeouts),
			fmt.Sprintf("%.1f%%", rate*100),
			best,
			avgLabel,
		})
	}
	return headers, rows
}

// RenderSessionTable prints per-session aggregates.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers, rows := SessionTable(sessions)
	for _, line := range formatTable(headers, rows, sessionNumericCols) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}


func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
