// Package report exports practice statistics as a PDF document.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/verte-zerg/digitdrill/internal/stats"
)

// Write renders rep as a PDF and writes it to w.
func Write(w io.Writer, rep stats.Report, window int, generatedAt time.Time) error {
	pdf := build(rep, window, generatedAt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// WriteFile renders rep as a PDF file at path.
func WriteFile(path string, rep stats.Report, window int, generatedAt time.Time) error {
	pdf := build(rep, window, generatedAt)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf %s: %w", path, err)
	}
	return nil
}

func build(rep stats.Report, window int, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Digit drill report: %s", generatedAt.Format("2006-01-02")))
	pdf.Ln(12)

	if len(rep.Sessions) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, "No sessions found.")
		return pdf
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	for _, line := range stats.SummaryLines(rep.Sessions) {
		pdf.Cell(0, 8, line)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Sessions")
	pdf.Ln(10)
	headers, rows := stats.SessionTable(rep.Sessions)
	widths := []float64{38, 22, 24, 22, 20, 22, 22}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rep.Successes) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, fmt.Sprintf("Success time (moving avg, window %d)", window))
		pdf.Ln(10)
		drawCurve(pdf, rep, window)
	}
	return pdf
}

// drawCurve plots the moving average of success times as a polyline.
func drawCurve(pdf *fpdf.Fpdf, rep stats.Report, window int) {
	values := make([]float64, len(rep.Successes))
	for i, s := range rep.Successes {
		values[i] = float64(s.ElapsedMs) / 1000.0
	}
	values = stats.MovingAverage(values, window)

	const (
		chartWidth  = 170.0
		chartHeight = 50.0
	)
	left, top := pdf.GetX(), pdf.GetY()
	pdf.SetDrawColor(160, 160, 160)
	pdf.Rect(left, top, chartWidth, chartHeight, "D")

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	step := 0.0
	if len(values) > 1 {
		step = chartWidth / float64(len(values)-1)
	}
	pdf.SetDrawColor(91, 155, 213)
	pdf.SetLineWidth(0.5)
	prevX, prevY := 0.0, 0.0
	for i, v := range values {
		x := left + float64(i)*step
		y := top + chartHeight - (v/maxVal)*chartHeight
		if i > 0 {
			pdf.Line(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}
	pdf.SetLineWidth(0.2)
	pdf.SetY(top + chartHeight + 4)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("max %.2fs, latest %.2fs", maxVal, values[len(values)-1]))
}
