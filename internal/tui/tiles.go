package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/digitdrill/internal/challenge"
)

var tilePalette = []lipgloss.Color{"#F0F0F0", "#E6D3A3", "#C89A3A", "#A7C7E7", "#D8A7B1"}

// tileShift maps a rotation in [-10,10] to a vertical offset in rows.
func tileShift(rotation int) int {
	shift := (rotation + 10) / 7
	if shift < 0 {
		return 0
	}
	if shift > 2 {
		return 2
	}
	return shift
}

// tilePadding maps a font size in [14,23] to horizontal padding.
func tilePadding(fontSize int) int {
	pad := (fontSize - 14) / 4
	if pad < 0 {
		return 0
	}
	return pad
}

func tileBorder(rotation int) lipgloss.Border {
	switch {
	case rotation > 3:
		return lipgloss.RoundedBorder()
	case rotation < -3:
		return lipgloss.ThickBorder()
	default:
		return lipgloss.NormalBorder()
	}
}

func renderTile(digit byte, style challenge.DigitStyle) string {
	color := tilePalette[(style.FontSize+style.Rotation+10)%len(tilePalette)]
	s := lipgloss.NewStyle().
		Border(tileBorder(style.Rotation)).
		BorderForeground(lipgloss.Color("#6E6E6E")).
		Foreground(color).
		Bold(style.FontSize >= 19).
		Padding(0, tilePadding(style.FontSize)).
		MarginTop(tileShift(style.Rotation))
	return s.Render(string(digit))
}

// renderTiles draws the distorted digit row for a challenge.
func renderTiles(c challenge.Challenge) string {
	if c.Digits == "" {
		return ""
	}
	tiles := make([]string, 0, len(c.Digits))
	for i := 0; i < len(c.Digits); i++ {
		style := challenge.DigitStyle{FontSize: 14}
		if i < len(c.Styles) {
			style = c.Styles[i]
		}
		tiles = append(tiles, renderTile(c.Digits[i], style))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
