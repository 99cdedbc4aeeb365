package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/digitdrill/internal/challenge"
)

func TestRenderTilesContainsEveryDigit(t *testing.T) {
	c := challenge.Challenge{
		Digits: "35790",
		Styles: []challenge.DigitStyle{
			{FontSize: 14, Rotation: -10},
			{FontSize: 23, Rotation: 10},
			{FontSize: 18, Rotation: 0},
			{FontSize: 20, Rotation: 5},
			{FontSize: 16, Rotation: -4},
		},
	}
	out := ansi.Strip(renderTiles(c))
	for _, d := range c.Digits {
		if !strings.ContainsRune(out, d) {
			t.Fatalf("digit %c missing in:\n%s", d, out)
		}
	}
}

func TestRenderTilesKeepsOrderOnLevelRow(t *testing.T) {
	styles := make([]challenge.DigitStyle, 5)
	for i := range styles {
		styles[i] = challenge.DigitStyle{FontSize: 14, Rotation: 0}
	}
	out := ansi.Strip(renderTiles(challenge.Challenge{Digits: "35790", Styles: styles}))
	for _, line := range strings.Split(out, "\n") {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, line)
		if digits == "" {
			continue
		}
		if digits != "35790" {
			t.Fatalf("expected digits in order, got %q", digits)
		}
		return
	}
	t.Fatalf("no digit row found in:\n%s", out)
}

func TestTileShiftBounds(t *testing.T) {
	for r := -10; r <= 10; r++ {
		if s := tileShift(r); s < 0 || s > 2 {
			t.Fatalf("rotation %d: shift %d out of range", r, s)
		}
	}
	if tileShift(-10) != 0 || tileShift(10) != 2 {
		t.Fatalf("expected extremes to map to 0 and 2")
	}
}

func TestTilePaddingGrowsWithFontSize(t *testing.T) {
	if tilePadding(14) != 0 || tilePadding(23) != 2 {
		t.Fatalf("unexpected padding: %d / %d", tilePadding(14), tilePadding(23))
	}
}

func TestRenderTilesEmpty(t *testing.T) {
	if renderTiles(challenge.Challenge{}) != "" {
		t.Fatalf("expected empty render for empty challenge")
	}
}
