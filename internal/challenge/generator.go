// Package challenge builds digit challenges and their tile distortions.
package challenge

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	// Length is the number of digits in a challenge.
	Length = 5

	minFontSize   = 14
	fontSizeSpan  = 10
	maxRotation   = 10
	rotationSpan  = 2*maxRotation + 1
	digitAlphabet = 10
)

// DigitStyle describes how a single digit tile is distorted.
type DigitStyle struct {
	FontSize int
	Rotation int
}

// Challenge is a string of distinct digits with one style per digit.
type Challenge struct {
	Digits string
	Styles []DigitStyle
}

// Generator produces randomized challenges.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate draws Length distinct digits in random order and a style for each.
// A shuffle of the ten digits is truncated, so the draw never retries.
func (g *Generator) Generate() Challenge {
	perm := g.rnd.Perm(digitAlphabet)[:Length]
	var b strings.Builder
	styles := make([]DigitStyle, 0, Length)
	for _, d := range perm {
		b.WriteString(strconv.Itoa(d))
		styles = append(styles, DigitStyle{
			FontSize: minFontSize + g.rnd.Intn(fontSizeSpan),
			Rotation: g.rnd.Intn(rotationSpan) - maxRotation,
		})
	}
	return Challenge{Digits: b.String(), Styles: styles}
}

// Valid reports whether digits is Length distinct decimal digits.
func Valid(digits string) bool {
	if len(digits) != Length {
		return false
	}
	var seen [digitAlphabet]bool
	for i := 0; i < len(digits); i++ {
		ch := digits[i]
		if ch < '0' || ch > '9' {
			return false
		}
		if seen[ch-'0'] {
			return false
		}
		seen[ch-'0'] = true
	}
	return true
}
