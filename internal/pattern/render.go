package pattern

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/glyphloop/internal/ir"
)

var (
	waveGlyphs   = []string{"~", "≈", "∿"}
	pulseGlyphs  = []string{"●", "◉", "○"}
	spiralGlyphs = []string{"◢", "◣", "◤", "◥"}
)

// Render produces the frame text for category c at size i.
// Sizes below 1 render as the empty string. Unknown categories render as
// SPIRAL, matching the loop's fallthrough.
func Render(c ir.Category, i int) string {
	if i < 1 {
		return ""
	}

	var s string
	switch c {
	case ir.CategoryWave:
		s = strings.Repeat(waveGlyphs[i%len(waveGlyphs)], i*i)
	case ir.CategoryPulse:
		s = strings.Repeat(pulseGlyphs[i%len(pulseGlyphs)]+" ", i*2)
	default:
		s = strings.Repeat(spiralGlyphs[i%len(spiralGlyphs)], i*3)
	}
	return norm.NFC.String(s)
}

// Length is the rune count of a rendered frame.
func Length(frame string) int {
	return utf8.RuneCountInString(frame)
}

// ExpectedLength returns the rune length Render produces for (c, i)
// without building the string.
func ExpectedLength(c ir.Category, i int) int {
	if i < 1 {
		return 0
	}
	switch c {
	case ir.CategoryWave:
		return i * i
	case ir.CategoryPulse:
		return 4 * i
	default:
		return 3 * i
	}
}
