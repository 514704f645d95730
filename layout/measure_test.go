package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

func TestMeasureTextWidthAtCPI10(t *testing.T) {
	st := printer.DefaultStyle() // CPI10 -> HMI 36
	w := layout.MeasureText("hello", st)
	assert.Equal(t, 5*36, w)
}

func TestMeasureTextEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0, layout.MeasureText("", printer.DefaultStyle()))
}

func TestMeasureTextAddsInterCharSpace(t *testing.T) {
	st := printer.DefaultStyle()
	st.InterCharSpace = 4
	w := layout.MeasureText("ab", st)
	assert.Equal(t, 2*36+4, w)
}

func TestMeasureTextDoubleWidthDoublesAdvance(t *testing.T) {
	st := printer.DefaultStyle().WithDoubleWidth(true)
	w := layout.MeasureText("ab", st)
	assert.Equal(t, 2*36*2, w)
}

func TestTextAdvanceAppliesInterCharSpaceAfterEveryGlyph(t *testing.T) {
	st := printer.DefaultStyle().WithInterCharSpace(4)
	// The printed width ends at the last glyph, but the cursor keeps
	// moving through the trailing intercharacter space.
	assert.Equal(t, 2*36+4, layout.MeasureText("ab", st))
	assert.Equal(t, 2*(36+4), layout.TextAdvance("ab", st))
	assert.Equal(t, 0, layout.TextAdvance("", st))
}

func TestWrapTextBreaksAtWordBoundaries(t *testing.T) {
	st := printer.DefaultStyle() // HMI 36, so maxWidth 36*10 fits 10 chars
	lines := layout.WrapText("the quick brown fox", st, 36*10)
	for _, l := range lines {
		assert.LessOrEqual(t, layout.MeasureText(l, st), 36*10)
	}
	assert.Greater(t, len(lines), 1)
}

func TestWrapTextSplitsOverlongWord(t *testing.T) {
	st := printer.DefaultStyle()
	lines := layout.WrapText("supercalifragilisticexpialidocious", st, 36*5)
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 5)
	}
}

func TestWrapTextNonPositiveWidthReturnsUnwrapped(t *testing.T) {
	lines := layout.WrapText("anything here", printer.DefaultStyle(), 0)
	assert.Equal(t, []string{"anything here"}, lines)
}

func TestWrapTextPreservesExplicitNewlines(t *testing.T) {
	st := printer.DefaultStyle()
	lines := layout.WrapText("one\ntwo", st, 36*20)
	assert.Equal(t, []string{"one", "two"}, lines)
}
