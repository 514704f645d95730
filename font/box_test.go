package font_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escp2doc/escp2doc/font"
)

func TestRunesForEachStyleAreDistinctWithinAStyle(t *testing.T) {
	for _, style := range []font.BoxStyle{font.BoxSingle, font.BoxDouble, font.BoxASCII} {
		r := font.RunesFor(style)
		seen := map[rune]bool{}
		for _, piece := range []rune{r.TopLeft, r.TopRight, r.BottomLeft, r.BottomRight, r.Horizontal, r.Vertical, r.TDown, r.TUp, r.TRight, r.TLeft, r.Cross} {
			seen[piece] = true
		}
		if style == font.BoxASCII {
			// ASCII fallback intentionally collapses every corner/junction to '+'.
			assert.Equal(t, 3, len(seen), "ascii style should have 3 distinct glyphs (+, -, |)")
			continue
		}
		assert.Equal(t, 11, len(seen), "style %v should use 11 distinct box-drawing runes", style)
	}
}

func TestSupportsBoxDrawingRecognizesKnownCodePages(t *testing.T) {
	for _, cp := range []string{"CP437", "CP850", "CP865", "CP860", "CP863"} {
		assert.True(t, font.SupportsBoxDrawing(cp), "%s should support box drawing", cp)
	}
	assert.False(t, font.SupportsBoxDrawing("CP1252"))
	assert.False(t, font.SupportsBoxDrawing(""))
}

func TestGlyphsForCrossHasAllFourStrokes(t *testing.T) {
	g := font.GlyphsFor(font.BoxSingle)
	mid := font.Width / 2
	for y := 0; y < font.Height; y++ {
		assert.True(t, g.Cross.Bit(mid, y), "cross glyph's vertical stroke should be solid at row %d", y)
	}
	midY := font.Height / 2
	for x := 0; x < font.Width; x++ {
		assert.True(t, g.Cross.Bit(x, midY), "cross glyph's horizontal stroke should be solid at column %d", x)
	}
}

func TestGlyphsForTopLeftHasNoLeftOrTopStroke(t *testing.T) {
	g := font.GlyphsFor(font.BoxSingle)
	midY := font.Height / 2
	midX := font.Width / 2
	// topLeft connects down and right only; the cell above the midpoint row
	// and left of the midpoint column should be blank.
	assert.False(t, g.TopLeft.Bit(midX, 0))
	assert.False(t, g.TopLeft.Bit(0, midY))
	assert.True(t, g.TopLeft.Bit(midX, font.Height-1))
	assert.True(t, g.TopLeft.Bit(font.Width-1, midY))
}
