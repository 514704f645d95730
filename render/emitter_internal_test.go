package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escp2doc/escp2doc/escp"
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

func TestRoundDiv6RoundsToNearestUnit(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"exact", 60, 10},
		{"rounds_up", 63, 11}, // 63/6 = 10.5 -> rounds away from zero
		{"rounds_down", 62, 10},
		{"zero", 0, 0},
		{"negative_rounds_away_from_zero", -63, -11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, roundDiv6(tc.in))
		})
	}
}

func TestDiffStyleEmitsOnlyChangedFields(t *testing.T) {
	base := printer.DefaultStyle()
	assert.Empty(t, diffStyle(base, base))

	bold := base.WithBold(true)
	assert.Equal(t, escp.Bold(true), diffStyle(base, bold))

	underline := base.WithUnderline(true)
	assert.Equal(t, escp.Underline(1), diffStyle(base, underline))

	cpi := base.WithCPI(printer.CPI15)
	assert.Equal(t, escp.CPIMicron(), diffStyle(base, cpi))

	spaced := base.WithInterCharSpace(4)
	assert.Equal(t, escp.InterCharSpace(4), diffStyle(base, spaced))
}

func TestDiffStyleClampsInterCharSpaceToTheCommandRange(t *testing.T) {
	base := printer.DefaultStyle()
	assert.Equal(t, escp.InterCharSpace(127), diffStyle(base, base.WithInterCharSpace(500)))
}

func TestDiffStyleEmitsInDeclarationOrderWhenMultipleFieldsChange(t *testing.T) {
	base := printer.DefaultStyle()
	next := base.WithBold(true).WithItalic(true)
	out := diffStyle(base, next)
	assert.Equal(t, append(escp.Bold(true), escp.Italic(true)...), out)
}

func TestEncodeRunesPassesThroughASCIIAndFallsBackOnUnmapped(t *testing.T) {
	assert.Equal(t, []byte("abc"), encodeRunes("abc"))
	assert.Equal(t, []byte{'?'}, encodeRunes("é")) // unmapped rune
}

func TestEncodeRunesMapsBoxDrawingToCP437(t *testing.T) {
	out := encodeRunes("─") // BOX DRAWINGS LIGHT HORIZONTAL
	require := out
	assert.Len(t, require, 1)
	assert.NotEqual(t, byte('?'), require[0])
}

func TestDitherNoneThresholdsAtMidGray(t *testing.T) {
	img := &layout.Image{Width: 2, Height: 1, Pixels: []uint8{0, 255}, Dithering: layout.DitherNone}
	out := dither(img)
	assert.Equal(t, []bool{true, false}, out)
}

func TestDitherOrderedProducesFullLengthMask(t *testing.T) {
	img := &layout.Image{Width: 4, Height: 4, Pixels: make([]uint8, 16), Dithering: layout.DitherOrdered}
	out := dither(img)
	assert.Len(t, out, 16)
}

func TestDitherFloydSteinbergProducesFullLengthMask(t *testing.T) {
	pixels := make([]uint8, 9)
	for i := range pixels {
		pixels[i] = 128
	}
	img := &layout.Image{Width: 3, Height: 3, Pixels: pixels, Dithering: layout.DitherFloydSteinberg}
	out := dither(img)
	assert.Len(t, out, 9)
}

func TestBitImageForProducesThreeBytesPerColumnStripe(t *testing.T) {
	img := &layout.Image{Width: 1, Height: 24, Pixels: make([]uint8, 24), Dithering: layout.DitherNone}
	for i := range img.Pixels {
		img.Pixels[i] = 0 // all black -> every bit set
	}
	data := bitImageFor(img)
	// ESC * m nL nH header is 5 bytes, followed by cols*rows*3 = 1*1*3 payload bytes.
	assert.Equal(t, 5+3, len(data))
}
