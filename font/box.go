package font

// BoxStyle selects a border character set for table and grid borders.
type BoxStyle int

const (
	BoxSingle BoxStyle = iota
	BoxDouble
	BoxASCII
)

// BoxGlyphs names the eleven box-drawing pieces used to assemble borders
// and table dividers.
type BoxGlyphs struct {
	TopLeft, TopRight       Glyph
	BottomLeft, BottomRight Glyph
	Horizontal, Vertical    Glyph
	TDown, TUp              Glyph
	TRight, TLeft           Glyph
	Cross                   Glyph
}

// BoxRunes is the character-mode equivalent of BoxGlyphs: the box-drawing
// runes (each with a single-byte CP437 code, see CP437Byte) a printer with a box-drawing-capable character table (CP437,
// CP850, CP865, and related) prints directly instead of falling back to
// graphics mode.
type BoxRunes struct {
	TopLeft, TopRight       rune
	BottomLeft, BottomRight rune
	Horizontal, Vertical    rune
	TDown, TUp              rune
	TRight, TLeft           rune
	Cross                   rune
}

// RunesFor returns the box-drawing runes for the given style: Unicode
// box-drawing characters that CP437Byte encodes for BoxSingle and
// BoxDouble, plain ASCII for BoxASCII.
func RunesFor(style BoxStyle) BoxRunes {
	switch style {
	case BoxDouble:
		return BoxRunes{
			TopLeft: '╔', TopRight: '╗',
			BottomLeft: '╚', BottomRight: '╝',
			Horizontal: '═', Vertical: '║',
			TDown: '╦', TUp: '╩',
			TRight: '╠', TLeft: '╣',
			Cross: '╬',
		}
	case BoxASCII:
		return BoxRunes{
			TopLeft: '+', TopRight: '+',
			BottomLeft: '+', BottomRight: '+',
			Horizontal: '-', Vertical: '|',
			TDown: '+', TUp: '+',
			TRight: '+', TLeft: '+',
			Cross: '+',
		}
	default: // BoxSingle
		return BoxRunes{
			TopLeft: '┌', TopRight: '┐',
			BottomLeft: '└', BottomRight: '┘',
			Horizontal: '─', Vertical: '│',
			TDown: '┬', TUp: '┴',
			TRight: '├', TLeft: '┤',
			Cross: '┼',
		}
	}
}

// addBoxGlyphs inserts style's eleven box-drawing pieces into glyphs,
// keyed by the same runes RunesFor(style) hands out, so the virtual
// bitmap renderer's glyph lookup (by rune) finds a real cell instead of
// falling back to blank for any box-drawing character actually emitted.
func addBoxGlyphs(glyphs map[rune]Glyph, style BoxStyle) {
	runes := RunesFor(style)
	pieces := GlyphsFor(style)
	glyphs[runes.TopLeft] = pieces.TopLeft
	glyphs[runes.TopRight] = pieces.TopRight
	glyphs[runes.BottomLeft] = pieces.BottomLeft
	glyphs[runes.BottomRight] = pieces.BottomRight
	glyphs[runes.Horizontal] = pieces.Horizontal
	glyphs[runes.Vertical] = pieces.Vertical
	glyphs[runes.TDown] = pieces.TDown
	glyphs[runes.TUp] = pieces.TUp
	glyphs[runes.TRight] = pieces.TRight
	glyphs[runes.TLeft] = pieces.TLeft
	glyphs[runes.Cross] = pieces.Cross
}

// SupportsBoxDrawing reports whether the given character table name
// renders box-drawing glyphs natively (CP437/CP850/CP865 and related code
// pages); anything else must fall back to graphics-mode borders.
func SupportsBoxDrawing(charTable string) bool {
	switch charTable {
	case "CP437", "CP850", "CP865", "CP860", "CP863":
		return true
	default:
		return false
	}
}

// boxMidX/boxMidY are the glyph cell's middle column and row; box pieces are generated
// procedurally rather than hand-tabulated since they are pure geometry:
// a stripe down the middle column, the middle row, or both, clipped to
// the half of the cell each connector reaches.
const (
	boxMidX = Width / 2
	boxMidY = Height / 2
)

func boxGlyph(top, bottom, left, right bool) Glyph {
	var g Glyph
	if top {
		for y := 0; y <= boxMidY; y++ {
			setPixel(&g, boxMidX, y)
		}
	}
	if bottom {
		for y := boxMidY; y < Height; y++ {
			setPixel(&g, boxMidX, y)
		}
	}
	if left {
		for x := 0; x <= boxMidX; x++ {
			setPixel(&g, x, boxMidY)
		}
	}
	if right {
		for x := boxMidX; x < Width; x++ {
			setPixel(&g, x, boxMidY)
		}
	}
	return g
}

// GlyphsFor builds the pixel-level box-drawing glyph set that addBoxGlyphs
// registers in every typeface table, so the virtual bitmap renderer can
// draw box-drawing characters. The graphics-mode borders in package table
// use their own corner/line bitmaps, not these glyphs.
func GlyphsFor(style BoxStyle) BoxGlyphs {
	double := style == BoxDouble
	_ = double // every style, BoxDouble included, gets the same
	// single-stripe cell; double lines are not drawn with double strokes.
	return BoxGlyphs{
		TopLeft:     boxGlyph(false, true, false, true),
		TopRight:    boxGlyph(false, true, true, false),
		BottomLeft:  boxGlyph(true, false, false, true),
		BottomRight: boxGlyph(true, false, true, false),
		Horizontal:  boxGlyph(false, false, true, true),
		Vertical:    boxGlyph(true, true, false, false),
		TDown:       boxGlyph(false, true, true, true),
		TUp:         boxGlyph(true, false, true, true),
		TRight:      boxGlyph(true, true, false, true),
		TLeft:       boxGlyph(true, true, true, false),
		Cross:       boxGlyph(true, true, true, true),
	}
}
