// Package vbitmap implements a second, independent interpreter of the
// emitted ESC/P2 byte stream: it maintains its own PrinterState and
// rasterizes each recognized opcode onto a pixel buffer, serving as the
// engine's preview surface and testing oracle. It shares no code with
// package render — the two must agree only on their final cursor
// position, which is exactly what makes it useful as an oracle.
package vbitmap

import (
	"github.com/escp2doc/escp2doc/escperr"
	"github.com/escp2doc/escp2doc/font"
	"github.com/escp2doc/escp2doc/printer"
	"github.com/escp2doc/escp2doc/unit"
)

// VirtualPage is one rendered page: an 8-bit grayscale raster, row-major,
// width*height bytes, 0 = black ink, 255 = white paper.
type VirtualPage struct {
	Width, Height int
	Data          []byte
}

func newPage(w, h int) *VirtualPage {
	data := make([]byte, w*h)
	for i := range data {
		data[i] = 255
	}
	return &VirtualPage{Width: w, Height: h, Data: data}
}

func (p *VirtualPage) set(x, y int) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	p.Data[y*p.Width+x] = 0
}

// Interpreter walks an ESC/P2 byte stream with its own PrinterState,
// independent of the one the render emitter used to produce the stream.
type Interpreter struct {
	state *printer.PrinterState
	paper printer.PaperConfig

	horizontalDPI, verticalDPI float64
	scale                      float64

	Pages []*VirtualPage
	page  *VirtualPage
	dirty bool
}

// New constructs an Interpreter for the given paper and pixel resolution.
// scale additionally multiplies both axes, converting dot positions to
// pixels via the configurable horizontalDPI/verticalDPI/scale.
func New(paper printer.PaperConfig, horizontalDPI, verticalDPI, scale float64) *Interpreter {
	it := &Interpreter{
		state:         printer.New(paper),
		paper:         paper,
		horizontalDPI: horizontalDPI,
		verticalDPI:   verticalDPI,
		scale:         scale,
	}
	it.beginPage()
	return it
}

// State exposes the interpreter's PrinterState for the cursor-equality
// invariant assertion against the render emitter's final cursor.
func (it *Interpreter) State() *printer.PrinterState { return it.state }

func (it *Interpreter) pxX(dots unit.Dots) int {
	return int(float64(dots) / unit.DotsPerInch * it.horizontalDPI * it.scale)
}

func (it *Interpreter) pxY(dots unit.Dots) int {
	return int(float64(dots) / unit.DotsPerInch * it.verticalDPI * it.scale)
}

func (it *Interpreter) beginPage() {
	w := it.pxX(unit.Inches(it.paper.WidthInches))
	h := it.pxY(unit.Inches(it.paper.HeightInches))
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	it.page = newPage(w, h)
	it.Pages = append(it.Pages, it.page)
	it.dirty = false
}

// Consume interprets the full byte stream, returning an error only for a
// structurally truncated escape sequence (a genuine bug upstream, not a
// value the printer could ever see on the wire).
func (it *Interpreter) Consume(data []byte) error {
	i := 0
	for i < len(data) {
		b := data[i]
		switch b {
		case 0x1B: // ESC
			n, err := it.consumeEsc(data, i+1)
			if err != nil {
				return err
			}
			i = n
		case 0x0D: // CR
			it.state.CarriageReturn()
			i++
		case 0x0A: // LF
			if it.state.LineFeed() {
				it.beginPage()
			}
			i++
		case 0x0C: // FF
			it.state.FormFeed()
			it.beginPage()
			i++
		case 0x0F: // condensed on
			it.mutateStyle(func(s *printer.Style) { *s = s.WithCondensed(true) })
			i++
		case 0x12: // condensed off
			it.mutateStyle(func(s *printer.Style) { *s = s.WithCondensed(false) })
			i++
		case 0x09: // HT
			it.state.HorizontalTab()
			i++
		default:
			// The wire protocol is single-byte-per-character; recover the
			// rune a code-page byte represents before glyph lookup instead
			// of naively casting the byte to a rune, which would
			// misinterpret CP437 box-drawing codes (0xB3-0xDA).
			if r, ok := font.RuneForCP437(b); ok {
				it.drawChar(r)
			}
			it.dirty = true
			it.state.AdvanceX(1)
			i++
		}
	}
	return nil
}

// consumeEsc parses one ESC-prefixed command starting at data[i] (the byte
// immediately after 0x1B) and returns the index just past it.
func (it *Interpreter) consumeEsc(data []byte, i int) (int, error) {
	if i >= len(data) {
		return 0, escperr.Encodingf("", "truncated escape sequence at end of stream")
	}
	op := data[i]
	i++
	need := func(n int) bool { return i+n <= len(data) }

	switch op {
	case '@':
		it.state.Reset()
		// An initialize on an untouched page reuses it rather than
		// stacking blank pages: repeated ESC @ before any output is
		// idempotent.
		if it.dirty {
			it.beginPage()
		}
		return i, nil
	case 'E':
		it.mutateStyle(func(s *printer.Style) { s.Bold = true })
		return i, nil
	case 'F':
		it.mutateStyle(func(s *printer.Style) { s.Bold = false })
		return i, nil
	case '4':
		it.mutateStyle(func(s *printer.Style) { s.Italic = true })
		return i, nil
	case '5':
		it.mutateStyle(func(s *printer.Style) { s.Italic = false })
		return i, nil
	case '-':
		if !need(1) {
			return 0, escperr.Encodingf("ESC -", "missing underline parameter")
		}
		on := data[i] == 1
		it.mutateStyle(func(s *printer.Style) { s.Underline = on })
		return i + 1, nil
	case 'G':
		it.mutateStyle(func(s *printer.Style) { s.DoubleStrike = true })
		return i, nil
	case 'H':
		it.mutateStyle(func(s *printer.Style) { s.DoubleStrike = false })
		return i, nil
	case 0x0E:
		it.mutateStyle(func(s *printer.Style) { s.DoubleWidth = true })
		return i, nil
	case 'W':
		if !need(1) {
			return 0, escperr.Encodingf("ESC W", "missing double-width parameter")
		}
		on := data[i] != 0
		it.mutateStyle(func(s *printer.Style) { s.DoubleWidth = on })
		return i + 1, nil
	case 'w':
		if !need(1) {
			return 0, escperr.Encodingf("ESC w", "missing double-height parameter")
		}
		on := data[i] != 0
		it.mutateStyle(func(s *printer.Style) { s.DoubleHeight = on })
		return i + 1, nil
	case 'P':
		it.mutateStyle(func(s *printer.Style) { *s = s.WithCPI(printer.CPI10) })
		return i, nil
	case 'M':
		it.mutateStyle(func(s *printer.Style) { *s = s.WithCPI(printer.CPI12) })
		return i, nil
	case 'g':
		it.mutateStyle(func(s *printer.Style) { *s = s.WithCPI(printer.CPI15) })
		return i, nil
	case 'p':
		if !need(1) {
			return 0, escperr.Encodingf("ESC p", "missing proportional parameter")
		}
		return i + 1, nil
	case 'k':
		if !need(1) {
			return 0, escperr.Encodingf("ESC k", "missing typeface parameter")
		}
		tf := font.Typeface(data[i])
		it.mutateStyle(func(s *printer.Style) { *s = s.WithTypeface(tf) })
		return i + 1, nil
	case 'x':
		if !need(1) {
			return 0, escperr.Encodingf("ESC x", "missing quality parameter")
		}
		q := printer.Draft
		if data[i] == 1 {
			q = printer.LQ
		}
		it.mutateStyle(func(s *printer.Style) { *s = s.WithQuality(q) })
		return i + 1, nil
	case '$':
		if !need(2) {
			return 0, escperr.Encodingf("ESC $", "missing position bytes")
		}
		units := int(data[i]) | int(data[i+1])<<8
		it.state.MoveTo(unit.Dots(units*6), it.state.Y)
		return i + 2, nil
	case ' ':
		if !need(1) {
			return 0, escperr.Encodingf("ESC SP", "missing intercharacter space parameter")
		}
		it.state.InterCharSpace = unit.Dots(data[i])
		return i + 1, nil
	case 'J':
		if !need(1) {
			return 0, escperr.Encodingf("ESC J", "missing advance parameter")
		}
		// ESC J is a raw vertical advance: unlike LF it performs no
		// carriage return and never triggers a form feed, so content an
		// emitter deliberately overflows past the bottom margin replays
		// at the same coordinates it was emitted at.
		it.state.Y += unit.Dots(int(data[i]) * 2)
		return i + 1, nil
	case '2':
		it.state.LineSpacing = 60
		return i, nil
	case '0':
		it.state.LineSpacing = 45
		return i, nil
	case '3':
		if !need(1) {
			return 0, escperr.Encodingf("ESC 3", "missing line spacing parameter")
		}
		it.state.LineSpacing = unit.Dots(int(data[i]) * 2)
		return i + 1, nil
	case '+':
		if !need(1) {
			return 0, escperr.Encodingf("ESC +", "missing line spacing parameter")
		}
		it.state.LineSpacing = unit.Dots(data[i])
		return i + 1, nil
	case '*':
		return it.consumeBitImage(data, i)
	case 'R':
		if !need(1) {
			return 0, escperr.Encodingf("ESC R", "missing charset parameter")
		}
		it.state.InternationalCharset = int(data[i])
		return i + 1, nil
	case '(':
		return it.consumeParenthesized(data, i)
	default:
		return i, nil
	}
}

// mutateStyle copies the current style, applies mutate, and writes the
// result back atomically (recomputing HMI), mirroring PrinterState.SetStyle.
func (it *Interpreter) mutateStyle(mutate func(*printer.Style)) {
	s := it.state.Style
	mutate(&s)
	it.state.SetStyle(s)
}

// consumeParenthesized handles ESC ( U (unit select); unrecognized ESC (
// sequences are skipped defensively since their length prefix is still
// decodable.
func (it *Interpreter) consumeParenthesized(data []byte, i int) (int, error) {
	if i >= len(data) {
		return 0, escperr.Encodingf("ESC (", "truncated parenthesized command")
	}
	kind := data[i]
	i++
	if i+2 > len(data) {
		return 0, escperr.Encodingf("ESC (", "missing length bytes")
	}
	length := int(data[i]) | int(data[i+1])<<8
	i += 2
	if i+length > len(data) {
		return 0, escperr.Encodingf("ESC (", "length exceeds remaining stream")
	}
	payload := data[i : i+length]
	if kind == 'U' && len(payload) >= 1 {
		it.state.Units.Horizontal = int(payload[0])
		it.state.Units.Vertical = int(payload[0])
		it.state.Units.PageUnits = int(payload[0])
	}
	return i + length, nil
}

// consumeBitImage parses ESC * m nL nH data... and rasterizes it: per
// column, per byte, per bit, a set bit darkens a pixel, and rows advance
// by 2 dots per pin at the 24-pin pitch.
func (it *Interpreter) consumeBitImage(data []byte, i int) (int, error) {
	if i+3 > len(data) {
		return 0, escperr.Encodingf("ESC *", "missing bit-image header")
	}
	m := data[i]
	width := int(data[i+1]) | int(data[i+2])<<8
	i += 3
	bytesPerCol := bitImageBytesPerColumn(m)
	total := width * bytesPerCol
	if i+total > len(data) {
		return 0, escperr.Encodingf("ESC *", "bit-image payload shorter than declared width")
	}
	payload := data[i : i+total]

	startX, startY := it.state.X, it.state.Y
	for col := 0; col < width; col++ {
		colBytes := payload[col*bytesPerCol : (col+1)*bytesPerCol]
		for byteIdx, bv := range colBytes {
			for bit := 0; bit < 8; bit++ {
				if bv&(1<<uint(7-bit)) == 0 {
					continue
				}
				pin := byteIdx*8 + bit
				dotY := startY + unit.Dots(pin*2)
				dotX := startX + unit.Dots(col)
				it.page.set(it.pxX(dotX), it.pxY(dotY))
			}
		}
	}
	it.dirty = true
	it.state.MoveBy(unit.Dots(width), 0)
	return i + total, nil
}

func bitImageBytesPerColumn(m byte) int {
	switch m {
	case 0, 1, 2, 3:
		return 1 // 8-pin single-density modes
	case 32, 33, 38, 39, 40, 71, 72, 73:
		return 3 // 24/48-pin modes
	default:
		return 1
	}
}

// drawChar rasterizes one printable byte (ASCII or a CP437 box-drawing
// code point already mapped to its rune) at the current cursor, applying
// bold-as-double-strike-offset and underline-as-row-14-run, the same
// cheap approximations a fixed glyph ROM printer uses.
func (it *Interpreter) drawChar(r rune) {
	if r < 0x20 {
		return
	}

	originX := it.pxX(it.state.X)
	originY := it.pxY(it.state.Y)
	scaleX := it.horizontalDPI * it.scale / unit.DotsPerInch
	scaleY := it.verticalDPI * it.scale / unit.DotsPerInch
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}

	pixels := glyphPixels(it.state.Style.Typeface, r, scaleX, scaleY)
	plot := func(dx int) {
		for _, p := range pixels {
			it.page.set(originX+p.dx+dx, originY+p.dy)
		}
	}
	plot(0)
	if it.state.Style.Bold {
		plot(1)
	}
	if it.state.Style.Underline {
		for gx := 0; gx < font.Width; gx++ {
			px := originX + int(float64(gx)*scaleX)
			py := originY + int(14*scaleY)
			it.page.set(px, py)
		}
	}
}
