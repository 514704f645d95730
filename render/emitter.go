// Package render implements the stateful render emitter: flatten the
// paginated layout tree, sort per page by (y, x) with DOM-order
// tiebreak, and walk the result emitting state-diffed ESC/P2 bytes.
package render

import (
	"sort"

	"github.com/escp2doc/escp2doc/barcode"
	"github.com/escp2doc/escp2doc/escp"
	"github.com/escp2doc/escp2doc/font"
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

// Diagnostic records a non-fatal clamp applied while encoding an item: a
// warning rather than an abort. The emitter returns these as values
// instead of logging them, so callers can surface or discard them as
// they see fit.
type Diagnostic struct {
	Page      int
	ItemIndex int
	Field     string
	Original  int
	Clamped   int
}

// renderItem is one flattened leaf, in the original document-order
// encounter sequence (the DOM-order tiebreak sort key).
type renderItem struct {
	x, y  int
	w, h  int
	style printer.Style
	node  layout.Node
	order int
}

// flatten recursively descends a placed subtree, collecting leaf nodes
// (Text, Line, Image, Barcode) in document order. Spacer and container
// nodes contribute no payload of their own.
func flatten(p *layout.Placed, order *int, out *[]renderItem) {
	if p == nil {
		return
	}
	switch p.Node.(type) {
	case *layout.Text, *layout.Line, *layout.Image, *layout.Barcode:
		*out = append(*out, renderItem{x: p.X, y: p.Y, w: p.W, h: p.H, style: p.Style, node: p.Node, order: *order})
		*order++
		return
	}
	for _, c := range p.Children {
		flatten(c, order, out)
	}
}

// Emit renders the full paginated document to a single ESC/P2 byte stream,
// separating pages with a form feed, and returns any clamp diagnostics
// accumulated along the way. The cursor model matches the printer's: after
// ESC @ (and after every form feed) the print position sits at the paper's
// top/left margin, so content at the margin needs no positioning command.
func Emit(pages []layout.Page, paper printer.PaperConfig) ([]byte, []Diagnostic, error) {
	var out []byte
	var diags []Diagnostic

	out = append(out, escp.Initialize()...)
	cur := printer.DefaultStyle()
	styleInitialized := false
	originX, originY := int(paper.Margins.Left), int(paper.Margins.Top)

	for pi, page := range pages {
		if pi > 0 {
			out = append(out, escp.FormFeed()...)
		}
		var items []renderItem
		order := 0
		for _, it := range page.Items {
			flatten(it, &order, &items)
		}
		sort.SliceStable(items, func(a, b int) bool {
			if items[a].y != items[b].y {
				return items[a].y < items[b].y
			}
			if items[a].x != items[b].x {
				return items[a].x < items[b].x
			}
			return items[a].order < items[b].order
		})

		currentX, currentY := originX, originY
		for ii, item := range items {
			if item.y > currentY {
				out = append(out, escp.AdvanceVertical(item.y-currentY)...)
				currentY = item.y
			}
			if abs(item.x-currentX) > 1 {
				units := roundDiv6(item.x)
				bytes, clamped := escp.AbsoluteHorizontalPosition(units)
				out = append(out, bytes...)
				if clamped {
					original := units
					if units < 0 {
						units = 0
					} else {
						units = 0xFFFF
					}
					diags = append(diags, Diagnostic{Page: pi, ItemIndex: ii, Field: "x", Original: original, Clamped: units})
				}
				// Track the position the command actually lands on: ESC $
				// positions on a 1/60" grid, so the commanded X can sit up
				// to 3 dots off the ideal item coordinate.
				currentX = units * 6
			}

			if !styleInitialized || item.style != cur {
				out = append(out, diffStyle(cur, item.style)...)
				cur = item.style
				styleInitialized = true
			}

			payload, width, err := encodePayload(item.node, item.style, item.w, item.h)
			if err != nil {
				return nil, diags, err
			}
			out = append(out, payload...)
			currentX += width
		}
	}
	return out, diags, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// roundDiv6 converts a dot coordinate at 360 DPI into the 1/60" units
// ESC $ positions in, rounding to nearest.
func roundDiv6(x int) int {
	if x < 0 {
		return (x - 3) / 6
	}
	return (x + 3) / 6
}

// diffStyle emits the on/off byte sequence for every style attribute that
// changed between prev and next, diffing against the current font state
// rather than re-emitting every attribute on each item.
func diffStyle(prev, next printer.Style) []byte {
	var out []byte
	if prev.Bold != next.Bold {
		out = append(out, escp.Bold(next.Bold)...)
	}
	if prev.Italic != next.Italic {
		out = append(out, escp.Italic(next.Italic)...)
	}
	if prev.Underline != next.Underline {
		n := byte(0)
		if next.Underline {
			n = 1
		}
		out = append(out, escp.Underline(n)...)
	}
	if prev.DoubleStrike != next.DoubleStrike {
		out = append(out, escp.DoubleStrike(next.DoubleStrike)...)
	}
	if prev.DoubleWidth != next.DoubleWidth {
		out = append(out, escp.DoubleWidth(next.DoubleWidth)...)
	}
	if prev.DoubleHeight != next.DoubleHeight {
		out = append(out, escp.DoubleHeight(next.DoubleHeight)...)
	}
	if prev.Condensed != next.Condensed {
		out = append(out, escp.Condensed(next.Condensed)...)
	}
	if prev.CPI != next.CPI {
		switch next.CPI {
		case printer.CPI10:
			out = append(out, escp.CPIPica()...)
		case printer.CPI12:
			out = append(out, escp.CPIElite()...)
		case printer.CPI15:
			out = append(out, escp.CPIMicron()...)
		}
	}
	if prev.Typeface != next.Typeface {
		out = append(out, escp.Typeface(byte(next.Typeface))...)
	}
	if prev.Quality != next.Quality {
		out = append(out, escp.Quality(next.Quality == printer.LQ)...)
	}
	if prev.InterCharSpace != next.InterCharSpace {
		n := next.InterCharSpace
		if n < 0 {
			n = 0
		}
		if n > 127 {
			n = 127
		}
		out = append(out, escp.InterCharSpace(byte(n))...)
	}
	return out
}

// encodePayload emits one leaf's content bytes and reports the horizontal
// dots it advances the cursor by, so Emit can keep currentX in sync
// without a second measurement pass.
func encodePayload(n layout.Node, st printer.Style, boxW, boxH int) (payload []byte, width int, err error) {
	switch t := n.(type) {
	case *layout.Text:
		return encodeRunes(t.Content), layout.TextAdvance(t.Content, st), nil

	case *layout.Line:
		ch := t.Char
		if ch == 0 {
			ch = '-'
		}
		adv := st.HMI()
		if st.DoubleWidth {
			adv *= 2
		}
		adv += st.InterCharSpace
		// Fill lines carry no length of their own; the layout box decides
		// how far the repeat runs.
		length := t.Length
		if t.Fill || length <= 0 {
			length = boxW
		}
		count := 0
		if adv > 0 {
			count = length / adv
		}
		s := make([]rune, count)
		for i := range s {
			s[i] = ch
		}
		return encodeRunes(string(s)), count * adv, nil

	case *layout.Image:
		scaled := scaleToBox(t, boxW, boxH)
		b := bitImageFor(scaled)
		return b, scaled.Width, nil

	case *layout.Barcode:
		b, err := barcode.Encode(t)
		if err != nil {
			return nil, 0, err
		}
		return b, t.ModuleWidth * len(t.Data) * 11, nil

	default:
		return nil, 0, nil
	}
}

// encodeRunes maps each rune in s to its single-byte wire code point (CP437
// for the supported box-drawing repertoire, verbatim for printable ASCII),
// falling back to '?' for anything outside that repertoire. The wire
// protocol is single-byte per character; encoding runes straight through
// Go's UTF-8 string conversion would split a box-drawing glyph into
// multiple wire bytes, so this builds the byte sequence directly rather
// than handing escp.Text a rune-keyed string.
func encodeRunes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := font.CP437Byte(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// bitImageFor renders an Image node's pixel buffer into an ESC * 24-pin
// bit-image command, applying the node's dithering mode.
func bitImageFor(img *layout.Image) []byte {
	cols := img.Width
	rows := (img.Height + 23) / 24
	data := make([]byte, 0, cols*rows*3)
	threshold := dither(img)
	for col := 0; col < cols; col++ {
		for stripe := 0; stripe < rows; stripe++ {
			var b0, b1, b2 byte
			for bit := 0; bit < 24; bit++ {
				py := stripe*24 + bit
				if py >= img.Height {
					break
				}
				if !threshold[py*cols+col] {
					continue
				}
				switch {
				case bit < 8:
					b0 |= 1 << (7 - uint(bit))
				case bit < 16:
					b1 |= 1 << (7 - uint(bit-8))
				default:
					b2 |= 1 << (7 - uint(bit-16))
				}
			}
			data = append(data, b0, b1, b2)
		}
	}
	const mode24Pin = 33
	return escp.BitImage(mode24Pin, cols, data)
}

// dither converts an Image's grayscale samples into a 1-bit mask per the
// node's Dithering mode.
func dither(img *layout.Image) []bool {
	out := make([]bool, len(img.Pixels))
	switch img.Dithering {
	case layout.DitherFloydSteinberg:
		errs := make([]float64, len(img.Pixels))
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := y*img.Width + x
				v := float64(img.Pixels[i]) + errs[i]
				on := v < 128
				out[i] = on
				var quantErr float64
				if on {
					quantErr = v - 0
				} else {
					quantErr = v - 255
				}
				distribute(errs, img.Width, img.Height, x, y, quantErr)
			}
		}
	case layout.DitherOrdered:
		for i, v := range img.Pixels {
			x, y := i%img.Width, i/img.Width
			t := orderedMatrix[y%4][x%4]
			out[i] = int(v) < t
		}
	default: // DitherNone, DitherThreshold
		for i, v := range img.Pixels {
			out[i] = v < 128
		}
	}
	return out
}

// orderedMatrix is the standard 4x4 Bayer dither threshold map, scaled to
// the 0-255 grayscale range.
var orderedMatrix = [4][4]int{
	{16, 144, 48, 176},
	{208, 80, 240, 112},
	{64, 192, 32, 160},
	{255, 128, 224, 96},
}

func distribute(errs []float64, w, h, x, y int, e float64) {
	add := func(dx, dy int, factor float64) {
		nx, ny := x+dx, y+dy
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			return
		}
		errs[ny*w+nx] += e * factor
	}
	add(1, 0, 7.0/16)
	add(-1, 1, 3.0/16)
	add(0, 1, 5.0/16)
	add(1, 1, 1.0/16)
}
