// Package table composes a borders-and-cells layout tree for tabular
// content: a top border row, a header row, a header separator,
// alternating data/separator rows, and a bottom border row. It chooses
// between character-mode borders (precomposed box-drawing glyphs, when the
// active character table supports them) and a 120 DPI graphics-mode
// fallback built from synthetic line/corner bitmaps, then hands the result
// to the ordinary layout.Flex/Stack solver and pagination — table/ builds
// Nodes, it does not render bytes itself.
package table

import (
	"github.com/escp2doc/escp2doc/escperr"
	"github.com/escp2doc/escp2doc/font"
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

// BorderMode selects a table's border renderer.
type BorderMode int

const (
	// BorderAuto picks BorderChar when CharTable supports box-drawing
	// glyphs (font.SupportsBoxDrawing), BorderGraphics otherwise.
	BorderAuto BorderMode = iota
	BorderChar
	BorderGraphics
)

// ColumnWidth mirrors layout.GridColumn's width resolution: fixed dots,
// percentages, auto, or fill.
type ColumnWidth struct {
	Kind layout.ColumnWidthKind
	Dots int
	Pct  float64
}

// Column is one table column: its header text and width resolution.
type Column struct {
	Header string
	Width  ColumnWidth
}

// Row is one data row: one cell string per column, sharing a style.
type Row struct {
	Cells []string
	Style printer.Style
}

// Spec describes a complete table for Build.
type Spec struct {
	Columns     []Column
	Rows        []Row
	BorderStyle font.BoxStyle
	Mode        BorderMode
	CharTable   string // active character table name; decides BorderAuto
	CPI         printer.CPI
	HeaderStyle printer.Style
}

// lineThicknessDots is the graphics-mode border stroke width.
const lineThicknessDots = 1

// cornerSizeDots is the graphics-mode corner/line cell's square extent.
const cornerSizeDots = 6

// graphicsRowHeightDots is 24/180" expressed at the module's 360 DPI base
// grid, so stripes abut without overlap (24/180*360 = 48 dots).
const graphicsRowHeightDots = 48

// charsToDotsAt120DPI converts a character count at the given CPI into the
// equivalent 120 DPI graphics-mode dot extent.
func charsToDotsAt120DPI(chars int, cpi printer.CPI) int {
	c := float64(cpi)
	if c <= 0 {
		c = float64(printer.CPI10)
	}
	return int(float64(chars)*120/c + 0.5)
}

func resolveMode(spec Spec) BorderMode {
	if spec.Mode != BorderAuto {
		return spec.Mode
	}
	if font.SupportsBoxDrawing(spec.CharTable) {
		return BorderChar
	}
	return BorderGraphics
}

func columnItemStyle(w ColumnWidth) layout.ItemStyle {
	switch w.Kind {
	case layout.ColWidthFixed:
		return layout.ItemStyle{Width: w.Dots}
	case layout.ColWidthPercent:
		// Percentage widths translate to flexGrow equal to the percentage
		// value when rendering with vertical borders.
		return layout.ItemStyle{FlexGrow: w.Pct * 100}
	case layout.ColWidthFill:
		return layout.ItemStyle{FlexGrow: 1}
	default: // ColWidthAuto
		return layout.ItemStyle{}
	}
}

// Build composes spec into an atomic-row Stack ready for layout.Layout and
// layout.Paginate. Each row is wrapped KeepTogether so pagination never
// splits a table row, the same atomicity grid rows get.
func Build(spec Spec) (*layout.Stack, error) {
	if len(spec.Columns) == 0 {
		return nil, escperr.Validationf("columns", len(spec.Columns), "table requires at least one column")
	}
	for i, row := range spec.Rows {
		if len(row.Cells) != len(spec.Columns) {
			return nil, escperr.Validationf("rows[*].cells", len(row.Cells), "row %d has %d cells, want %d", i, len(row.Cells), len(spec.Columns))
		}
	}

	var rows []layout.Child
	switch resolveMode(spec) {
	case BorderChar:
		rows = buildCharRows(spec)
	default:
		rows = buildGraphicsRows(spec)
	}

	return &layout.Stack{Direction: layout.Column, Children: rows}, nil
}

func headerCells(spec Spec) []string {
	out := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		out[i] = c.Header
	}
	return out
}

// --- character mode -------------------------------------------------

func borderCellWidth(spec Spec) int {
	st := printer.Style{CPI: spec.CPI}
	return st.HMI()
}

func buildCharRows(spec Spec) []layout.Child {
	runes := font.RunesFor(spec.BorderStyle)
	borderW := borderCellWidth(spec)

	borderCell := func(r rune) layout.Child {
		return layout.Child{Node: &layout.Text{Content: string(r)}, Style: layout.ItemStyle{Width: borderW}}
	}
	borderRow := func(left, right, mid rune) layout.Child {
		children := []layout.Child{borderCell(left)}
		for i, col := range spec.Columns {
			children = append(children, layout.Child{
				Node:  &layout.Line{Char: runes.Horizontal, Fill: true, Direction: layout.DirHorizontal},
				Style: columnItemStyle(col.Width),
			})
			sep := mid
			if i == len(spec.Columns)-1 {
				sep = right
			}
			children = append(children, borderCell(sep))
		}
		return layout.Child{
			Node:  &layout.Flex{Children: children, Align: layout.AlignItemsStretch},
			Style: layout.ItemStyle{KeepTogether: true},
		}
	}
	dataRow := func(cells []string, st printer.Style) layout.Child {
		children := []layout.Child{borderCell(runes.Vertical)}
		for i, col := range spec.Columns {
			children = append(children, layout.Child{
				Node:  &layout.Text{Content: cells[i], Style: st},
				Style: columnItemStyle(col.Width),
			})
			children = append(children, borderCell(runes.Vertical))
		}
		return layout.Child{
			Node:  &layout.Flex{Children: children, Align: layout.AlignItemsStretch},
			Style: layout.ItemStyle{KeepTogether: true},
		}
	}

	out := []layout.Child{
		borderRow(runes.TopLeft, runes.TopRight, runes.TDown),
		dataRow(headerCells(spec), spec.HeaderStyle),
		borderRow(runes.TRight, runes.TLeft, runes.Cross),
	}
	for i, row := range spec.Rows {
		out = append(out, dataRow(row.Cells, row.Style))
		if i < len(spec.Rows)-1 {
			out = append(out, borderRow(runes.TRight, runes.TLeft, runes.Cross))
		}
	}
	out = append(out, borderRow(runes.BottomLeft, runes.BottomRight, runes.TUp))
	return out
}

// --- graphics-mode fallback ------------------------------------------

// lineImage draws a single lineThicknessDots-wide stroke across a w x h
// cell, either horizontal (centered on a row) or vertical (centered on a
// column); the cell is otherwise unlit. Scaled to its placed box by
// render.scaleToBox, same as any other Image leaf — the render package's
// dithering pipeline handles the stretch, not this package.
func lineImage(w, h int, horizontal bool) *layout.Image {
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = 255
	}
	if horizontal {
		y := h / 2
		for t := 0; t < lineThicknessDots && y+t < h; t++ {
			for x := 0; x < w; x++ {
				pix[(y+t)*w+x] = 0
			}
		}
	} else {
		x := w / 2
		for t := 0; t < lineThicknessDots && x+t < w; t++ {
			for y := 0; y < h; y++ {
				pix[y*w+x+t] = 0
			}
		}
	}
	return &layout.Image{Pixels: pix, Width: w, Height: h, Dithering: layout.DitherThreshold}
}

// cornerImage draws an L-shaped (or T- or cross-shaped) connector at fixed
// corner size, mirroring font.boxGlyph's stripe-to-midpoint construction
// but at bitmap-dot resolution instead of an 8x16 glyph cell.
func cornerImage(top, bottom, left, right bool) *layout.Image {
	const size = cornerSizeDots
	pix := make([]uint8, size*size)
	for i := range pix {
		pix[i] = 255
	}
	mid := size / 2
	set := func(x, y int) {
		if x >= 0 && x < size && y >= 0 && y < size {
			pix[y*size+x] = 0
		}
	}
	if top {
		for y := 0; y <= mid; y++ {
			set(mid, y)
		}
	}
	if bottom {
		for y := mid; y < size; y++ {
			set(mid, y)
		}
	}
	if left {
		for x := 0; x <= mid; x++ {
			set(x, mid)
		}
	}
	if right {
		for x := mid; x < size; x++ {
			set(x, mid)
		}
	}
	return &layout.Image{Pixels: pix, Width: size, Height: size, Dithering: layout.DitherThreshold}
}

func buildGraphicsRows(spec Spec) []layout.Child {
	cornerStyle := layout.AlignItemsStart
	corner := func(top, bottom, left, right bool) layout.Child {
		return layout.Child{
			Node:  cornerImage(top, bottom, left, right),
			Style: layout.ItemStyle{Width: cornerSizeDots, AlignSelf: &cornerStyle},
		}
	}
	borderRow := func(tl, tr, td func() (bool, bool, bool, bool)) layout.Child {
		var children []layout.Child
		for i, col := range spec.Columns {
			shape := td
			if i == 0 {
				shape = tl
			}
			t, b, l, r := shape()
			children = append(children, corner(t, b, l, r))
			children = append(children, layout.Child{
				// Height matches the row's own fixed height exactly so
				// scaleToBox only ever resamples this image along X
				// (stretching the line's length), never Y (which would
				// blur the 1-dot stroke drawn at its vertical midpoint).
				Node:  lineImage(charsToDotsAt120DPI(1, spec.CPI), graphicsRowHeightDots, true),
				Style: columnItemStyle(col.Width),
			})
		}
		t, b, l, r := tr()
		children = append(children, corner(t, b, l, r))
		return layout.Child{
			Node:  &layout.Flex{Children: children, Height: graphicsRowHeightDots, Align: layout.AlignItemsStretch},
			Style: layout.ItemStyle{KeepTogether: true},
		}
	}
	topRow := func() layout.Child {
		return borderRow(
			func() (bool, bool, bool, bool) { return false, true, false, true },  // topLeft
			func() (bool, bool, bool, bool) { return false, true, true, false },  // topRight
			func() (bool, bool, bool, bool) { return false, true, true, true },   // tDown
		)
	}
	midRow := func() layout.Child {
		return borderRow(
			func() (bool, bool, bool, bool) { return true, true, false, true },  // tRight
			func() (bool, bool, bool, bool) { return true, true, true, false },  // tLeft
			func() (bool, bool, bool, bool) { return true, true, true, true },   // cross
		)
	}
	bottomRow := func() layout.Child {
		return borderRow(
			func() (bool, bool, bool, bool) { return true, false, false, true }, // bottomLeft
			func() (bool, bool, bool, bool) { return true, false, true, false }, // bottomRight
			func() (bool, bool, bool, bool) { return true, false, true, true },  // tUp
		)
	}

	vertical := func() layout.Child {
		return layout.Child{Node: lineImage(cornerSizeDots, 1, false), Style: layout.ItemStyle{Width: cornerSizeDots}}
	}
	dataRow := func(cells []string, st printer.Style) layout.Child {
		children := []layout.Child{vertical()}
		for i, col := range spec.Columns {
			children = append(children, layout.Child{
				Node:  &layout.Text{Content: cells[i], Style: st},
				Style: columnItemStyle(col.Width),
			})
			children = append(children, vertical())
		}
		return layout.Child{
			Node:  &layout.Flex{Children: children, Align: layout.AlignItemsStretch},
			Style: layout.ItemStyle{KeepTogether: true},
		}
	}

	out := []layout.Child{topRow(), dataRow(headerCells(spec), spec.HeaderStyle), midRow()}
	for i, row := range spec.Rows {
		out = append(out, dataRow(row.Cells, row.Style))
		if i < len(spec.Rows)-1 {
			out = append(out, midRow())
		}
	}
	out = append(out, bottomRow())
	return out
}
