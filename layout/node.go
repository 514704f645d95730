// Package layout implements the flexbox-style layout solver, pagination,
// and dynamic-node resolution over the declarative LayoutNode tree. The
// tree is built once and never mutated by the engine: layout always
// produces a fresh Placed tree from the same Node values.
package layout

import (
	"github.com/escp2doc/escp2doc/printer"
)

// Node is the tagged-variant contract every layout tree element satisfies.
// Concrete node types are plain structs; Node is the common interface they
// all implement, the idiomatic Go substitute for a closed sum type.
type Node interface {
	isNode()
}

// Dir describes a repeated-character Line's orientation.
type Dir int

const (
	DirHorizontal Dir = iota
	DirVertical
)

// Text is a leaf node rendering a single logical line of glyphs. Text
// itself never wraps; wrapping across multiple lines is explicit via a
// containing Stack/Flex.
type Text struct {
	Content string
	Style   printer.Style
	Align   *printer.Align // per-node override; nil inherits Style.Align
}

func (*Text) isNode() {}

// Line repeats a character to fill a measured extent, used for rules and
// underlines drawn independent of a text run.
type Line struct {
	Char      rune
	Length    int  // dots; ignored when Fill is true
	Fill      bool // fill the available extent at layout time
	Direction Dir
	Style     printer.Style
}

func (*Line) isNode() {}

// Stack is the simpler of the two container variants: a single-axis flex
// container with one cross-axis alignment knob. Internally it is lowered
// to the same flex solver as Flex.
type Stack struct {
	Direction FlexDirection
	Children  []Child
	Gap       int
	Padding   [4]int
	Margin    [4]int
	Align     AlignItems // cross-axis alignment
	Width     int
	Height    int
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int

	Position   PositionType
	PosX, PosY int
	RelX, RelY int

	Style printer.Style
}

func (*Stack) isNode() {}

// Flex is the full flexbox container.
type Flex struct {
	Children []Child
	Gap      int
	RowGap   int
	Justify  Justify
	Align    AlignItems // AlignItems for a row container, cross-axis align for column
	Padding  [4]int
	Margin   [4]int
	Width    int
	Height   int

	Style printer.Style
}

func (*Flex) isNode() {}

// Child pairs a Node with its ItemStyle inside a container.
type Child struct {
	Node  Node
	Style ItemStyle
}

// Spacer occupies fixed or flexible space along a container's main axis.
type Spacer struct {
	Size int
	Flex float64
}

func (*Spacer) isNode() {}

// GridCell is one cell within a Grid row.
type GridCell struct {
	Node  Node
	Style ItemStyle
	Width int // fixed dots, 0 = auto/fill depending on Width kind below
	Kind  ColumnWidthKind
	Pct   float64
}

// ColumnWidthKind discriminates how a Grid column's width resolves.
type ColumnWidthKind int

const (
	ColWidthFixed ColumnWidthKind = iota
	ColWidthPercent
	ColWidthAuto
	ColWidthFill
)

// GridRow is one atomic row of a Grid: pagination never splits a row's
// cells across a page boundary.
type GridRow struct {
	Cells        []GridCell
	Height       int // 0 = auto, computed from cell content
	KeepWithNext bool
	BreakBefore  bool
}

// Grid is a tabular layout node: rows of cells sharing column widths.
type Grid struct {
	Rows    []GridRow
	Columns []GridColumn
	Style   printer.Style
}

// GridColumn declares one column's width resolution.
type GridColumn struct {
	Kind  ColumnWidthKind
	Width int
	Pct   float64
}

func (*Grid) isNode() {}

// Dithering selects the halftoning algorithm applied to an Image node
// before bit-image emission.
type Dithering int

const (
	DitherNone Dithering = iota
	DitherThreshold
	DitherOrdered
	DitherFloydSteinberg
)

// Image is a raster leaf node. Pixels are 8-bit grayscale samples,
// width*height long.
type Image struct {
	Pixels    []uint8
	Width     int
	Height    int
	Dithering Dithering
}

func (*Image) isNode() {}

// BarcodeType enumerates the supported symbologies.
type BarcodeType int

const (
	UPCA BarcodeType = iota
	UPCE
	EAN13
	EAN8
	Code39
	ITF
	Codabar
	Code128
)

// HRIPosition controls placement of the human-readable interpretation
// line relative to the bars.
type HRIPosition int

const (
	HRINone HRIPosition = iota
	HRIAbove
	HRIBelow
	HRIBoth
)

// Barcode is a leaf node encoding symbology data, implemented in package
// barcode.
type Barcode struct {
	Data        string
	Type        BarcodeType
	ModuleWidth int
	Height      int
	HRIPosition HRIPosition
	HRIFont     printer.Style
}

func (*Barcode) isNode() {}
