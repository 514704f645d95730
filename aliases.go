// Package escp2doc is the public facade: it re-exports the internal
// packages' types under one namespace and provides Render, the single
// entry point gluing dynamic-node resolution, layout, pagination, and
// byte emission into one call that returns both the printer control
// byte stream and any diagnostics collected along the way.
package escp2doc

import (
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
	"github.com/escp2doc/escp2doc/render"
	"github.com/escp2doc/escp2doc/unit"
	"github.com/escp2doc/escp2doc/vbitmap"
)

// Type aliases for public API.
//
// These re-export types from internal packages to present a unified,
// concise surface under the escp2doc namespace.
type (
	Node        = layout.Node
	Text        = layout.Text
	Line        = layout.Line
	Stack       = layout.Stack
	Flex        = layout.Flex
	Child       = layout.Child
	Spacer      = layout.Spacer
	Grid        = layout.Grid
	GridRow     = layout.GridRow
	GridCell    = layout.GridCell
	GridColumn  = layout.GridColumn
	Image       = layout.Image
	Barcode     = layout.Barcode
	Context     = layout.Context
	Style       = printer.Style
	PaperConfig = printer.PaperConfig
	Diagnostic  = render.Diagnostic
	VirtualPage = vbitmap.VirtualPage
	Interpreter = vbitmap.Interpreter
)

// Constructors and defaults re-exported for callers who don't want to
// import the internal packages directly.
var (
	NewContext         = layout.NewContext
	DefaultStyle       = printer.DefaultStyle
	DefaultPaperConfig = printer.DefaultPaperConfig
	NewInterpreter     = vbitmap.New
)

// Document is the root of a renderable tree: a layout node plus the base
// style and paper it resolves against. A Document is built once and never
// mutated in place; Render always resolves, lays out, paginates, and
// emits it fresh.
type Document struct {
	Root  layout.Node
	Style printer.Style
	Paper printer.PaperConfig
}

// Render runs the full pipeline: dynamic-node resolution against ctx (nil
// skips resolution when the tree has no Template/If/Switch/For nodes),
// layout against the paper's printable area, pagination honoring atomic
// Y-groups, and emission to an ESC/P2 byte stream.
//
// The root node is wrapped in a synthetic single-child column Stack
// before layout so a bare top-level Image (or any other leaf) resolves
// its box through the same resolveChildBox path nested children use,
// rather than needing a special top-level case.
func Render(doc Document, ctx *layout.Context) ([]byte, []Diagnostic, error) {
	root := doc.Root
	if ctx != nil {
		resolved, err := layout.Resolve(root, ctx)
		if err != nil {
			return nil, nil, err
		}
		root = resolved
	}

	if err := doc.Paper.Validate(); err != nil {
		return nil, nil, err
	}

	wrapper := &layout.Stack{
		Direction: layout.Column,
		Children:  []layout.Child{{Node: root}},
	}
	m := doc.Paper.Margins
	w := int(unit.Inches(doc.Paper.WidthInches) - m.Left - m.Right)
	h := int(unit.Inches(doc.Paper.HeightInches) - m.Top - m.Bottom)
	placed, err := layout.Layout(wrapper, doc.Style, int(m.Left), int(m.Top), w, h)
	if err != nil {
		return nil, nil, err
	}

	pages, err := layout.Paginate(placed, doc.Paper)
	if err != nil {
		return nil, nil, err
	}

	return render.Emit(pages, doc.Paper)
}

// Preview runs Render and replays the resulting byte stream through the
// virtual bitmap interpreter, returning one VirtualPage per printed page
// for on-screen preview; the same replay also serves as the package's
// testing oracle.
func Preview(doc Document, ctx *layout.Context, horizontalDPI, verticalDPI, scale float64) ([]*VirtualPage, error) {
	data, _, err := Render(doc, ctx)
	if err != nil {
		return nil, err
	}
	it := vbitmap.New(doc.Paper, horizontalDPI, verticalDPI, scale)
	if err := it.Consume(data); err != nil {
		return nil, err
	}
	return it.Pages, nil
}
