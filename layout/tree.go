package layout

import "github.com/escp2doc/escp2doc/printer"

// Placed is one node after layout: an absolutely positioned subtree ready
// for pagination and the render emitter. The tree shape mirrors the
// resolved Node tree; containers keep their placed children so pagination
// can re-flow by Y-group without re-running the flex solver.
type Placed struct {
	Node  Node
	X, Y  int
	W, H  int
	Style printer.Style

	BreakBefore  bool
	BreakAfter   bool
	KeepTogether bool
	KeepWithNext bool

	Children []*Placed
}

// Layout resolves a static (already-Resolve'd) node tree into absolute
// dot coordinates within the given origin and available box, dispatching
// to the flex solver, grid solver, or a leaf's intrinsic size as
// appropriate.
func Layout(n Node, style printer.Style, x, y, availW, availH int) (*Placed, error) {
	if err := checkResolved(n); err != nil {
		return nil, err
	}
	return layout(n, style, x, y, availW, availH)
}

func layout(n Node, style printer.Style, x, y, availW, availH int) (*Placed, error) {
	switch t := n.(type) {
	case *Text:
		st := style.Merge(t.Style)
		sz := intrinsicSize(t, style, availW)
		al := st.Align
		if t.Align != nil {
			al = *t.Align
		}
		x += alignOffset(al, sz.W, availW)
		return &Placed{Node: t, X: x, Y: y, W: sz.W, H: sz.H, Style: st}, nil

	case *Line:
		st := style.Merge(t.Style)
		sz := intrinsicSize(t, style, availW)
		return &Placed{Node: t, X: x, Y: y, W: sz.W, H: sz.H, Style: st}, nil

	case *Spacer:
		return &Placed{Node: t, X: x, Y: y, W: t.Size, H: 0}, nil

	case *Image:
		w, h := availW, availH
		if w <= 0 {
			w = t.Width
		}
		if h <= 0 {
			h = t.Height
		}
		return &Placed{Node: t, X: x, Y: y, W: w, H: h}, nil

	case *Barcode:
		sz := intrinsicSize(t, style, availW)
		return &Placed{Node: t, X: x, Y: y, W: sz.W, H: sz.H}, nil

	case *Stack:
		return layoutStack(t, style, x, y, availW, availH)

	case *Flex:
		return layoutFlex(t, style, x, y, availW, availH)

	case *Grid:
		return layoutGrid(t, style, x, y, availW, availH)

	default:
		return &Placed{Node: t, X: x, Y: y}, nil
	}
}

// alignOffset shifts a text line within its allocated box: right-aligned
// content sits flush with the box's right edge, centered content splits
// the slack evenly. Content wider than its box stays at the left edge.
func alignOffset(al printer.Align, contentW, boxW int) int {
	if boxW <= contentW {
		return 0
	}
	switch al {
	case printer.AlignCenter:
		return (boxW - contentW) / 2
	case printer.AlignRight:
		return boxW - contentW
	default:
		return 0
	}
}
