package layout

import (
	"github.com/escp2doc/escp2doc/printer"
	"github.com/escp2doc/escp2doc/unit"
)

// Page is one paginated slice of the document: the atomic items that fall
// on it, in document order, with Y already translated into page-local
// coordinates.
type Page struct {
	Index int
	Items []*Placed
}

// atomicItem is a flattened, indivisible unit of content: a leaf node, a
// KeepTogether subtree, or a Grid row (rows are always atomic). Y/H are
// measured in the pre-pagination coordinate space, as if the document
// were printed onto one infinitely tall sheet.
type atomicItem struct {
	placed       *Placed
	y, h         int
	breakBefore  bool
	breakAfter   bool
	keepWithNext bool
}

// collectAtomic walks a laid-out tree in document order, splitting it into
// atomic units: it descends into ordinary containers but stops at any
// node flagged KeepTogether (including Grid rows, which layoutGrid always
// marks) and at leaves.
func collectAtomic(p *Placed) []atomicItem {
	if p == nil {
		return nil
	}
	if p.KeepTogether || len(p.Children) == 0 {
		return []atomicItem{{
			placed:       p,
			y:            p.Y,
			h:            p.H,
			breakBefore:  p.BreakBefore,
			breakAfter:   p.BreakAfter,
			keepWithNext: p.KeepWithNext,
		}}
	}
	var out []atomicItem
	for i, c := range p.Children {
		items := collectAtomic(c)
		if i == 0 && len(items) > 0 {
			items[0].breakBefore = items[0].breakBefore || p.BreakBefore
		}
		out = append(out, items...)
	}
	if n := len(out); n > 0 {
		out[n-1].breakAfter = out[n-1].breakAfter || p.BreakAfter
	}
	return out
}

// groupByY partitions items (already in document/Y order) into Y-groups:
// runs of consecutive items sharing the same pre-pagination Y, i.e. flex
// row siblings. A Stack's children each get their own singleton group
// since they never share a Y.
func groupByY(items []atomicItem) [][]atomicItem {
	var groups [][]atomicItem
	for _, it := range items {
		if n := len(groups); n > 0 && groups[n-1][0].y == it.y {
			groups[n-1] = append(groups[n-1], it)
		} else {
			groups = append(groups, []atomicItem{it})
		}
	}
	return groups
}

// mergeKeepWithNext coalesces each group containing a keepWithNext item
// with its successor group, so a page break can never land between a row
// and the row it asked to stay with. Chains of keepWithNext rows collapse
// into one unit.
func mergeKeepWithNext(groups [][]atomicItem) [][]atomicItem {
	var out [][]atomicItem
	pending := false
	for _, g := range groups {
		kwn := false
		for _, it := range g {
			kwn = kwn || it.keepWithNext
		}
		if pending && len(out) > 0 {
			out[len(out)-1] = append(out[len(out)-1], g...)
		} else {
			out = append(out, g)
		}
		pending = kwn
	}
	return out
}

// Paginate splits a laid-out document body into pages according to the
// paper's printable height, honoring BreakBefore/BreakAfter and never
// splitting an atomic item (or a Y-group of flex siblings) across a page
// boundary. A group too tall to ever fit a fresh page is left on its
// current page and simply overflows, rather than forcing an empty break.
// root is expected in the single-infinite-sheet coordinate space Layout
// produces when given an unbounded availH.
func Paginate(root *Placed, paper printer.PaperConfig) ([]Page, error) {
	if err := paper.Validate(); err != nil {
		return nil, err
	}
	top := int(paper.Margins.Top)

	items := collectAtomic(root)
	if len(items) == 0 {
		return nil, nil
	}
	groups := mergeKeepWithNext(groupByY(items))

	var pages []Page
	pageIndex := 0
	pageTop := groups[0][0].y
	var cur []*Placed

	flush := func() {
		pages = append(pages, Page{Index: pageIndex, Items: cur})
		pageIndex++
		cur = nil
	}

	usableHeight := int(unit.Inches(paper.HeightInches) - paper.Margins.Top - paper.Margins.Bottom)

	for gi, group := range groups {
		groupY := group[0].y
		// Span-based height: a merged keepWithNext unit holds items at
		// several Y coordinates, so the unit's extent runs from its first
		// item's top to its lowest bottom edge.
		groupBottom := groupY
		breakBefore := false
		breakAfter := false
		for _, it := range group {
			if it.y+it.h > groupBottom {
				groupBottom = it.y + it.h
			}
			breakBefore = breakBefore || it.breakBefore
			breakAfter = breakAfter || it.breakAfter
		}
		groupHeight := groupBottom - groupY

		relY := groupY - pageTop
		fits := relY+groupHeight <= usableHeight
		fitsOnFreshPage := groupHeight <= usableHeight
		forceBreak := breakBefore && gi > 0
		if (forceBreak || (!fits && fitsOnFreshPage)) && len(cur) > 0 {
			flush()
			pageTop = groupY
		}

		// Every item in the group is translated by the same delta so flex
		// siblings stay Y-aligned on the page.
		delta := top + (groupY - pageTop) - groupY
		for _, it := range group {
			cur = append(cur, translateItem(it.placed, it.placed.Y+delta))
		}

		if breakAfter && gi < len(groups)-1 {
			flush()
			pageTop = groups[gi+1][0].y
		}
	}
	if len(cur) > 0 {
		flush()
	}
	return pages, nil
}

// translateItem returns a shallow copy of p (and its children, recursively)
// with Y shifted so the subtree's root sits at newY, preserving every
// descendant's relative offset.
func translateItem(p *Placed, newY int) *Placed {
	dy := newY - p.Y
	return shiftY(p, dy)
}

func shiftY(p *Placed, dy int) *Placed {
	out := *p
	out.Y = p.Y + dy
	if len(p.Children) > 0 {
		out.Children = make([]*Placed, len(p.Children))
		for i, c := range p.Children {
			out.Children[i] = shiftY(c, dy)
		}
	}
	return &out
}
