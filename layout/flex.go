// The flex solver below is the module's single layout algorithm: Stack
// and Flex both reduce to it, organized into measurement
// (resolveChildBox), distribution (distributeExtra), line assembly
// (buildLines), placement (placeLine) and the two public entry points
// (layoutStack/layoutFlex).
package layout

import (
	"sort"

	"github.com/escp2doc/escp2doc/printer"
)

type flexItem struct {
	child Child
	main  int
	cross int
}

// resolveChildBox computes a child's (main, cross) box for the given axis,
// honoring explicit ItemStyle overrides before falling back to the node's
// intrinsic size: an explicit size always wins over measured content.
func resolveChildBox(c Child, row bool, mainAvail, crossAvail int, style printer.Style) (main, cross int) {
	st := c.Style
	wrapBound := crossAvail
	if row {
		wrapBound = mainAvail
	}
	sz := intrinsicSize(c.Node, style, wrapBound)

	if row {
		main, cross = sz.W, sz.H
		if st.FlexBasis > 0 {
			main = st.FlexBasis
		} else if st.Width > 0 {
			main = st.Width
		} else if st.WidthPct > 0 {
			main = int(st.WidthPct * float64(mainAvail))
		}
		if st.Height > 0 {
			cross = st.Height
		}
	} else {
		main, cross = sz.H, sz.W
		if st.FlexBasis > 0 {
			main = st.FlexBasis
		} else if st.Height > 0 {
			main = st.Height
		}
		if st.Width > 0 {
			cross = st.Width
		} else if st.WidthPct > 0 {
			cross = int(st.WidthPct * float64(crossAvail))
		}
	}
	return main, cross
}

// flexItemFor builds one measured item. A fill Line running along the
// container's main axis is fully flexible: zero base size, default grow
// factor 1, so its extent comes entirely from the distribution pass.
func flexItemFor(c Child, row bool, mainAvail, crossAvail int, style printer.Style) flexItem {
	m, cr := resolveChildBox(c, row, mainAvail, crossAvail, style)
	if ln, ok := c.Node.(*Line); ok && ln.Fill && row == (ln.Direction == DirHorizontal) {
		m = 0
		if c.Style.FlexGrow == 0 {
			c.Style.FlexGrow = 1
		}
	}
	if sp, ok := c.Node.(*Spacer); ok && sp.Flex > 0 && c.Style.FlexGrow == 0 {
		c.Style.FlexGrow = sp.Flex
	}
	return flexItem{child: c, main: m, cross: cr}
}

// outOfFlow reports whether a child is removed from normal flow, either
// via its ItemStyle or via a Stack node's own absolute positioning.
func outOfFlow(c Child) bool {
	if c.Style.Position == PosAbsolute {
		return true
	}
	if s, ok := c.Node.(*Stack); ok && s.Position == PosAbsolute {
		return true
	}
	return false
}

// clampDim bounds v to [min, max]; zero bounds are unset.
func clampDim(v, min, max int) int {
	if max > 0 && v > max {
		v = max
	}
	if min > 0 && v < min {
		v = min
	}
	return v
}

// distributeExtra allocates `extra` dots of main-axis space (positive for
// grow, negative for shrink) across items proportionally to their
// grow/shrink factors, using a floor-plus-largest-remainder scheme so the
// allocations sum exactly to extra regardless of rounding: each item gets
// its proportional floor, and the leftover remainder dots go to the items
// with the largest fractional share, highest first.
func distributeExtra(items []flexItem, extra int) []int {
	out := make([]int, len(items))
	if extra == 0 {
		return out
	}
	weights := make([]float64, len(items))
	var total float64
	for i, it := range items {
		var w float64
		if extra > 0 {
			w = it.child.Style.FlexGrow
		} else {
			w = it.child.Style.FlexShrink * float64(it.main)
		}
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return out
	}

	type frac struct {
		idx  int
		frac float64
	}
	fracs := make([]frac, 0, len(items))
	assigned := 0
	exf := float64(extra)
	for i, w := range weights {
		share := exf * w / total
		whole := int(share)
		if exf < 0 && float64(whole) > share {
			// int() truncates toward zero; keep magnitude consistent for
			// negative shares by flooring toward -inf.
			whole--
		}
		out[i] = whole
		assigned += whole
		fracs = append(fracs, frac{i, share - float64(whole)})
	}
	remainder := extra - assigned
	sort.Slice(fracs, func(a, b int) bool { return fracs[a].frac > fracs[b].frac })
	step := 1
	if remainder < 0 {
		step = -1
	}
	for i := 0; i < remainder*step; i++ {
		out[fracs[i%len(fracs)].idx] += step
	}

	// Never shrink an item past zero.
	if extra < 0 {
		for i := range out {
			if items[i].main+out[i] < 0 {
				out[i] = -items[i].main
			}
		}
	}
	return out
}

// layoutStack places children sequentially along Direction with Gap
// between them and single-axis cross alignment; it is the "simpler"
// container variant.
func layoutStack(s *Stack, style printer.Style, x, y, availW, availH int) (*Placed, error) {
	if s.Position == PosAbsolute {
		x, y = s.PosX, s.PosY
	}
	x += s.RelX
	y += s.RelY

	top, right, bottom, left := sum4(s.Padding)
	innerX, innerY := x+left, y+top
	outerW, outerH := availW, availH
	if s.Width > 0 {
		outerW = s.Width
	}
	if s.Height > 0 {
		outerH = s.Height
	}
	outerW = clampDim(outerW, s.MinWidth, s.MaxWidth)
	outerH = clampDim(outerH, s.MinHeight, s.MaxHeight)
	innerW, innerH := outerW-left-right, outerH-top-bottom

	row := s.Direction == Row
	mainAvail, crossAvail := innerW, innerH
	if !row {
		mainAvail, crossAvail = innerH, innerW
	}

	var flow []Child
	var absolute []Child
	for _, c := range s.Children {
		if outOfFlow(c) {
			absolute = append(absolute, c)
		} else {
			flow = append(flow, c)
		}
	}

	items := make([]flexItem, len(flow))
	for i, c := range flow {
		items[i] = flexItemFor(c, row, mainAvail, crossAvail, style)
	}

	total := 0
	gapCount := 0
	for i, it := range items {
		total += it.main
		mt, mr, mb, ml := sum4(it.child.Style.Margin)
		if row {
			total += ml + mr
		} else {
			total += mt + mb
		}
		if i > 0 && !it.child.Style.IgnoreGapBefore {
			gapCount++
		}
	}
	total += gapCount * s.Gap
	extra := mainAvail - total
	allocs := distributeExtra(items, extra)

	placed := &Placed{Node: s, X: x, Y: y, W: outerW, H: outerH, Style: style.Merge(s.Style)}
	cursor := 0
	for i, it := range items {
		main := it.main + allocs[i]
		if main < 0 {
			main = 0
		}
		mt, mr, mb, ml := sum4(it.child.Style.Margin)
		if i > 0 && !it.child.Style.IgnoreGapBefore {
			cursor += s.Gap
		}
		if row {
			cursor += ml
		} else {
			cursor += mt
		}

		cross := it.cross
		align := s.Align
		if it.child.Style.AlignSelf != nil {
			align = *it.child.Style.AlignSelf
		}
		crossOffset := crossAlignOffset(align, cross, crossAvail)
		if align == AlignItemsStretch {
			cross = crossAvail
			crossOffset = 0
		}

		var cx, cy, cw, ch int
		if row {
			cx, cy = innerX+cursor, innerY+crossOffset
			cw, ch = main, cross
		} else {
			cx, cy = innerX+crossOffset, innerY+cursor
			cw, ch = cross, main
		}
		cx += it.child.Style.RelX
		cy += it.child.Style.RelY

		child, err := layout(it.child.Node, placed.Style, cx, cy, cw, ch)
		if err != nil {
			return nil, err
		}
		// The placed box is the resolved flex box, not the leaf's
		// intrinsic content size: grown/stretched items report the space
		// they were allocated.
		child.W, child.H = cw, ch
		child.KeepTogether = it.child.Style.KeepTogether
		child.BreakBefore = it.child.Style.BreakBefore
		child.BreakAfter = it.child.Style.BreakAfter
		placed.Children = append(placed.Children, child)

		cursor += main
		if row {
			cursor += mr
		} else {
			cursor += mb
		}
	}

	// Auto-height containers report their content extent, not the whole
	// space they were offered; pagination reads this as the group height.
	if s.Height == 0 {
		contentBottom := innerY
		for _, c := range placed.Children {
			if c.Y+c.H > contentBottom {
				contentBottom = c.Y + c.H
			}
		}
		placed.H = clampDim(contentBottom+bottom-y, s.MinHeight, s.MaxHeight)
	}

	for _, c := range absolute {
		ap, err := positionAbsolute(c, placed.Style, innerX, innerY, innerW, innerH)
		if err != nil {
			return nil, err
		}
		placed.Children = append(placed.Children, ap)
	}
	return placed, nil
}

// crossAlignOffset resolves a cross-axis start offset for AlignItems within
// a track of size `avail` holding an item of size `itemSize`.
func crossAlignOffset(align AlignItems, itemSize, avail int) int {
	switch align {
	case AlignItemsCenter:
		if avail > itemSize {
			return (avail - itemSize) / 2
		}
	case AlignItemsEnd:
		if avail > itemSize {
			return avail - itemSize
		}
	}
	return 0
}

// positionAbsolute places an out-of-flow child relative to the container's
// content box (inside its padding) via Top/Right/Bottom/Left; unset edges
// anchor to 0.
func positionAbsolute(c Child, style printer.Style, originX, originY, availW, availH int) (*Placed, error) {
	st := c.Style
	mainBound := availW
	sz := intrinsicSize(c.Node, style, mainBound)
	w, h := sz.W, sz.H
	if st.Width > 0 {
		w = st.Width
	}
	if st.Height > 0 {
		h = st.Height
	}

	x := originX
	y := originY
	if st.Left != nil {
		x = originX + *st.Left
	} else if st.Right != nil {
		x = originX + availW - *st.Right - w
	}
	if st.Top != nil {
		y = originY + *st.Top
	} else if st.Bottom != nil {
		y = originY + availH - *st.Bottom - h
	}
	x += st.RelX
	y += st.RelY

	placed, err := layout(c.Node, style, x, y, w, h)
	if err != nil {
		return nil, err
	}
	placed.W, placed.H = w, h
	placed.KeepTogether = st.KeepTogether
	placed.BreakBefore = st.BreakBefore
	placed.BreakAfter = st.BreakAfter
	return placed, nil
}

// layoutFlex lays out children along the main (horizontal) axis as a
// single row, distributes free space via Justify, and aligns items
// within the row per Align. The solver never wraps overflowing content
// onto additional rows.
func layoutFlex(f *Flex, style printer.Style, x, y, availW, availH int) (*Placed, error) {
	top, right, bottom, left := sum4(f.Padding)
	innerX, innerY := x+left, y+top
	innerW := availW - left - right
	if f.Width > 0 {
		innerW = f.Width - left - right
	}

	var flow []Child
	var absolute []Child
	for _, c := range f.Children {
		if outOfFlow(c) {
			absolute = append(absolute, c)
		} else {
			flow = append(flow, c)
		}
	}

	lines := buildLines(flow, innerW, style)

	placed := &Placed{Node: f, X: x, Y: y, W: availW, H: availH, Style: style.Merge(f.Style)}
	cursorY := innerY
	for li, line := range lines {
		lineHeight := 0
		for _, it := range line {
			if it.cross > lineHeight {
				lineHeight = it.cross
			}
		}
		placedRow, err := placeLine(line, f, placed.Style, innerX, cursorY, innerW, lineHeight)
		if err != nil {
			return nil, err
		}
		placed.Children = append(placed.Children, placedRow...)
		cursorY += lineHeight
		if li < len(lines)-1 {
			cursorY += f.RowGap
		}
	}

	if f.Height > 0 {
		placed.H = f.Height
	} else {
		placed.H = cursorY + bottom - y
	}
	if f.Width > 0 {
		placed.W = f.Width
	}

	for _, c := range absolute {
		ap, err := positionAbsolute(c, placed.Style, innerX, innerY, innerW, availH-top-bottom)
		if err != nil {
			return nil, err
		}
		placed.Children = append(placed.Children, ap)
	}
	return placed, nil
}

// buildLines measures every child against availW and returns them as a
// single row: this solver implements the subset of flexbox the engine
// needs and never wraps overflowing content onto additional rows; items
// that overflow the main axis print past the margin rather than reflow.
func buildLines(children []Child, availW int, style printer.Style) [][]flexItem {
	if len(children) == 0 {
		return nil
	}
	line := make([]flexItem, 0, len(children))
	for _, c := range children {
		line = append(line, flexItemFor(c, true, availW, availW, style))
	}
	return [][]flexItem{line}
}

// placeLine lays out the single row: resolves grow/shrink against the
// line's own free space, applies Justify to place/space items, and aligns
// each item within the row's cross-axis (height) track per Align.
func placeLine(line []flexItem, f *Flex, style printer.Style, x, y, availW, rowHeight int) ([]*Placed, error) {
	total := 0
	for i, it := range line {
		mt, mr, mb, ml := sum4(it.child.Style.Margin)
		_ = mt
		_ = mb
		total += it.main + ml + mr
		if i > 0 {
			total += f.Gap
		}
	}
	extra := availW - total
	var allocs []int
	if extra < 0 || hasGrowth(line) {
		allocs = distributeExtra(line, extra)
		extra = 0 // absorbed by grow/shrink; justify sees no slack
	} else {
		allocs = make([]int, len(line))
	}

	leading, between := justifyOffsets(f.Justify, extra, len(line))

	out := make([]*Placed, 0, len(line))
	cursor := x + leading
	for i, it := range line {
		main := it.main + allocs[i]
		if main < 0 {
			main = 0
		}
		mt, mr, _, ml := sum4(it.child.Style.Margin)
		cursor += ml

		align := f.Align
		if it.child.Style.AlignSelf != nil {
			align = *it.child.Style.AlignSelf
		}
		cross := it.cross
		crossOffset := crossAlignOffset(align, cross, rowHeight)
		if align == AlignItemsStretch {
			cross = rowHeight
			crossOffset = 0
		}

		cx := cursor + it.child.Style.RelX
		cy := y + mt + crossOffset + it.child.Style.RelY

		child, err := layout(it.child.Node, style, cx, cy, main, cross)
		if err != nil {
			return nil, err
		}
		child.W, child.H = main, cross
		child.KeepTogether = it.child.Style.KeepTogether
		child.BreakBefore = it.child.Style.BreakBefore
		child.BreakAfter = it.child.Style.BreakAfter
		out = append(out, child)

		cursor += main + mr
		if i < len(line)-1 {
			cursor += f.Gap + between
		}
	}
	return out, nil
}

func hasGrowth(line []flexItem) bool {
	for _, it := range line {
		if it.child.Style.FlexGrow > 0 || it.child.Style.FlexShrink > 0 {
			return true
		}
	}
	return false
}

// justifyOffsets resolves the leading offset before the first item and the
// extra gap inserted between each pair of items for a Justify mode, given
// `extra` free dots across `n` items. space-between falls back to a single
// leading offset (the same as JustifyStart) when n == 1, since there is no
// pair of items to insert space between.
func justifyOffsets(j Justify, extra, n int) (leading, between int) {
	if extra <= 0 || n == 0 {
		return 0, 0
	}
	switch j {
	case JustifyCenter:
		return extra / 2, 0
	case JustifyEnd:
		return extra, 0
	case JustifySpaceBetween:
		if n > 1 {
			return 0, extra / (n - 1)
		}
		return 0, 0
	case JustifySpaceAround:
		unit := extra / n
		return unit / 2, unit
	case JustifySpaceEvenly:
		unit := extra / (n + 1)
		return unit, unit
	default: // JustifyStart
		return 0, 0
	}
}

func stackIntrinsicSize(s *Stack, style printer.Style, availW int) Size {
	row := s.Direction == Row
	var mainTotal, crossMax int
	for i, c := range s.Children {
		if outOfFlow(c) {
			continue
		}
		it := flexItemFor(c, row, availW, availW, style)
		mainTotal += it.main
		if i > 0 && !c.Style.IgnoreGapBefore {
			mainTotal += s.Gap
		}
		if it.cross > crossMax {
			crossMax = it.cross
		}
	}
	top, right, bottom, left := sum4(s.Padding)
	sz := Size{W: crossMax + left + right, H: mainTotal + top + bottom}
	if row {
		sz = Size{W: mainTotal + left + right, H: crossMax + top + bottom}
	}
	if s.Width > 0 {
		sz.W = s.Width
	}
	if s.Height > 0 {
		sz.H = s.Height
	}
	sz.W = clampDim(sz.W, s.MinWidth, s.MaxWidth)
	sz.H = clampDim(sz.H, s.MinHeight, s.MaxHeight)
	return sz
}

func flexIntrinsicSize(f *Flex, style printer.Style, availW int) Size {
	w := availW
	if f.Width > 0 {
		w = f.Width
	}
	var flow []Child
	for _, c := range f.Children {
		if !outOfFlow(c) {
			flow = append(flow, c)
		}
	}
	lines := buildLines(flow, w, style)
	h := 0
	maxLineW := 0
	for li, line := range lines {
		lineH := 0
		lineW := 0
		for i, it := range line {
			lineW += it.main
			if i > 0 {
				lineW += f.Gap
			}
			if it.cross > lineH {
				lineH = it.cross
			}
		}
		if lineW > maxLineW {
			maxLineW = lineW
		}
		h += lineH
		if li < len(lines)-1 {
			h += f.RowGap
		}
	}
	top, right, bottom, left := sum4(f.Padding)
	sz := Size{W: maxLineW + left + right, H: h + top + bottom}
	if f.Width > 0 {
		sz.W = f.Width
	}
	if f.Height > 0 {
		sz.H = f.Height
	}
	return sz
}
