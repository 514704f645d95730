package layout

import "github.com/escp2doc/escp2doc/printer"

// resolveColumnWidths assigns a dot width to each declared column: Fixed
// columns take their literal width, Percent columns a share of availW,
// Auto columns the widest intrinsic content across all rows in that
// column, and Fill columns split whatever space remains evenly.
func resolveColumnWidths(g *Grid, style printer.Style, availW int) []int {
	n := len(g.Columns)
	if n == 0 {
		if len(g.Rows) == 0 {
			return nil
		}
		n = len(g.Rows[0].Cells)
	}
	widths := make([]int, n)
	fixed := make([]bool, n)
	used := 0
	fillCount := 0

	colKind := func(i int) (ColumnWidthKind, int, float64) {
		if i < len(g.Columns) {
			return g.Columns[i].Kind, g.Columns[i].Width, g.Columns[i].Pct
		}
		return ColWidthAuto, 0, 0
	}

	for i := 0; i < n; i++ {
		kind, w, pct := colKind(i)
		switch kind {
		case ColWidthFixed:
			widths[i] = w
			fixed[i] = true
			used += w
		case ColWidthPercent:
			widths[i] = int(pct * float64(availW))
			fixed[i] = true
			used += widths[i]
		case ColWidthFill:
			fillCount++
		case ColWidthAuto:
			max := 0
			for _, row := range g.Rows {
				if i >= len(row.Cells) {
					continue
				}
				cell := row.Cells[i]
				sz := intrinsicSize(cell.Node, style, availW)
				if sz.W > max {
					max = sz.W
				}
			}
			widths[i] = max
			fixed[i] = true
			used += max
		}
	}

	if fillCount > 0 {
		remaining := availW - used
		if remaining < 0 {
			remaining = 0
		}
		share := remaining / fillCount
		extra := remaining - share*fillCount
		assigned := 0
		for i := 0; i < n; i++ {
			kind, _, _ := colKind(i)
			if kind == ColWidthFill {
				widths[i] = share
				if assigned < extra {
					widths[i]++
					assigned++
				}
			}
		}
	}
	return widths
}

// layoutGrid stacks each GridRow vertically, laying out cells side by side
// at the resolved column widths; every row is flagged KeepTogether since
// grid rows are always atomic during pagination.
func layoutGrid(g *Grid, style printer.Style, x, y, availW, availH int) (*Placed, error) {
	st := style.Merge(g.Style)
	widths := resolveColumnWidths(g, st, availW)

	placed := &Placed{Node: g, X: x, Y: y, W: availW, H: availH, Style: st}
	cursorY := y
	for _, row := range g.Rows {
		rowHeight := row.Height
		if rowHeight <= 0 {
			for i, cell := range row.Cells {
				w := availW
				if i < len(widths) {
					w = widths[i]
				}
				sz := intrinsicSize(cell.Node, st, w)
				if sz.H > rowHeight {
					rowHeight = sz.H
				}
			}
		}

		rowPlaced := &Placed{
			X: x, Y: cursorY, W: availW, H: rowHeight,
			Style: st, KeepTogether: true,
			BreakBefore:  row.BreakBefore,
			KeepWithNext: row.KeepWithNext,
		}
		cursorX := x
		for i, cell := range row.Cells {
			w := availW
			if i < len(widths) {
				w = widths[i]
			}
			cellPlaced, err := layout(cell.Node, st, cursorX, cursorY, w, rowHeight)
			if err != nil {
				return nil, err
			}
			rowPlaced.Children = append(rowPlaced.Children, cellPlaced)
			cursorX += w
		}
		placed.Children = append(placed.Children, rowPlaced)
		cursorY += rowHeight
	}
	placed.H = cursorY - y
	return placed, nil
}

func gridIntrinsicSize(g *Grid, style printer.Style, availW int) Size {
	st := style.Merge(g.Style)
	widths := resolveColumnWidths(g, st, availW)
	totalW := 0
	for _, w := range widths {
		totalW += w
	}
	h := 0
	for _, row := range g.Rows {
		rowHeight := row.Height
		if rowHeight <= 0 {
			for i, cell := range row.Cells {
				w := availW
				if i < len(widths) {
					w = widths[i]
				}
				sz := intrinsicSize(cell.Node, st, w)
				if sz.H > rowHeight {
					rowHeight = sz.H
				}
			}
		}
		h += rowHeight
	}
	return Size{W: totalW, H: h}
}
