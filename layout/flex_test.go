package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
)

func textChild(content string) layout.Child {
	return layout.Child{Node: &layout.Text{Content: content}}
}

// TestJustifyEndPositionsLastItemFlushRight mirrors a page with three fixed
// width text runs right-justified on an 8.5"-wide container: the flex
// solver must place the trailing edge of the last item exactly at the
// container's right edge.
func TestJustifyEndPositionsLastItemFlushRight(t *testing.T) {
	st := printer.DefaultStyle()
	flex := &layout.Flex{
		Justify: layout.JustifyEnd,
		Children: []layout.Child{
			{Node: &layout.Line{Length: 36, Fill: false}},
			{Node: &layout.Line{Length: 36, Fill: false}},
			{Node: &layout.Line{Length: 36, Fill: false}},
		},
	}
	const containerWidth = 3060
	placed, err := layout.Layout(flex, st, 0, 0, containerWidth, 1000)
	require.NoError(t, err)
	require.Len(t, placed.Children, 3)

	last := placed.Children[2]
	assert.Equal(t, containerWidth-36, last.X)
}

func TestJustifyCenterSplitsSlackEvenly(t *testing.T) {
	st := printer.DefaultStyle()
	flex := &layout.Flex{
		Justify:  layout.JustifyCenter,
		Children: []layout.Child{{Node: &layout.Line{Length: 100}}},
	}
	placed, err := layout.Layout(flex, st, 0, 0, 300, 100)
	require.NoError(t, err)
	require.Len(t, placed.Children, 1)
	assert.Equal(t, 100, placed.Children[0].X) // (300-100)/2
}

func TestJustifySpaceBetweenKeepsEndsFlush(t *testing.T) {
	st := printer.DefaultStyle()
	flex := &layout.Flex{
		Justify: layout.JustifySpaceBetween,
		Children: []layout.Child{
			{Node: &layout.Line{Length: 50}},
			{Node: &layout.Line{Length: 50}},
			{Node: &layout.Line{Length: 50}},
		},
	}
	placed, err := layout.Layout(flex, st, 0, 0, 300, 100)
	require.NoError(t, err)
	require.Len(t, placed.Children, 3)
	assert.Equal(t, 0, placed.Children[0].X)
	assert.Equal(t, 300-50, placed.Children[2].X)
}

func TestFlexGrowDistributesExtraSpaceProportionally(t *testing.T) {
	st := printer.DefaultStyle()
	flex := &layout.Flex{
		Children: []layout.Child{
			{Node: &layout.Line{Length: 10}, Style: layout.ItemStyle{FlexGrow: 1}},
			{Node: &layout.Line{Length: 10}, Style: layout.ItemStyle{FlexGrow: 3}},
		},
	}
	placed, err := layout.Layout(flex, st, 0, 0, 100, 100)
	require.NoError(t, err)
	require.Len(t, placed.Children, 2)
	// 80 extra dots split 1:3 -> +20 and +60.
	assert.Equal(t, 30, placed.Children[0].W)
	assert.Equal(t, 70, placed.Children[1].W)
}

func TestStackStacksChildrenVerticallyWithGap(t *testing.T) {
	st := printer.DefaultStyle()
	stack := &layout.Stack{
		Direction: layout.Column,
		Gap:       10,
		Children: []layout.Child{
			{Node: &layout.Line{Length: 20, Direction: layout.DirVertical}},
			{Node: &layout.Line{Length: 20, Direction: layout.DirVertical}},
		},
	}
	placed, err := layout.Layout(stack, st, 0, 0, 100, 1000)
	require.NoError(t, err)
	require.Len(t, placed.Children, 2)
	assert.Equal(t, 0, placed.Children[0].Y)
	// second child starts after the first child's height (lineHeight, not
	// Length, since Line's intrinsic height comes from lineHeight()) plus
	// the 10-dot gap.
	assert.Equal(t, placed.Children[0].H+10, placed.Children[1].Y)
}

func TestAbsolutePositionAnchorsToEdges(t *testing.T) {
	st := printer.DefaultStyle()
	right := 5
	bottom := 5
	stack := &layout.Stack{
		Direction: layout.Column,
		Children: []layout.Child{
			{
				Node: &layout.Line{Length: 20},
				Style: layout.ItemStyle{
					Position: layout.PosAbsolute,
					Right:    &right,
					Bottom:   &bottom,
					Width:    20,
					Height:   10,
				},
			},
		},
	}
	placed, err := layout.Layout(stack, st, 0, 0, 200, 100)
	require.NoError(t, err)
	require.Len(t, placed.Children, 1)
	abs := placed.Children[0]
	assert.Equal(t, 200-right-20, abs.X)
	assert.Equal(t, 100-bottom-10, abs.Y)
}

func TestTextAlignShiftsWithinAllocatedBox(t *testing.T) {
	st := printer.DefaultStyle()
	textW := layout.MeasureText("AB", st) // 72 dots at 10 CPI
	const boxW = 500

	build := func(textStyle printer.Style) *layout.Flex {
		return &layout.Flex{Children: []layout.Child{{
			Node:  &layout.Text{Content: "AB", Style: textStyle},
			Style: layout.ItemStyle{Width: boxW},
		}}}
	}

	right, err := layout.Layout(build(printer.Style{}.WithAlign(printer.AlignRight)), st, 0, 0, 600, 100)
	require.NoError(t, err)
	assert.Equal(t, boxW-textW, right.Children[0].X, "right-aligned text sits flush with the box's right edge")

	center, err := layout.Layout(build(printer.Style{}.WithAlign(printer.AlignCenter)), st, 0, 0, 600, 100)
	require.NoError(t, err)
	assert.Equal(t, (boxW-textW)/2, center.Children[0].X)

	left, err := layout.Layout(build(printer.Style{}), st, 0, 0, 600, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, left.Children[0].X)
}

func TestTextAlignPerNodeOverrideBeatsInheritedStyle(t *testing.T) {
	st := printer.DefaultStyle().WithAlign(printer.AlignRight)
	center := printer.AlignCenter
	flex := &layout.Flex{Children: []layout.Child{{
		Node:  &layout.Text{Content: "AB", Align: &center},
		Style: layout.ItemStyle{Width: 500},
	}}}
	placed, err := layout.Layout(flex, st, 0, 0, 600, 100)
	require.NoError(t, err)
	textW := layout.MeasureText("AB", printer.DefaultStyle())
	assert.Equal(t, (500-textW)/2, placed.Children[0].X)
}

func TestAlignItemsStretchFillsLineCrossAxis(t *testing.T) {
	st := printer.DefaultStyle()
	flex := &layout.Flex{
		Align: layout.AlignItemsStretch,
		Children: []layout.Child{
			{Node: &layout.Line{Length: 20}},
			{Node: &layout.Line{Length: 20, Style: printer.Style{}.WithDoubleHeight(true)}},
		},
	}
	placed, err := layout.Layout(flex, st, 0, 0, 100, 200)
	require.NoError(t, err)
	require.Len(t, placed.Children, 2)
	// Both items stretch to the line's cross size, set by the tallest
	// sibling (the double-height Line), not the shared row/line height of
	// a shorter item.
	assert.Equal(t, placed.Children[0].H, placed.Children[1].H)
}
