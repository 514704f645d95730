package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escp2doc/escp2doc/escp"
	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
	"github.com/escp2doc/escp2doc/render"
)

func textPlaced(x, y int, content string, st printer.Style) *layout.Placed {
	return &layout.Placed{Node: &layout.Text{Content: content}, X: x, Y: y, Style: st}
}

// zeroMarginPaper keeps page-local coordinates identical to page-origin
// coordinates so the byte expectations below stay literal.
func zeroMarginPaper() printer.PaperConfig {
	return printer.PaperConfig{WidthInches: 8.5, HeightInches: 11, LinesPerPage: 51}
}

func TestEmitStartsWithInitializeAndEndsWithNoTrailingFormFeed(t *testing.T) {
	pages := []layout.Page{{Items: []*layout.Placed{textPlaced(0, 0, "A", printer.DefaultStyle())}}}
	out, diags, err := render.Emit(pages, zeroMarginPaper())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, escp.Initialize(), out[:len(escp.Initialize())])
	assert.NotContains(t, string(out), string(escp.FormFeed()))
}

func TestEmitSeparatesPagesWithFormFeed(t *testing.T) {
	pages := []layout.Page{
		{Items: []*layout.Placed{textPlaced(0, 0, "A", printer.DefaultStyle())}},
		{Items: []*layout.Placed{textPlaced(0, 0, "B", printer.DefaultStyle())}},
	}
	out, _, err := render.Emit(pages, zeroMarginPaper())
	require.NoError(t, err)
	assert.Contains(t, string(out), string(escp.FormFeed()))
}

func TestEmitDiffsStyleOnlyWhenItChanges(t *testing.T) {
	bold := printer.DefaultStyle().WithBold(true)
	pages := []layout.Page{{Items: []*layout.Placed{
		textPlaced(0, 0, "A", bold),
		textPlaced(100, 0, "B", bold),
	}}}
	out, _, err := render.Emit(pages, zeroMarginPaper())
	require.NoError(t, err)
	// Exactly one Bold-on command should appear even though both items
	// share the bold style (no redundant re-emission between them).
	boldOn := escp.Bold(true)
	count := 0
	for i := 0; i+len(boldOn) <= len(out); i++ {
		match := true
		for j := range boldOn {
			if out[i+j] != boldOn[j] {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEmitOrdersItemsByYThenXThenDocumentOrder(t *testing.T) {
	pages := []layout.Page{{Items: []*layout.Placed{
		textPlaced(100, 0, "second", printer.DefaultStyle()),
		textPlaced(0, 0, "first", printer.DefaultStyle()),
		textPlaced(0, 60, "third", printer.DefaultStyle()),
	}}}
	out, _, err := render.Emit(pages, zeroMarginPaper())
	require.NoError(t, err)
	// "first" (y0,x0) must precede "second" (y0,x100), which must precede
	// "third" (y60,x0), since payload bytes are plain ASCII here.
	iFirst := indexOf(out, "first")
	iSecond := indexOf(out, "second")
	iThird := indexOf(out, "third")
	require.True(t, iFirst >= 0 && iSecond >= 0 && iThird >= 0)
	assert.Less(t, iFirst, iSecond)
	assert.Less(t, iSecond, iThird)
}

func indexOf(haystack []byte, needle string) int {
	n := []byte(needle)
	for i := 0; i+len(n) <= len(haystack); i++ {
		match := true
		for j := range n {
			if haystack[i+j] != n[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
