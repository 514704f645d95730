package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escp2doc/escp2doc/printer"
	"github.com/escp2doc/escp2doc/unit"
)

func TestNewStartsAtTopLeftMargin(t *testing.T) {
	paper := printer.DefaultPaperConfig()
	s := printer.New(paper)
	assert.Equal(t, paper.Margins.Left, s.X)
	assert.Equal(t, paper.Margins.Top, s.Y)
	assert.Equal(t, 0, s.Page)
}

func TestMoveToClampsHorizontally(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	rightEdge := unit.Inches(s.Paper.WidthInches) - s.Paper.Margins.Right
	s.MoveTo(rightEdge+1000, s.Y)
	assert.Equal(t, rightEdge, s.X)
}

func TestAdvanceXUsesHMIAndDoublesUnderDoubleWidth(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	startX := s.X
	s.AdvanceX(1)
	assert.Equal(t, startX+unit.Dots(s.HMI()), s.X)

	s2 := printer.New(printer.DefaultPaperConfig())
	s2.SetStyle(printer.DefaultStyle().WithDoubleWidth(true))
	start2 := s2.X
	s2.AdvanceX(1)
	assert.Equal(t, start2+unit.Dots(s2.HMI()*2), s2.X)
}

func TestUpdateFontRecomputesHMI(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	before := s.HMI()
	s.UpdateFont(printer.Style{}.WithCPI(printer.CPI15))
	assert.NotEqual(t, before, s.HMI())
	assert.Equal(t, printer.CPI15, s.Style.CPI)
}

func TestLineFeedAdvancesYAndFlagsPageBreak(t *testing.T) {
	paper := printer.PaperConfig{
		WidthInches: 8, HeightInches: 0.1,
		Margins:      printer.Margins{Top: 0, Bottom: 0, Left: 10, Right: 10},
		LinesPerPage: 1,
	}
	s := printer.New(paper)
	// printable height is tiny; a single line feed should cross the bottom
	// margin and report a page break.
	broke := s.LineFeed()
	require.True(t, broke)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, paper.Margins.Top, s.Y)
}

func TestFormFeedResetsCursorAndIncrementsPage(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	s.MoveBy(100, 100)
	s.FormFeed()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, s.Paper.Margins.Left, s.X)
	assert.Equal(t, s.Paper.Margins.Top, s.Y)
}

func TestHorizontalTabMovesToNextStop(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	s.SetHorizontalTabs([]int{5, 10, 20})
	hmi := s.HMI()
	s.HorizontalTab()
	assert.Equal(t, s.Paper.Margins.Left+unit.Dots(5*hmi), s.X)
	s.HorizontalTab()
	assert.Equal(t, s.Paper.Margins.Left+unit.Dots(10*hmi), s.X)
}

func TestHorizontalTabNoFurtherStopDoesNotMove(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	s.SetHorizontalTabs([]int{1})
	s.HorizontalTab()
	before := s.X
	s.HorizontalTab() // no stop beyond column 1
	assert.Equal(t, before, s.X)
}

func TestCheckLineWrap(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	rightEdge := unit.Inches(s.Paper.WidthInches) - s.Paper.Margins.Right
	s.MoveTo(rightEdge-10, s.Y)
	assert.True(t, s.CheckLineWrap(20))
	assert.False(t, s.CheckLineWrap(5))
}

func TestResetPreservesPaperConfig(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	s.MoveBy(50, 50)
	s.SetStyle(printer.DefaultStyle().WithBold(true))
	paper := s.Paper
	s.Reset()
	assert.Equal(t, paper, s.Paper)
	assert.Equal(t, paper.Margins.Left, s.X)
	assert.False(t, s.Style.Bold)
}

func TestPaperConfigValidate(t *testing.T) {
	good := printer.DefaultPaperConfig()
	assert.NoError(t, good.Validate())

	bad := printer.PaperConfig{
		WidthInches: 1, HeightInches: 1,
		Margins: printer.Margins{Left: 200, Right: 200, Top: 10, Bottom: 10},
	}
	assert.Error(t, bad.Validate())
}
