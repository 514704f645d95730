package printer

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/escp2doc/escp2doc/escperr"
	"github.com/escp2doc/escp2doc/unit"
)

// Margins in dots from each paper edge.
type Margins struct {
	Top, Bottom, Left, Right unit.Dots
}

// PaperConfig describes the physical sheet and printable area. A
// zero-value PaperConfig has no printable area and fails Validate; start
// from DefaultPaperConfig and override as needed.
type PaperConfig struct {
	WidthInches, HeightInches float64
	Margins                   Margins
	LinesPerPage              int
}

// DefaultPaperConfig returns the reference paper configuration: roughly
// 14.847"x8.542", 90-dot top/bottom margins, 225-dot left/right margins,
// 51 lines per page.
func DefaultPaperConfig() PaperConfig {
	return PaperConfig{
		WidthInches:  1069.0 / 72.0,
		HeightInches: 615.0 / 72.0,
		Margins: Margins{
			Top: 90, Bottom: 90, Left: 225, Right: 225,
		},
		LinesPerPage: 51,
	}
}

// Validate checks that the configuration yields a positive printable
// area, returning a Configuration error otherwise.
func (p PaperConfig) Validate() error {
	w := unit.Inches(p.WidthInches) - p.Margins.Left - p.Margins.Right
	h := unit.Inches(p.HeightInches) - p.Margins.Top - p.Margins.Bottom
	if w <= 0 {
		return escperr.Configurationf("margins", p.Margins, "left+right margins leave no printable width")
	}
	if h <= 0 {
		return escperr.Configurationf("margins", p.Margins, "top+bottom margins leave no printable height")
	}
	return nil
}

// Units selects the ESC/P2 unit-select divisors.
type Units struct {
	Base                            int
	Horizontal, Vertical, PageUnits int
}

func defaultUnits() Units {
	return Units{Base: unit.BaseUnit, Horizontal: 4, Vertical: 4, PageUnits: 4}
}

// GraphicsMode tracks the active bit-image density mode and any
// reassigned modes (ESC ? reassignment).
type GraphicsMode struct {
	Mode            int
	ReassignedModes map[int]int
}

func (g GraphicsMode) clone() GraphicsMode {
	out := GraphicsMode{Mode: g.Mode}
	if g.ReassignedModes != nil {
		out.ReassignedModes = make(map[int]int, len(g.ReassignedModes))
		for k, v := range g.ReassignedModes {
			out.ReassignedModes[k] = v
		}
	}
	return out
}

// PrinterState is the single source of truth for cursor, font, margins,
// and unit configuration shared by both the render emitter and the
// virtual bitmap renderer. No operation ever fails: out-of-range
// coordinates clamp silently rather than returning an error.
type PrinterState struct {
	X, Y unit.Dots
	Page int

	Paper PaperConfig

	Style Style

	LineSpacing    unit.Dots
	InterCharSpace unit.Dots

	hmi      int
	hmiValid bool

	CharTable             string
	InternationalCharset  int
	Justification         bool
	Unidirectional        bool

	HorizontalTabs *bitset.BitSet
	VerticalTabs   *bitset.BitSet

	Units    Units
	Graphics GraphicsMode

	history *history
}

// New constructs a PrinterState for the given paper configuration. The
// cursor starts at the top-left printable origin.
func New(paper PaperConfig) *PrinterState {
	s := &PrinterState{
		Paper:          paper,
		Style:          DefaultStyle(),
		LineSpacing:    60, // 1/6"
		Units:          defaultUnits(),
		HorizontalTabs: bitset.New(256),
		VerticalTabs:   bitset.New(256),
		history:        newHistory(defaultHistoryCapacity),
	}
	s.X, s.Y = paper.Margins.Left, paper.Margins.Top
	s.recomputeHMI()
	return s
}

const defaultHistoryCapacity = 100

// printableWidth returns the horizontal extent in dots between the left
// and right margins.
func (s *PrinterState) printableWidth() unit.Dots {
	return unit.Inches(s.Paper.WidthInches) - s.Paper.Margins.Left - s.Paper.Margins.Right
}

// printableHeight returns the vertical extent in dots between the top and
// bottom margins.
func (s *PrinterState) printableHeight() unit.Dots {
	return unit.Inches(s.Paper.HeightInches) - s.Paper.Margins.Top - s.Paper.Margins.Bottom
}

func (s *PrinterState) leftMargin() unit.Dots  { return s.Paper.Margins.Left }
func (s *PrinterState) rightEdge() unit.Dots {
	return unit.Inches(s.Paper.WidthInches) - s.Paper.Margins.Right
}
func (s *PrinterState) topMargin() unit.Dots { return s.Paper.Margins.Top }
func (s *PrinterState) bottomEdge() unit.Dots {
	return unit.Inches(s.Paper.HeightInches) - s.Paper.Margins.Bottom
}

// recomputeHMI recomputes the cached horizontal motion index. Any
// mutation of CPI or condensed must recompute it in the same operation.
func (s *PrinterState) recomputeHMI() {
	s.hmi = s.Style.HMI()
	s.hmiValid = true
}

// HMI returns the current horizontal motion index in dots, recomputing if
// stale.
func (s *PrinterState) HMI() int {
	if !s.hmiValid {
		s.recomputeHMI()
	}
	return s.hmi
}

// SetStyle replaces the current font style, atomically recomputing HMI.
func (s *PrinterState) SetStyle(style Style) {
	s.snapshot("SetStyle")
	s.Style = style
	s.recomputeHMI()
}

// UpdateFont merges a partial style into the current one (per-node style
// resolution, see Style.Merge).
func (s *PrinterState) UpdateFont(partial Style) {
	s.snapshot("UpdateFont")
	s.Style = s.Style.Merge(partial)
	s.recomputeHMI()
}

// UpdateFontStyle is an alias kept for symmetry with the engine's other
// small, single-purpose style mutators.
func (s *PrinterState) UpdateFontStyle(partial Style) { s.UpdateFont(partial) }

// MoveTo sets the cursor absolutely, clamping X to the printable band
// between the left and right margins.
func (s *PrinterState) MoveTo(x, y unit.Dots) {
	s.snapshot("MoveTo")
	s.X = x.Clamp(s.leftMargin(), s.rightEdge())
	s.Y = y
	s.checkPageBreakInternal()
}

// MoveBy moves the cursor by a relative delta, clamping horizontally.
func (s *PrinterState) MoveBy(dx, dy unit.Dots) {
	s.MoveTo(s.X+dx, s.Y+dy)
}

// AdvanceX moves the cursor forward by the given number of character
// cells at the current HMI, each followed by the active intercharacter
// space.
func (s *PrinterState) AdvanceX(chars int) {
	adv := unit.Dots(s.HMI())
	if s.Style.DoubleWidth {
		adv *= 2
	}
	adv += s.InterCharSpace
	s.MoveBy(adv*unit.Dots(chars), 0)
}

// CarriageReturn resets X to the left margin.
func (s *PrinterState) CarriageReturn() {
	s.snapshot("CarriageReturn")
	s.X = s.leftMargin()
}

// calculateLineHeight returns the vertical advance for one line feed,
// doubling when double-height text is active.
func calculateLineHeight(spacing unit.Dots, doubleHeight bool) unit.Dots {
	if doubleHeight {
		return spacing * 2
	}
	return spacing
}

// LineFeed advances Y by the current line spacing and checks for a page
// break.
func (s *PrinterState) LineFeed() bool {
	s.snapshot("LineFeed")
	s.Y += calculateLineHeight(s.LineSpacing, s.Style.DoubleHeight)
	return s.checkPageBreakInternal()
}

// NewLine performs CarriageReturn followed by LineFeed.
func (s *PrinterState) NewLine() bool {
	s.CarriageReturn()
	return s.LineFeed()
}

// FormFeed advances to the next page, resetting the cursor to the top-left
// printable origin.
func (s *PrinterState) FormFeed() {
	s.snapshot("FormFeed")
	s.Page++
	s.X = s.leftMargin()
	s.Y = s.topMargin()
}

// checkPageBreakInternal advances the page exactly once if Y has crossed
// the bottom margin, and reports whether it did.
func (s *PrinterState) checkPageBreakInternal() bool {
	if s.Y > s.bottomEdge() {
		s.Page++
		s.Y = s.topMargin()
		s.X = s.leftMargin()
		return true
	}
	return false
}

// CheckPageBreak exposes the page-break check as a pure query usable
// without mutating the cursor, by simulating the prospective Y.
func (s *PrinterState) CheckPageBreak(prospectiveY unit.Dots) bool {
	return prospectiveY > s.bottomEdge()
}

// CheckLineWrap reports whether advancing the cursor by `extra` dots would
// cross the right margin.
func (s *PrinterState) CheckLineWrap(extra unit.Dots) bool {
	return s.X+extra > s.rightEdge()
}

// WrapLine performs the line-wrap action (CR+LF) when text would overflow
// the right margin; the builder's text-wrap collaborator decides when to
// invoke it.
func (s *PrinterState) WrapLine() {
	s.NewLine()
}

// HorizontalTab moves the cursor to the next column in HorizontalTabs
// strictly greater than the current column, measured in HMI-wide cells
// from the left margin. If no further tab stop exists, the cursor does
// not move.
func (s *PrinterState) HorizontalTab() {
	hmi := s.HMI()
	if hmi <= 0 {
		return
	}
	curCol := int((s.X - s.leftMargin()) / unit.Dots(hmi))
	next, ok := nextSetBit(s.HorizontalTabs, curCol+1)
	if !ok {
		return
	}
	s.snapshot("HorizontalTab")
	s.X = s.leftMargin() + unit.Dots(next*hmi)
}

// SetHorizontalTabs replaces the sorted set of horizontal tab columns.
func (s *PrinterState) SetHorizontalTabs(columns []int) {
	s.snapshot("SetHorizontalTabs")
	s.HorizontalTabs = bitsetFromColumns(columns)
}

// SetVerticalTabs replaces the sorted set of vertical tab line numbers.
func (s *PrinterState) SetVerticalTabs(lines []int) {
	s.snapshot("SetVerticalTabs")
	s.VerticalTabs = bitsetFromColumns(lines)
}

func bitsetFromColumns(columns []int) *bitset.BitSet {
	max := uint(256)
	for _, c := range columns {
		if uint(c)+1 > max {
			max = uint(c) + 1
		}
	}
	b := bitset.New(max)
	for _, c := range columns {
		if c >= 0 {
			b.Set(uint(c))
		}
	}
	return b
}

func nextSetBit(b *bitset.BitSet, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	idx, ok := b.NextSet(uint(from))
	if !ok {
		return 0, false
	}
	return int(idx), true
}

// SortedTabColumns returns the tab stop columns in ascending order, used
// by tests and by diagnostics.
func SortedTabColumns(b *bitset.BitSet) []int {
	out := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, int(i))
	}
	sort.Ints(out)
	return out
}

// Reset rebuilds the state, preserving the paper configuration.
func (s *PrinterState) Reset() {
	s.snapshot("Reset")
	paper := s.Paper
	hist := s.history
	*s = *New(paper)
	s.history = hist
}
