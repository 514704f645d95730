// Package printer implements the engine's stateful PrinterState manager:
// cursor, font, margins, line spacing, unit tables, and the bounded
// snapshot history that backs one-level undo in test harnesses.
package printer

import "github.com/escp2doc/escp2doc/font"

// Quality selects draft or letter-quality print mode.
type Quality int

const (
	Draft Quality = iota
	LQ
)

// CPI enumerates the three selectable characters-per-inch densities.
type CPI int

const (
	CPI10 CPI = 10
	CPI12 CPI = 12
	CPI15 CPI = 15
)

// Align is the text alignment carried by Style and consumed by the layout
// engine's measurement and flex placement.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style is the inherited style context threaded down the layout tree as
// a parameter rather than mutated in place on node objects. Every field
// is overridable per node; a zero-value Style inherits the parent's
// resolved style field-by-field via Style.Merge.
type Style struct {
	Bold           bool
	Italic         bool
	Underline      bool
	DoubleStrike   bool
	DoubleWidth    bool
	DoubleHeight   bool
	Condensed      bool
	CPI            CPI
	Typeface       font.Typeface
	Quality        Quality
	InterCharSpace int // dots
	Align          Align

	hasCPI            bool
	hasTypeface       bool
	hasQuality        bool
	hasAlign          bool
	hasBold           bool
	hasItalic         bool
	hasUnderline      bool
	hasDoubleStrike   bool
	hasDoubleWidth    bool
	hasDoubleHeight   bool
	hasCondensed      bool
	hasInterCharSpace bool
}

// DefaultStyle is the root style every LayoutNode tree inherits from:
// 10 CPI, Roman, LQ, left-aligned, no emphasis. Every field here counts as
// explicitly set, so a fresh document always resolves a definite style
// with no further ambient context needed.
func DefaultStyle() Style {
	return Style{
		CPI:               CPI10,
		Typeface:          font.Roman,
		Quality:           LQ,
		Align:             AlignLeft,
		hasCPI:            true,
		hasTypeface:       true,
		hasQuality:        true,
		hasAlign:          true,
		hasBold:           true,
		hasItalic:         true,
		hasUnderline:      true,
		hasDoubleStrike:   true,
		hasDoubleWidth:    true,
		hasDoubleHeight:   true,
		hasCondensed:      true,
		hasInterCharSpace: true,
	}
}

// WithCPI returns a copy of s with an explicit CPI override.
func (s Style) WithCPI(c CPI) Style { s.CPI = c; s.hasCPI = true; return s }

// WithTypeface returns a copy of s with an explicit typeface override.
func (s Style) WithTypeface(tf font.Typeface) Style { s.Typeface = tf; s.hasTypeface = true; return s }

// WithQuality returns a copy of s with an explicit quality override.
func (s Style) WithQuality(q Quality) Style { s.Quality = q; s.hasQuality = true; return s }

// WithAlign returns a copy of s with an explicit alignment override.
func (s Style) WithAlign(a Align) Style { s.Align = a; s.hasAlign = true; return s }

// WithBold returns a copy of s with an explicit bold override.
func (s Style) WithBold(on bool) Style { s.Bold = on; s.hasBold = true; return s }

// WithItalic returns a copy of s with an explicit italic override.
func (s Style) WithItalic(on bool) Style { s.Italic = on; s.hasItalic = true; return s }

// WithUnderline returns a copy of s with an explicit underline override.
func (s Style) WithUnderline(on bool) Style { s.Underline = on; s.hasUnderline = true; return s }

// WithDoubleStrike returns a copy of s with an explicit double-strike override.
func (s Style) WithDoubleStrike(on bool) Style { s.DoubleStrike = on; s.hasDoubleStrike = true; return s }

// WithDoubleWidth returns a copy of s with an explicit double-width override.
func (s Style) WithDoubleWidth(on bool) Style { s.DoubleWidth = on; s.hasDoubleWidth = true; return s }

// WithDoubleHeight returns a copy of s with an explicit double-height override.
func (s Style) WithDoubleHeight(on bool) Style { s.DoubleHeight = on; s.hasDoubleHeight = true; return s }

// WithCondensed returns a copy of s with an explicit condensed override.
func (s Style) WithCondensed(on bool) Style { s.Condensed = on; s.hasCondensed = true; return s }

// WithInterCharSpace returns a copy of s with an explicit intercharacter
// space override, in dots.
func (s Style) WithInterCharSpace(dots int) Style {
	s.InterCharSpace = dots
	s.hasInterCharSpace = true
	return s
}

// Merge resolves child (a partial override) against parent (the fully
// resolved inherited style): fields the child never set fall back to the
// inherited style rather than zeroing out.
func (parent Style) Merge(child Style) Style {
	out := parent
	if child.hasBold {
		out.Bold = child.Bold
		out.hasBold = true
	}
	if child.hasItalic {
		out.Italic = child.Italic
		out.hasItalic = true
	}
	if child.hasUnderline {
		out.Underline = child.Underline
		out.hasUnderline = true
	}
	if child.hasDoubleStrike {
		out.DoubleStrike = child.DoubleStrike
		out.hasDoubleStrike = true
	}
	if child.hasDoubleWidth {
		out.DoubleWidth = child.DoubleWidth
		out.hasDoubleWidth = true
	}
	if child.hasDoubleHeight {
		out.DoubleHeight = child.DoubleHeight
		out.hasDoubleHeight = true
	}
	if child.hasCondensed {
		out.Condensed = child.Condensed
		out.hasCondensed = true
	}
	if child.hasCPI {
		out.CPI = child.CPI
		out.hasCPI = true
	}
	if child.hasTypeface {
		out.Typeface = child.Typeface
		out.hasTypeface = true
	}
	if child.hasQuality {
		out.Quality = child.Quality
		out.hasQuality = true
	}
	if child.hasAlign {
		out.Align = child.Align
		out.hasAlign = true
	}
	if child.hasInterCharSpace {
		out.InterCharSpace = child.InterCharSpace
		out.hasInterCharSpace = true
	}
	return out
}

// HMI computes the Horizontal Motion Index for this style: the character
// advance in dots at the current CPI, scaled by 0.6 when condensed.
func (s Style) HMI() int {
	cpi := s.CPI
	if cpi == 0 {
		cpi = CPI10
	}
	hmi := 360.0 / float64(cpi)
	if s.Condensed {
		hmi *= 0.6
	}
	return roundHalfAwayFromZero(hmi)
}

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
