package printer

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/escp2doc/escp2doc/unit"
)

// Field indices for the bitset-backed dirty mask used by snapshot
// diffing, a test-only supplement layered on top of the plain
// snapshot/undo mechanism.
const (
	FieldX = iota
	FieldY
	FieldPage
	FieldStyle
	FieldLineSpacing
	FieldInterCharSpace
	FieldCharTable
	FieldHorizontalTabs
	FieldVerticalTabs
	FieldGraphics
	fieldCount
)

// snapshotData is a fully deep-copied capture of the mutable fields of a
// PrinterState. Cloning must reconstruct nested containers (style, tab
// bitsets, the graphics reassigned-modes map) rather than aliasing them,
// or a later mutation on the live state would silently corrupt an
// already-pushed snapshot.
type snapshotData struct {
	reason string

	x, y unit.Dots
	page int

	style Style

	lineSpacing    unit.Dots
	interCharSpace unit.Dots

	charTable            string
	internationalCharset int
	justification        bool
	unidirectional       bool

	horizontalTabs *bitset.BitSet
	verticalTabs   *bitset.BitSet

	units    Units
	graphics GraphicsMode
}

func captureSnapshot(s *PrinterState, reason string) snapshotData {
	return snapshotData{
		reason:               reason,
		x:                    s.X,
		y:                    s.Y,
		page:                 s.Page,
		style:                s.Style, // Style is a value type with only value fields: safe to copy
		lineSpacing:          s.LineSpacing,
		interCharSpace:       s.InterCharSpace,
		charTable:            s.CharTable,
		internationalCharset: s.InternationalCharset,
		justification:        s.Justification,
		unidirectional:       s.Unidirectional,
		horizontalTabs:       cloneBitset(s.HorizontalTabs),
		verticalTabs:         cloneBitset(s.VerticalTabs),
		units:                s.Units,
		graphics:             s.Graphics.clone(),
	}
}

func cloneBitset(b *bitset.BitSet) *bitset.BitSet {
	if b == nil {
		return nil
	}
	clone := b.Clone()
	return clone
}

func (snap snapshotData) restore(s *PrinterState) {
	s.X = snap.x
	s.Y = snap.y
	s.Page = snap.page
	s.Style = snap.style
	s.recomputeHMI()
	s.LineSpacing = snap.lineSpacing
	s.InterCharSpace = snap.interCharSpace
	s.CharTable = snap.charTable
	s.InternationalCharset = snap.internationalCharset
	s.Justification = snap.justification
	s.Unidirectional = snap.unidirectional
	s.HorizontalTabs = cloneBitset(snap.horizontalTabs)
	s.VerticalTabs = cloneBitset(snap.verticalTabs)
	s.Units = snap.units
	s.Graphics = snap.graphics.clone()
}

// diffMask reports which fields differ between two snapshots as a bitset
// indexed by the Field* constants above.
func diffMask(a, b snapshotData) *bitset.BitSet {
	mask := bitset.New(fieldCount)
	if a.x != b.x {
		mask.Set(FieldX)
	}
	if a.y != b.y {
		mask.Set(FieldY)
	}
	if a.page != b.page {
		mask.Set(FieldPage)
	}
	if a.style != b.style {
		mask.Set(FieldStyle)
	}
	if a.lineSpacing != b.lineSpacing {
		mask.Set(FieldLineSpacing)
	}
	if a.interCharSpace != b.interCharSpace {
		mask.Set(FieldInterCharSpace)
	}
	if a.charTable != b.charTable {
		mask.Set(FieldCharTable)
	}
	if !a.horizontalTabs.Equal(b.horizontalTabs) {
		mask.Set(FieldHorizontalTabs)
	}
	if !a.verticalTabs.Equal(b.verticalTabs) {
		mask.Set(FieldVerticalTabs)
	}
	if a.graphics.Mode != b.graphics.Mode || len(a.graphics.ReassignedModes) != len(b.graphics.ReassignedModes) {
		mask.Set(FieldGraphics)
	}
	return mask
}

// history is a bounded ring buffer of deep-copied PrinterState snapshots,
// enabling one-level-at-a-time undo for test harnesses.
type history struct {
	capacity int
	entries  []snapshotData
}

func newHistory(capacity int) *history {
	if capacity < 1 {
		capacity = 1
	}
	return &history{capacity: capacity}
}

func (h *history) push(snap snapshotData) {
	h.entries = append(h.entries, snap)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

func (h *history) pop() (snapshotData, bool) {
	if len(h.entries) == 0 {
		return snapshotData{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

// snapshot records the current state before a mutating operation. Every
// public mutator on PrinterState calls this first.
func (s *PrinterState) snapshot(reason string) {
	if s.history == nil {
		return
	}
	s.history.push(captureSnapshot(s, reason))
}

// Undo restores the most recently pushed snapshot, reverting the last
// mutating operation. Returns false if there is no history to undo.
func (s *PrinterState) Undo() bool {
	snap, ok := s.history.pop()
	if !ok {
		return false
	}
	snap.restore(s)
	return true
}

// HistoryLen reports how many undoable snapshots are currently retained.
func (s *PrinterState) HistoryLen() int {
	if s.history == nil {
		return 0
	}
	return len(s.history.entries)
}

// DiffLastTwo returns the bitset of fields that differ between the two
// most recently pushed snapshots, used by tests asserting precisely which
// fields a mutator touched.
func (s *PrinterState) DiffLastTwo() (*bitset.BitSet, bool) {
	if s.history == nil || len(s.history.entries) < 2 {
		return nil, false
	}
	n := len(s.history.entries)
	return diffMask(s.history.entries[n-2], s.history.entries[n-1]), true
}
