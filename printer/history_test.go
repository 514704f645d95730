package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escp2doc/escp2doc/printer"
)

func TestUndoRestoresPreviousCursor(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	before := s.X

	s.MoveBy(100, 0)
	assert.NotEqual(t, before, s.X)

	ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, before, s.X)
}

func TestUndoWithEmptyHistoryReturnsFalse(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	for s.HistoryLen() > 0 {
		s.Undo()
	}
	assert.False(t, s.Undo())
}

func TestHistoryLenGrowsAndShrinks(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	start := s.HistoryLen()
	s.MoveBy(10, 0)
	s.MoveBy(10, 0)
	assert.Equal(t, start+2, s.HistoryLen())
	s.Undo()
	assert.Equal(t, start+1, s.HistoryLen())
}

func TestSnapshotClonesTabBitsetsNotAliases(t *testing.T) {
	s := printer.New(printer.DefaultPaperConfig())
	s.SetHorizontalTabs([]int{5, 10})
	before := printer.SortedTabColumns(s.HorizontalTabs)

	s.MoveBy(1, 0)          // pushes a snapshot capturing the tab bitset as it is now
	s.HorizontalTabs.Set(1) // mutate the live bitset in place
	require.True(t, s.Undo())

	// Undo must restore the tab set captured at snapshot time, proving the
	// snapshot cloned the bitset rather than aliasing the live pointer.
	assert.Equal(t, before, printer.SortedTabColumns(s.HorizontalTabs))
}

func TestDiffLastTwoReportsOnlyTouchedFields(t *testing.T) {
	// Each mutator snapshots the state as it was *before* it runs, so the
	// two most recently pushed snapshots bracket the effect of the
	// second-to-last mutator (MoveBy here): entries[n-1] was captured right
	// after MoveBy completed and right before SetStyle ran.
	s := printer.New(printer.DefaultPaperConfig())
	s.MoveBy(10, 0)
	s.SetStyle(printer.DefaultStyle().WithBold(true))

	mask, ok := s.DiffLastTwo()
	require.True(t, ok)
	assert.True(t, mask.Test(printer.FieldX), "MoveBy's effect should appear in the bracketed diff")
	assert.False(t, mask.Test(printer.FieldStyle), "SetStyle had not yet run when the second snapshot was captured")
}
