package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escp2doc/escp2doc/layout"
	"github.com/escp2doc/escp2doc/printer"
	"github.com/escp2doc/escp2doc/table"
)

func simpleSpec() table.Spec {
	return table.Spec{
		Columns: []table.Column{
			{Header: "Name", Width: table.ColumnWidth{Kind: layout.ColWidthFill}},
			{Header: "Qty", Width: table.ColumnWidth{Kind: layout.ColWidthFixed, Dots: 200}},
		},
		Rows: []table.Row{
			{Cells: []string{"Widget", "3"}},
			{Cells: []string{"Gadget", "7"}},
		},
		CPI: printer.CPI10,
	}
}

func TestBuildRejectsEmptyColumns(t *testing.T) {
	_, err := table.Build(table.Spec{})
	assert.Error(t, err)
}

func TestBuildRejectsRowWithWrongCellCount(t *testing.T) {
	spec := simpleSpec()
	spec.Rows[0].Cells = []string{"onlyOne"}
	_, err := table.Build(spec)
	assert.Error(t, err)
}

func TestBuildCharModeProducesOneRowPerBorderHeaderAndDataRow(t *testing.T) {
	spec := simpleSpec()
	spec.Mode = table.BorderChar
	out, err := table.Build(spec)
	require.NoError(t, err)

	// top border + header + separator + 2 data rows + 1 separator + bottom border = 7
	assert.Equal(t, layout.Column, out.Direction)
	assert.Len(t, out.Children, 7)
	for _, c := range out.Children {
		assert.True(t, c.Style.KeepTogether, "every table row must be atomic so pagination never splits it")
	}
}

func TestBuildGraphicsModeProducesSameRowCountAsCharMode(t *testing.T) {
	spec := simpleSpec()
	spec.Mode = table.BorderGraphics
	out, err := table.Build(spec)
	require.NoError(t, err)
	assert.Len(t, out.Children, 7)
}

func TestBuildAutoModePicksCharWhenCharTableSupportsBoxDrawing(t *testing.T) {
	spec := simpleSpec()
	spec.CharTable = "CP437"
	charOut, err := table.Build(spec)
	require.NoError(t, err)

	spec.Mode = table.BorderChar
	explicitOut, err := table.Build(spec)
	require.NoError(t, err)

	assert.Equal(t, len(explicitOut.Children), len(charOut.Children))
}

func TestBuildAutoModeFallsBackToGraphicsWhenCharTableUnset(t *testing.T) {
	spec := simpleSpec()
	// CharTable left empty -> font.SupportsBoxDrawing("") is false.
	out, err := table.Build(spec)
	require.NoError(t, err)

	graphicsSpec := spec
	graphicsSpec.Mode = table.BorderGraphics
	graphicsOut, err := table.Build(graphicsSpec)
	require.NoError(t, err)

	assert.Equal(t, len(graphicsOut.Children), len(out.Children))
}

func TestBuildSingleColumnTableHasNoInternalSeparatorsBeyondHeaderAndRows(t *testing.T) {
	spec := table.Spec{
		Columns: []table.Column{{Header: "Only"}},
		Rows:    []table.Row{{Cells: []string{"one"}}},
		CPI:     printer.CPI10,
		Mode:    table.BorderChar,
	}
	out, err := table.Build(spec)
	require.NoError(t, err)
	// top, header, separator, data row, bottom = 5 (single row -> no trailing separator)
	assert.Len(t, out.Children, 5)
}
