package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRoundTripStrings(t *testing.T) {
	in := &Table{
		Columns: []string{"ID", "English Name", "Arabic Name", "Category", "Unit"},
		Rows: []Row{
			{"ID": "P1", "English Name": "Rice", "Arabic Name": "أرز", "Category": "Grain", "Unit": "kg"},
			{"ID": "P2", "English Name": "Sugar", "Arabic Name": "سكر", "Category": "Pantry", "Unit": "kg"},
			{"ID": "007", "English Name": "Eggs", "Arabic Name": "بيض", "Category": "", "Unit": "pcs"},
		},
	}

	data, err := Encode(in, "Products")
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, in.Rows, out.Rows)
}

func TestRoundTripNumbers(t *testing.T) {
	in := &Table{
		Columns: []string{"id", "total", "qty"},
		Rows: []Row{
			{"id": "ORD-1", "total": 12.5, "qty": float64(3)},
			{"id": "ORD-2", "total": "0.00", "qty": float64(1)},
		},
	}

	data, err := Encode(in, "Orders")
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.Rows, out.Rows)
}

func TestDecodeDefaultsMissingCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ID", "English Name", "Unit"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "P1"))
	require.NoError(t, f.SetCellValue("Sheet1", "C3", "kg"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	assert.Equal(t, Row{"ID": "P1", "English Name": "", "Unit": ""}, out.Rows[0])
	assert.Equal(t, Row{"ID": "", "English Name": "", "Unit": "kg"}, out.Rows[1])
}

func TestDecodeSkipsBlankRowsAndRenamesDuplicates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"note", "note", "", "x"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"a", "b", "ignored", "c"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"d", "", "", ""}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := Decode(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"note", "note_1", "x"}, out.Columns)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, Row{"note": "a", "note_1": "b", "x": "c"}, out.Rows[0])
	assert.Equal(t, "d", out.Rows[1]["note"])
}

func TestDecodeSuffixSkipsLiteralHeaders(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"X", "X", "X_1"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"a", "b", "c"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := Decode(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "X_2", "X_1"}, out.Columns)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, Row{"X": "a", "X_2": "b", "X_1": "c"}, out.Rows[0])
}

func TestHeaderNames(t *testing.T) {
	assert.Equal(t, []string{"a", "a_1", "a_2"}, headerNames([]string{"a", "a", "a"}))
	assert.Equal(t, []string{"a_1", "a", "a_2"}, headerNames([]string{"a_1", "a", "a"}))
	assert.Equal(t, []string{"a", "", "b"}, headerNames([]string{" a ", "  ", "b"}))
}

func TestRoundTripKeepsStringsVerbatim(t *testing.T) {
	in := &Table{
		Columns: []string{"ID", "English Name", "Unit"},
		Rows: []Row{
			{"ID": " P1", "English Name": "Rice ", "Unit": ""},
			{"ID": "007", "English Name": "1e5", "Unit": " kg "},
		},
	}

	data, err := Encode(in, "Products")
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.Rows, out.Rows)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("definitely not a zip archive"))
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))

	_, err = Decode(nil)
	assert.True(t, IsDecodeError(err))
}

func TestDecodeHeaderOnly(t *testing.T) {
	data, err := Encode(&Table{Columns: []string{"ID", "Unit"}}, "Products")
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Unit"}, out.Columns)
	assert.Empty(t, out.Rows)
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "abc", Text("abc"))
	assert.Equal(t, "42", Text(float64(42)))
	assert.Equal(t, "12.5", Text(12.5))
}
