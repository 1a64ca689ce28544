package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "AIPEPortfolio_new.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestConvertWorkbookToJSON(t *testing.T) {
	input := writeWorkbook(t, [][]any{
		{"代码", "名称", "仓位"},
		{"600000", "浦发银行", 0.25},
		{"HK00700", "腾讯控股", 0.1},
	})
	output := filepath.Join(t.TempDir(), "AIPEPortfolio.json")

	require.NoError(t, Convert(input, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "浦发银行")

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	assert.Equal(t, "600000", records[0]["代码"])
	assert.Equal(t, 0.25, records[0]["仓位"])
	assert.Equal(t, "腾讯控股", records[1]["名称"])
}

func TestConvertMissingInput(t *testing.T) {
	err := Convert(filepath.Join(t.TempDir(), "nope.xlsx"), filepath.Join(t.TempDir(), "out.json"))
	assert.Error(t, err)
}
