package portfolio

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Convert reads an uploaded portfolio workbook (header row plus one row per
// holding) and rewrites it as a JSON array of row objects. Cells that parse
// as numbers stay numeric in the output.
func Convert(inputPath, outputPath string) error {
	log.Printf("Reading portfolio workbook: %s", inputPath)
	f, err := excelize.OpenFile(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("workbook %s has no rows", inputPath)
	}

	header := rows[0]
	records := make([]map[string]any, 0, len(rows)-1)
	for r, row := range rows[1:] {
		record := make(map[string]any, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			record[key] = cellValue(f, sheet, i+1, r+2, cell)
		}
		records = append(records, record)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode %s: %w", outputPath, err)
	}
	log.Printf("Wrote %d portfolio records to %s", len(records), outputPath)
	return nil
}

// cellValue keeps text cells textual (security codes must not collapse into
// floats) and converts genuinely numeric cells to numbers.
func cellValue(f *excelize.File, sheet string, col, row int, cell string) any {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return cell
	}
	ct, err := f.GetCellType(sheet, name)
	if err != nil || ct == excelize.CellTypeSharedString || ct == excelize.CellTypeInlineString {
		return cell
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	return cell
}
