package report

import (
	"strings"

	"aipe-market/internal/models"
)

// BuildIndex maps normalized code -> raw row for one spot table. An empty
// table yields an empty map.
func BuildIndex(table models.RawTable) map[string]models.RawRow {
	index := make(map[string]models.RawRow, len(table.Rows))
	for _, row := range table.Rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			continue
		}
		index[code] = row
	}
	return index
}

// Indices holds the per-class lookup maps for one snapshot generation. Built
// once per query, read-only afterwards.
type Indices struct {
	byClass map[models.SecurityClass]map[string]models.RawRow
}

func NewIndices(tables ...models.RawTable) *Indices {
	ix := &Indices{byClass: make(map[models.SecurityClass]map[string]models.RawRow, len(tables))}
	for _, table := range tables {
		ix.byClass[table.Class] = BuildIndex(table)
	}
	return ix
}

// Resolve looks a caller-supplied code up across the classes in the fixed
// precedence order (A股 → 港股 → ETF) and returns the first hit.
func (ix *Indices) Resolve(code string) (models.RawRow, models.SecurityClass, bool) {
	for _, class := range models.ResolveOrder {
		if row, ok := ix.byClass[class][code]; ok {
			return row, class, true
		}
	}
	return models.RawRow{}, 0, false
}

// Empty reports whether every class index is empty, i.e. no snapshot data
// was available at all this generation.
func (ix *Indices) Empty() bool {
	for _, index := range ix.byClass {
		if len(index) > 0 {
			return false
		}
	}
	return true
}
