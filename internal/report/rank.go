package report

import (
	"sort"
	"strings"

	"aipe-market/internal/models"
)

const rankSize = 20

// excludedFromRanking reports whether an A-share row sits on a board or in a
// status that full-market rankings skip: 北交所/新三板 style 4/8 code
// prefixes and ST/delisting names. Other classes are never filtered.
func excludedFromRanking(row models.RawRow) bool {
	if strings.HasPrefix(row.Code, "4") || strings.HasPrefix(row.Code, "8") {
		return true
	}
	return strings.Contains(row.Name, "ST") || strings.Contains(row.Name, "退")
}

// complete reports whether every required numeric survived normalization.
// Ranked tables drop partial rows outright instead of carrying nulls.
func complete(record models.Security, class models.SecurityClass) bool {
	if record.Price == nil || record.PercentChange == nil || record.Turnover == nil {
		return false
	}
	if class.Rule().HasEquityFields {
		if record.PETTM == nil || record.PB == nil || record.TotalMarketCap == nil {
			return false
		}
	}
	return true
}

// Rank produces the top/bottom movers of one full spot table by percent
// change. Ties keep input order. Both slices are nil when nothing survives
// filtering.
func Rank(table models.RawTable, stamp Stamp) (topUp, topDown []models.Security) {
	records := make([]models.Security, 0, len(table.Rows))
	for _, row := range table.Rows {
		if table.Class == models.AShare && excludedFromRanking(row) {
			continue
		}
		record := Normalize(row, table.Class, row.Code, stamp)
		if !complete(record, table.Class) {
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, nil
	}

	up := make([]models.Security, len(records))
	copy(up, records)
	sort.SliceStable(up, func(i, j int) bool {
		return *up[i].PercentChange > *up[j].PercentChange
	})

	down := make([]models.Security, len(records))
	copy(down, records)
	sort.SliceStable(down, func(i, j int) bool {
		return *down[i].PercentChange < *down[j].PercentChange
	})

	return head(up), head(down)
}

func head(records []models.Security) []models.Security {
	if len(records) > rankSize {
		return records[:rankSize]
	}
	return records
}
