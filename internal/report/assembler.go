package report

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"aipe-market/internal/models"
)

// Error documents written by the list-style query shapes. The empty-list
// gates fire before any index work.
const (
	errNoValidData    = "No valid data."
	errWatchlistEmpty = "Watchlist is empty, skipping."
	errObserveEmpty   = "Observe list is empty, skipping."
	errDynamicEmpty   = "Unified dynamic list is empty."
	errNoMarketData   = "No market data available."
)

// FullMarketReport ranks one class's whole table into the top/bottom movers
// document.
func FullMarketReport(table models.RawTable, stamp Stamp) any {
	log.Printf("--- Processing %s full-market report ---", table.Class)
	topUp, topDown := Rank(table, stamp)
	if topUp == nil {
		return models.ErrorDoc{Error: errNoValidData}
	}
	return models.RankedReport{
		UpdateTime: stamp.UpdateTime,
		TradeDate:  stamp.TradeDate,
		TopUp20:    topUp,
		TopDown20:  topDown,
	}
}

// WatchlistReport normalizes the requested codes from a single class's
// table, preserving list order. Codes missing from the snapshot are skipped
// with a log line, never an error.
func WatchlistReport(table models.RawTable, codes []string, stamp Stamp) any {
	log.Printf("--- Processing %s watchlist ---", table.Class)
	if len(codes) == 0 {
		return models.ErrorDoc{Error: errWatchlistEmpty}
	}
	index := BuildIndex(table)
	records := make([]models.Security, 0, len(codes))
	for _, code := range codes {
		row, ok := index[code]
		if !ok {
			log.Printf("  - warning: watchlist code %q not in the %s snapshot, skipping", code, table.Class)
			continue
		}
		records = append(records, Normalize(row, table.Class, code, stamp))
	}
	log.Printf("Processed %d of %d watchlist codes.", len(records), len(codes))
	return records
}

// ObserveReport resolves a cross-class list of codes against all supplied
// indices and normalizes each per its resolved class, preserving list
// order. Unresolved codes are skipped with a warning. When every snapshot
// table was empty the caller gets a distinct error document instead of an
// empty success list.
func ObserveReport(ix *Indices, codes []string, stamp Stamp) any {
	log.Println("--- Processing unified observe list (A股, 港股, ETF) ---")
	if len(codes) == 0 {
		return models.ErrorDoc{Error: errObserveEmpty}
	}
	if ix.Empty() {
		return models.ErrorDoc{Error: errNoMarketData}
	}
	records := make([]models.Security, 0, len(codes))
	for _, code := range codes {
		row, class, ok := ix.Resolve(code)
		if !ok {
			log.Printf("  - warning: code %q not found in any dataset", code)
			continue
		}
		records = append(records, Normalize(row, class, code, stamp))
	}
	log.Printf("Processed %d securities from the list provided.", len(records))
	return records
}

// DynamicReport is the observe-list shape plus flow-info enrichment for the
// A-share records.
func DynamicReport(ix *Indices, codes []string, flow map[string]models.FlowInfo, stamp Stamp) any {
	log.Println("--- Processing unified dynamic portfolio list ---")
	if len(codes) == 0 {
		return models.ErrorDoc{Error: errDynamicEmpty}
	}
	base := ObserveReport(ix, codes, stamp)
	records, ok := base.([]models.Security)
	if !ok {
		return base
	}
	out := make([]models.DynamicRecord, len(records))
	for i, record := range records {
		_, class, found := ix.Resolve(record.Code)
		if found && class == models.AShare {
			out[i] = models.DynamicRecord{Security: Enrich(record, class, flow), Enriched: true}
			continue
		}
		out[i] = models.DynamicRecord{Security: record}
	}
	log.Printf("Enriched %d securities for the unified portfolio.", len(out))
	return out
}

// WriteDocument serializes one report document into the output directory as
// UTF-8 JSON, non-ASCII text kept verbatim, 4-space indent.
func WriteDocument(dir, name string, doc any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
