package report

import (
	"encoding/json"
	"log"
	"os"

	"aipe-market/internal/models"
)

// Watchlist and observe-list files are JSON arrays of row objects keyed the
// way the upstream exports them.
type watchlistEntry struct {
	Code string `json:"代码"`
}

// ReadWatchlist reads an ordered code list from a JSON document. A missing
// or unreadable file is a soft skip: warn and return an empty list.
func ReadWatchlist(path string) []string {
	log.Printf("Reading watchlist from: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: watchlist file %s not readable: %v. Skipping.", path, err)
		return nil
	}
	var entries []watchlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Error reading watchlist file %s: %v", path, err)
		return nil
	}
	codes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Code != "" {
			codes = append(codes, entry.Code)
		}
	}
	log.Printf("Successfully read %d codes.", len(codes))
	return codes
}

// ReadFlowInfo loads the auxiliary flow-metric table keyed by code. A
// missing file just means the extra fields stay empty.
func ReadFlowInfo(path string) map[string]models.FlowInfo {
	log.Printf("Reading flow info from: %s", path)
	flow := make(map[string]models.FlowInfo)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: flow info file %s not readable: %v. Extra fields will be empty.", path, err)
		return flow
	}
	var entries []models.FlowInfo
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Error reading flow info file %s: %v", path, err)
		return flow
	}
	for _, entry := range entries {
		if entry.Code != "" {
			flow[entry.Code] = entry
		}
	}
	log.Printf("Built a lookup map for %d codes from flow info.", len(flow))
	return flow
}

// ParseDynamicList decodes a dynamic portfolio list passed through the
// batch trigger as a JSON-encoded string array. Empty input and parse
// failures both come back as an empty list.
func ParseDynamicList(raw string) []string {
	if raw == "" {
		return nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		log.Printf("Error: could not parse dynamic list input %q: %v", raw, err)
		return nil
	}
	return codes
}
