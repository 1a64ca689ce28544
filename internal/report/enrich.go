package report

import "aipe-market/internal/models"

// Enrich merges the auxiliary flow metrics into an A-share record; records
// of every other class pass through unchanged. A code missing from the flow
// table just leaves the extra fields nil — it is not an error. Canonical
// fields are never touched.
func Enrich(record models.Security, class models.SecurityClass, flow map[string]models.FlowInfo) models.Security {
	if class != models.AShare {
		return record
	}
	info := flow[record.Code] // zero value keeps every metric nil
	record.MomentumScore = info.MomentumScore
	record.NetInflow5DRatio = info.NetInflow5DRatio
	record.MainInflowRatio = info.MainInflowRatio
	record.Sector = info.Sector
	record.MA20Up = info.MA20Up
	return record
}
