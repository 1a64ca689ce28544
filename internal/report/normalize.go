package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"aipe-market/internal/models"

	"github.com/shopspring/decimal"
)

// Stamp carries the timestamps shared by every record of one snapshot
// generation.
type Stamp struct {
	UpdateTime string
	TradeDate  string
}

// NewStamp builds the generation stamp. tradeDate comes from the provider
// snapshot when available; otherwise today's Beijing date stands in.
func NewStamp(tradeDate string) Stamp {
	now := time.Now().In(models.Beijing)
	if tradeDate == "" {
		tradeDate = now.Format("2006-01-02")
	}
	return Stamp{
		UpdateTime: now.Format("2006-01-02 15:04:05"),
		TradeDate:  tradeDate,
	}
}

// Normalize converts one raw spot row into the canonical record shape.
// code is kept exactly as the caller supplied it, not re-derived from the
// row. Unparsable cells become nil and stay nil through scaling and
// rounding.
func Normalize(row models.RawRow, class models.SecurityClass, code string, stamp Stamp) models.Security {
	rule := class.Rule()
	record := models.Security{
		Code:          code,
		Name:          row.Name,
		Price:         roundTo(parseNumber(row.Price), rule.PricePrecision),
		PercentChange: roundTo(parseNumber(row.Percent), 2),
		Turnover:      inHundredMillions(parseNumber(row.Amount)),
		UpdateTime:    stamp.UpdateTime,
		TradeDate:     stamp.TradeDate,
	}
	if rule.HasEquityFields {
		record.PETTM = roundTo(parseNumber(row.PETTM), 2)
		record.PB = roundTo(parseNumber(row.PB), 2)
		record.TotalMarketCap = inHundredMillions(parseNumber(row.TotalMarketCap))
	}
	return record
}

// parseNumber coerces a raw cell to a float. Empty, non-numeric, NaN and
// infinite values all degrade to nil.
func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// roundTo rounds half away from zero to the given number of decimals,
// propagating nil.
func roundTo(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r, _ := decimal.NewFromFloat(*v).Round(places).Float64()
	return &r
}

var hundredMillion = decimal.NewFromInt(100_000_000)

// inHundredMillions rescales a native-currency amount to 亿 and rounds to
// two decimals, propagating nil.
func inHundredMillions(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r, _ := decimal.NewFromFloat(*v).Div(hundredMillion).Round(2).Float64()
	return &r
}
