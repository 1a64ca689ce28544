package models

import (
	"encoding/json"
	"time"
)

// Beijing is the business timezone; every timestamp in the report documents
// is a Beijing wall-clock value.
var Beijing = time.FixedZone("CST", 8*60*60)

// SecurityClass identifies which market spot table a security belongs to.
type SecurityClass int

const (
	AShare  SecurityClass = iota // 沪深A股
	HKStock                      // 港股主板
	ETF                          // 场内基金
)

// ClassRule fixes the normalization behavior of one security class.
type ClassRule struct {
	Label           string // label used in logs and provider wiring
	PricePrecision  int32  // matches the class's typical tick size
	HasEquityFields bool   // PE/PB/market cap exist only in the A-share table
}

var classRules = map[SecurityClass]ClassRule{
	AShare:  {Label: "stock", PricePrecision: 2, HasEquityFields: true},
	HKStock: {Label: "hk_stock", PricePrecision: 3},
	ETF:     {Label: "etf", PricePrecision: 3},
}

func (c SecurityClass) Rule() ClassRule { return classRules[c] }

func (c SecurityClass) String() string { return classRules[c].Label }

// ResolveOrder is the fixed precedence used when a caller-supplied code is
// looked up across all class indices. The first index containing the code
// wins; later classes are never consulted after a hit.
var ResolveOrder = []SecurityClass{AShare, HKStock, ETF}

// RawRow is one row of a provider spot table. Values stay exactly as
// delivered (the provider emits "-" for missing numerics); all parsing
// happens in the normalizer so a bad cell degrades to null instead of
// failing the row.
type RawRow struct {
	Code    string
	Name    string
	Price   string // 最新价
	Percent string // 涨跌幅
	Amount  string // 成交额

	// A股专有字段，其他类别恒为空
	PETTM          string // 市盈率-动态
	PB             string // 市净率
	TotalMarketCap string // 总市值
}

// RawTable is one full-market snapshot for a single class.
type RawTable struct {
	Class     SecurityClass
	TradeDate string // session date reported by the provider, "" when absent
	Rows      []RawRow
}

func (t RawTable) Empty() bool { return len(t.Rows) == 0 }

// Security is the normalized, class-agnostic record every report emits.
// Nullable numerics are pointers: a field whose source value could not be
// parsed serializes as null, never as zero.
type Security struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Price          *float64 `json:"price"`
	PercentChange  *float64 `json:"percent_change"`
	Turnover       *float64 `json:"turnover"`         // 亿元
	PETTM          *float64 `json:"pe_ttm"`           // A股 only
	PB             *float64 `json:"price_to_book"`    // A股 only
	TotalMarketCap *float64 `json:"total_market_cap"` // A股 only, 亿元
	UpdateTime     string   `json:"update_time"`
	TradeDate      string   `json:"trade_date"`

	// 资金流补充字段，仅动态组合里的A股填充
	MomentumScore    *float64 `json:"momentum_score,omitempty"`
	NetInflow5DRatio *float64 `json:"net_inflow_5d_ratio,omitempty"`
	MainInflowRatio  *float64 `json:"main_inflow_ratio,omitempty"`
	Sector           *string  `json:"sector,omitempty"`
	MA20Up           *bool    `json:"ma20_up,omitempty"`
}

// DynamicRecord is one entry of the dynamic portfolio document. A-share
// records always carry the five flow attributes — null when the flow table
// had nothing for the code — while records of other classes keep the plain
// canonical shape with the keys omitted.
type DynamicRecord struct {
	Security
	Enriched bool `json:"-"`
}

func (r DynamicRecord) MarshalJSON() ([]byte, error) {
	if !r.Enriched {
		return json.Marshal(r.Security)
	}
	// Depth-0 fields override the embedded omitempty tags so unset
	// attributes still serialize as null.
	return json.Marshal(struct {
		Security
		MomentumScore    *float64 `json:"momentum_score"`
		NetInflow5DRatio *float64 `json:"net_inflow_5d_ratio"`
		MainInflowRatio  *float64 `json:"main_inflow_ratio"`
		Sector           *string  `json:"sector"`
		MA20Up           *bool    `json:"ma20_up"`
	}{
		Security:         r.Security,
		MomentumScore:    r.MomentumScore,
		NetInflow5DRatio: r.NetInflow5DRatio,
		MainInflowRatio:  r.MainInflowRatio,
		Sector:           r.Sector,
		MA20Up:           r.MA20Up,
	})
}

// RankedReport is the full-market top/bottom movers document.
type RankedReport struct {
	UpdateTime string     `json:"update_time"`
	TradeDate  string     `json:"trade_date"`
	TopUp20    []Security `json:"top_up_20"`
	TopDown20  []Security `json:"top_down_20"`
}

// ErrorDoc is the structured error shape written instead of a report when a
// task cannot produce one.
type ErrorDoc struct {
	Error string `json:"error"`
}

// FlowInfo carries the auxiliary per-code metrics read from
// FlowInfoBase.json. Keys match the upstream file so existing data keeps
// loading unchanged.
type FlowInfo struct {
	Code             string   `json:"代码"`
	MomentumScore    *float64 `json:"PotScore"`
	NetInflow5DRatio *float64 `json:"总净流入占比_5日总和"`
	MainInflowRatio  *float64 `json:"主力净流入-净占比"`
	Sector           *string  `json:"l2name"`
	MA20Up           *bool    `json:"Price20-day-MA_IsUp"`
}
