package eastmoney

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"aipe-market/internal/models"

	"github.com/go-resty/resty/v2"
)

// RetryPolicy bounds the fetch attempts for one spot table. Tests substitute
// a zero-delay policy.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2,
	}
}

// Client fetches full-market spot tables from the eastmoney push2 API
// (the same endpoints 东方财富网页行情 uses).
type Client struct {
	base   string
	client *resty.Client
	retry  RetryPolicy
}

func NewClient(baseURL string, retry RetryPolicy) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; aipe-market/1.0)")

	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	if retry.Multiplier <= 0 {
		retry.Multiplier = 1
	}
	return &Client{
		base:   baseURL,
		client: client,
		retry:  retry,
	}
}

// classQuery selects one class's universe on the clist endpoint.
// fs values follow the push2 market filters: A股全市场、港股主板、场内ETF.
type classQuery struct {
	fs         string
	fields     string
	codePrefix string
}

var classQueries = map[models.SecurityClass]classQuery{
	models.AShare: {
		fs:     "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23,m:0+t:81+s:2048",
		fields: "f2,f3,f6,f9,f12,f14,f20,f23,f124",
	},
	models.HKStock: {
		fs:         "m:128+t:3",
		fields:     "f2,f3,f6,f12,f14,f124",
		codePrefix: "HK", // 港股代码统一带HK前缀
	},
	models.ETF: {
		fs:     "b:MK0021,b:MK0022,b:MK0023,b:MK0024",
		fields: "f2,f3,f6,f12,f14,f124",
	},
}

type clistResponse struct {
	RC   int `json:"rc"`
	Data *struct {
		Total int                          `json:"total"`
		Diff  []map[string]json.RawMessage `json:"diff"`
	} `json:"data"`
}

// FetchSpot retrieves the full spot table for one class. Attempts are
// bounded by the retry policy with exponential backoff between them; when
// the budget is exhausted the caller gets an empty table, never an error,
// so the other classes keep processing.
func (c *Client) FetchSpot(class models.SecurityClass) models.RawTable {
	delay := c.retry.BaseDelay
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		table, err := c.fetchOnce(class)
		if err == nil {
			log.Printf("[eastmoney] fetched %d %s rows", len(table.Rows), class)
			return table
		}
		log.Printf("[eastmoney] %s fetch attempt %d/%d failed: %v", class, attempt, c.retry.MaxAttempts, err)
		if attempt < c.retry.MaxAttempts {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * c.retry.Multiplier)
		}
	}
	log.Printf("[eastmoney] giving up on %s data, continuing with an empty table", class)
	return models.RawTable{Class: class}
}

// FetchAll retrieves all three class tables. Failure of one class never
// blocks the others.
func (c *Client) FetchAll() (stock, hk, etf models.RawTable) {
	etf = c.FetchSpot(models.ETF)
	stock = c.FetchSpot(models.AShare)
	hk = c.FetchSpot(models.HKStock)
	return stock, hk, etf
}

func (c *Client) fetchOnce(class models.SecurityClass) (models.RawTable, error) {
	table := models.RawTable{Class: class}
	q := classQueries[class]

	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"pn":     "1",
			"pz":     "50000",
			"po":     "1",
			"np":     "1",
			"fltt":   "2",
			"invt":   "2",
			"fid":    "f3",
			"fs":     q.fs,
			"fields": q.fields,
		}).
		Get(c.base + "/api/qt/clist/get")
	if err != nil {
		return table, err
	}
	if resp.StatusCode() != http.StatusOK {
		return table, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	var parsed clistResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return table, fmt.Errorf("decode spot response: %w", err)
	}
	// data is null outside trading hours for some universes; that is a
	// legitimately empty snapshot, not a retryable failure.
	if parsed.Data == nil {
		return table, nil
	}

	rows := make([]models.RawRow, 0, len(parsed.Data.Diff))
	for _, item := range parsed.Data.Diff {
		row := models.RawRow{
			Code:    q.codePrefix + fieldString(item, "f12"),
			Name:    fieldString(item, "f14"),
			Price:   fieldString(item, "f2"),
			Percent: fieldString(item, "f3"),
			Amount:  fieldString(item, "f6"),
		}
		if class == models.AShare {
			row.PETTM = fieldString(item, "f9")
			row.PB = fieldString(item, "f23")
			row.TotalMarketCap = fieldString(item, "f20")
		}
		rows = append(rows, row)
	}
	table.Rows = rows
	table.TradeDate = tradeDateOf(parsed.Data.Diff)
	return table, nil
}

// tradeDateOf derives the session date from the first row's quote
// timestamp (f124, unix seconds), in Beijing time.
func tradeDateOf(diff []map[string]json.RawMessage) string {
	if len(diff) == 0 {
		return ""
	}
	ts := fieldString(diff[0], "f124")
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil || secs <= 0 {
		return ""
	}
	return time.Unix(secs, 0).In(models.Beijing).Format("2006-01-02")
}

// fieldString renders one provider cell as a plain string. Missing values
// arrive as the literal "-" or are absent entirely; both come back "".
func fieldString(item map[string]json.RawMessage, key string) string {
	raw, ok := item[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "-" {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
