package report

import (
	"fmt"
	"strings"
	"testing"

	"aipe-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aShareTable(rows ...models.RawRow) models.RawTable {
	return models.RawTable{Class: models.AShare, Rows: rows}
}

func rankRow(code, name, percent string) models.RawRow {
	return models.RawRow{
		Code: code, Name: name,
		Price: "10", Percent: percent, Amount: "100000000",
		PETTM: "12", PB: "1.5", TotalMarketCap: "10000000000",
	}
}

func TestRankOrderingAndBounds(t *testing.T) {
	var rows []models.RawRow
	for i := 0; i < 30; i++ {
		rows = append(rows, rankRow(fmt.Sprintf("6000%02d", i), "股票", fmt.Sprintf("%.2f", float64(i)-15)))
	}
	topUp, topDown := Rank(aShareTable(rows...), testStamp)

	require.Len(t, topUp, 20)
	require.Len(t, topDown, 20)
	for i := 1; i < len(topUp); i++ {
		assert.GreaterOrEqual(t, *topUp[i-1].PercentChange, *topUp[i].PercentChange)
	}
	for i := 1; i < len(topDown); i++ {
		assert.LessOrEqual(t, *topDown[i-1].PercentChange, *topDown[i].PercentChange)
	}
	assert.Equal(t, 14.0, *topUp[0].PercentChange)
	assert.Equal(t, -15.0, *topDown[0].PercentChange)
}

func TestRankEquityBoardAndStatusFilter(t *testing.T) {
	table := aShareTable(
		rankRow("600000", "浦发银行", "1.0"),
		rankRow("430047", "新三板股", "9.9"),
		rankRow("830799", "北交所股", "9.8"),
		rankRow("600001", "*ST某某", "9.7"),
		rankRow("600002", "某某退", "9.6"),
	)
	topUp, topDown := Rank(table, testStamp)

	require.Len(t, topUp, 1)
	require.Len(t, topDown, 1)
	for _, record := range append(topUp, topDown...) {
		assert.False(t, strings.HasPrefix(record.Code, "4"))
		assert.False(t, strings.HasPrefix(record.Code, "8"))
		assert.NotContains(t, record.Name, "ST")
		assert.NotContains(t, record.Name, "退")
	}
}

func TestRankFilterSkippedForOtherClasses(t *testing.T) {
	table := models.RawTable{Class: models.ETF, Rows: []models.RawRow{
		{Code: "420001", Name: "某ST字样基金", Price: "1.5", Percent: "2.0", Amount: "100000000"},
	}}
	topUp, _ := Rank(table, testStamp)
	require.Len(t, topUp, 1)
	assert.Equal(t, "420001", topUp[0].Code)
}

func TestRankDropsIncompleteRows(t *testing.T) {
	broken := rankRow("600010", "缺字段", "3.3")
	broken.PETTM = "-"
	table := aShareTable(rankRow("600000", "浦发银行", "1.0"), broken)

	topUp, _ := Rank(table, testStamp)
	require.Len(t, topUp, 1)
	assert.Equal(t, "600000", topUp[0].Code)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	table := aShareTable(
		rankRow("600000", "甲", "2.00"),
		rankRow("600001", "乙", "2.00"),
		rankRow("600002", "丙", "2.00"),
	)
	topUp, topDown := Rank(table, testStamp)
	require.Len(t, topUp, 3)
	assert.Equal(t, []string{"600000", "600001", "600002"},
		[]string{topUp[0].Code, topUp[1].Code, topUp[2].Code})
	assert.Equal(t, []string{"600000", "600001", "600002"},
		[]string{topDown[0].Code, topDown[1].Code, topDown[2].Code})
}

func TestFullMarketReportEmptyTable(t *testing.T) {
	doc := FullMarketReport(aShareTable(), testStamp)
	assert.Equal(t, models.ErrorDoc{Error: "No valid data."}, doc)
}

func TestFullMarketReportDocumentShape(t *testing.T) {
	doc := FullMarketReport(aShareTable(rankRow("600000", "浦发银行", "1.0")), testStamp)
	ranked, ok := doc.(models.RankedReport)
	require.True(t, ok)
	assert.Equal(t, testStamp.UpdateTime, ranked.UpdateTime)
	assert.Equal(t, testStamp.TradeDate, ranked.TradeDate)
	assert.Len(t, ranked.TopUp20, 1)
	assert.Len(t, ranked.TopDown20, 1)
}
