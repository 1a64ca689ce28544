package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadWatchlist(t *testing.T) {
	path := writeFixture(t, "watchlist.json",
		`[{"代码": "600000", "名称": "浦发银行"}, {"代码": "600036"}, {"名称": "无代码"}]`)

	codes := ReadWatchlist(path)
	assert.Equal(t, []string{"600000", "600036"}, codes)
}

func TestReadWatchlistMissingFile(t *testing.T) {
	codes := ReadWatchlist(filepath.Join(t.TempDir(), "nope.json"))
	assert.Empty(t, codes)
}

func TestReadWatchlistMalformed(t *testing.T) {
	path := writeFixture(t, "bad.json", `{"not": "a list"}`)
	assert.Empty(t, ReadWatchlist(path))
}

func TestReadFlowInfo(t *testing.T) {
	path := writeFixture(t, "FlowInfoBase.json",
		`[{"代码": "600000", "PotScore": 87.5, "l2name": "银行", "Price20-day-MA_IsUp": true},
		  {"代码": "600036", "PotScore": null}]`)

	flow := ReadFlowInfo(path)
	require.Len(t, flow, 2)

	info := flow["600000"]
	require.NotNil(t, info.MomentumScore)
	assert.Equal(t, 87.5, *info.MomentumScore)
	require.NotNil(t, info.Sector)
	assert.Equal(t, "银行", *info.Sector)
	require.NotNil(t, info.MA20Up)
	assert.True(t, *info.MA20Up)

	assert.Nil(t, flow["600036"].MomentumScore)
}

func TestReadFlowInfoMissingFile(t *testing.T) {
	flow := ReadFlowInfo(filepath.Join(t.TempDir(), "nope.json"))
	assert.NotNil(t, flow)
	assert.Empty(t, flow)
}

func TestParseDynamicList(t *testing.T) {
	assert.Equal(t, []string{"600000", "HK00700"}, ParseDynamicList(`["600000", "HK00700"]`))
	assert.Empty(t, ParseDynamicList(""))
	assert.Empty(t, ParseDynamicList(`not json`))
}
