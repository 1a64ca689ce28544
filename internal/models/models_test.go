package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRules(t *testing.T) {
	assert.Equal(t, int32(2), AShare.Rule().PricePrecision)
	assert.Equal(t, int32(3), HKStock.Rule().PricePrecision)
	assert.Equal(t, int32(3), ETF.Rule().PricePrecision)

	assert.True(t, AShare.Rule().HasEquityFields)
	assert.False(t, HKStock.Rule().HasEquityFields)
	assert.False(t, ETF.Rule().HasEquityFields)
}

func TestResolveOrder(t *testing.T) {
	assert.Equal(t, []SecurityClass{AShare, HKStock, ETF}, ResolveOrder)
}

func TestSecurityNullFieldsSerializeAsNull(t *testing.T) {
	data, err := json.Marshal(Security{Code: "510300", Name: "沪深300ETF"})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	// unparsable numerics are null, never zero
	assert.Equal(t, "null", string(decoded["price"]))
	assert.Equal(t, "null", string(decoded["pe_ttm"]))
	assert.Equal(t, "null", string(decoded["total_market_cap"]))

	// enrichment fields only appear on enriched records
	_, present := decoded["momentum_score"]
	assert.False(t, present)
}
