package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetType_Valid(t *testing.T) {
	for _, at := range AssetTypes {
		assert.True(t, at.Valid(), at)
	}
	assert.False(t, AssetType("stock").Valid())
	assert.False(t, AssetType("BOND").Valid())
	assert.False(t, AssetType("").Valid())
}

func TestHolding_HasTicker(t *testing.T) {
	empty, blank, ticker := "", "  ", "AAPL"

	assert.False(t, Holding{}.HasTicker())
	assert.False(t, Holding{Ticker: &empty}.HasTicker())
	assert.False(t, Holding{Ticker: &blank}.HasTicker())
	assert.True(t, Holding{Ticker: &ticker}.HasTicker())
}

func TestPeriod_StartDate(t *testing.T) {
	now := time.Date(2024, 3, 31, 15, 30, 0, 0, time.UTC)

	cases := map[Period]time.Time{
		Period1M:  time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), // 31 февраля нормализуется в 2 марта
		Period3M:  time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Period6M:  time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		Period1Y:  time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
		PeriodAll: time.Unix(0, 0).UTC(),
	}

	for period, want := range cases {
		got, ok := period.StartDate(now)
		require.True(t, ok, period)
		assert.True(t, want.Equal(got), "%s: want %s got %s", period, want, got)
	}

	_, ok := Period("2w").StartDate(now)
	assert.False(t, ok)
}
