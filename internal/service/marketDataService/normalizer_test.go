package marketDataService

import (
	"testing"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_ToBaseCurrency(t *testing.T) {
	n := NewNormalizer("NIS")
	usdRate := &model.ExchangeRate{From: "USD", To: "NIS", Rate: decimal.RequireFromString("3.7")}

	got, err := n.ToBaseCurrency(decimal.RequireFromString("250"), "NIS", nil)
	require.NoError(t, err)
	assert.Equal(t, "250", got.String())

	got, err = n.ToBaseCurrency(decimal.RequireFromString("250"), "ils", nil)
	require.NoError(t, err)
	assert.Equal(t, "250", got.String())

	got, err = n.ToBaseCurrency(decimal.RequireFromString("1000"), "USD", usdRate)
	require.NoError(t, err)
	assert.Equal(t, "3700", got.String())
}

func TestNormalizer_ToBaseCurrency_RateUnavailable(t *testing.T) {
	n := NewNormalizer("NIS")
	amount := decimal.RequireFromString("10")

	cases := map[string]*model.ExchangeRate{
		"nil rate":       nil,
		"other currency": {From: "EUR", To: "NIS", Rate: decimal.RequireFromString("4")},
		"other target":   {From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.9")},
		"zero rate":      {From: "USD", To: "NIS", Rate: decimal.Zero},
	}

	for name, rate := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := n.ToBaseCurrency(amount, "USD", rate)
			assert.ErrorIs(t, err, ErrRateUnavailable)
			assert.True(t, got.IsZero())
		})
	}
}
