package externalApi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	valid := map[string]string{
		"189.50":    "189.5",
		"$1,234.50": "1234.5",
		" 42 ":      "42",
		"0.0001":    "0.0001",
	}
	for raw, want := range valid {
		price, err := ParsePrice(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, price.String(), raw)
	}

	invalid := []string{"", "0", "0.00", "-5", "NaN", "Infinity", "-Inf", "abc", "$"}
	for _, raw := range invalid {
		_, err := ParsePrice(raw)
		assert.ErrorIs(t, err, ErrInvalidPrice, raw)
	}
}
