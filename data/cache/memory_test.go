package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", cachedQuote{Price: "42", Currency: "USD"}, time.Hour))

	var got cachedQuote
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "42", got.Price)

	now = now.Add(time.Hour + time.Second)
	assert.False(t, c.Get(ctx, "k", &got))

	require.NoError(t, c.Set(ctx, "forever", cachedQuote{Price: "1"}, 0))
	now = now.Add(1000 * time.Hour)
	assert.True(t, c.Get(ctx, "forever", &got))

	require.NoError(t, c.Delete(ctx, "forever"))
	assert.False(t, c.Get(ctx, "forever", &got))
}

func TestMemoryCache_ExpiredEvictionKeepsFreshSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()

	var refresh bool
	c.now = func() time.Time {
		if refresh {
			// Set попадает между проверкой срока и удалением
			refresh = false
			require.NoError(t, c.Set(ctx, "k", cachedQuote{Price: "43"}, time.Hour))
		}
		return now
	}

	require.NoError(t, c.Set(ctx, "k", cachedQuote{Price: "42"}, time.Minute))
	now = now.Add(2 * time.Minute)
	refresh = true

	var got cachedQuote
	assert.False(t, c.Get(ctx, "k", &got))
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "43", got.Price)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "market_data:crypto:btc", MarketDataKey("CRYPTO", "BTC"))
	assert.Equal(t, "verification:john@example.com", VerificationKey("John@Example.com"))
}
