package yahooApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/internal/externalApi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *YahooApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = time.Second
	cfg.API.YahooApi.Url = srv.URL
	cfg.API.YahooApi.ApiKey = "key"
	cfg.API.YahooApi.Host = "yahoo.test"
	return New(cfg)
}

func TestYahooApi_GetQuote_PrimaryData(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/markets/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
		assert.Equal(t, "STOCKS", r.URL.Query().Get("type"))
		assert.Equal(t, "key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "yahoo.test", r.Header.Get("X-RapidAPI-Host"))
		_, _ = w.Write([]byte(`{"body":{"primaryData":{"lastSalePrice":"$1,189.50","currency":"usd"}}}`))
	})

	quote, err := api.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "1189.5", quote.Price.String())
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, "Yahoo Finance", quote.Source)
}

func TestYahooApi_GetQuote_Array(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"symbol":"MSFT","regularMarketPrice":400},{"symbol":"TEVA","regularMarketPrice":12.5,"currency":"ILS"}]`))
	})

	quote, err := api.GetQuote(context.Background(), "TEVA")
	require.NoError(t, err)
	assert.Equal(t, "12.5", quote.Price.String())
	assert.Equal(t, "ILS", quote.Currency)

	_, err = api.GetQuote(context.Background(), "NVDA")
	assert.ErrorIs(t, err, externalApi.ErrNotFound)
}

func TestYahooApi_GetQuote_Failures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"bad status":       {status: http.StatusTooManyRequests, body: `{}`},
		"zero price":       {status: http.StatusOK, body: `{"body":{"primaryData":{"lastSalePrice":"$0.00"}}}`},
		"negative price":   {status: http.StatusOK, body: `[{"symbol":"AAPL","regularMarketPrice":-1}]`},
		"missing price":    {status: http.StatusOK, body: `[{"symbol":"AAPL"}]`},
		"schema drift":     {status: http.StatusOK, body: `{"data":{"price":10}}`},
		"not json":         {status: http.StatusOK, body: `<html>oops</html>`},
		"empty body":       {status: http.StatusOK, body: ``},
		"unparsable price": {status: http.StatusOK, body: `{"body":{"primaryData":{"lastSalePrice":"N/A"}}}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := api.GetQuote(context.Background(), "AAPL")
			assert.Error(t, err)
		})
	}
}
