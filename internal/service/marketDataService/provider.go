package marketDataService

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/data/cache"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
)

type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type StockApi interface {
	GetQuote(ctx context.Context, ticker string) (model.PriceQuote, error)
}

type CryptoApi interface {
	GetTickerPrice(ctx context.Context, pair string) (model.PriceQuote, error)
}

type CurrencyRateApi interface {
	GetRate(ctx context.Context, currency string) (model.ExchangeRate, error)
}

// Provider resolves a symbol to a quote. A false result means no usable price
// could be obtained, for whatever reason.
type Provider interface {
	Fetch(ctx context.Context, symbol string) (model.PriceQuote, bool)
}

type fetchFunc func(ctx context.Context, symbol string) (model.PriceQuote, error)

type cachedProvider struct {
	name      string
	namespace string
	cache     Cache
	ttl       time.Duration
	normalize func(symbol string) string
	fetch     fetchFunc
}

func (p *cachedProvider) Fetch(ctx context.Context, symbol string) (model.PriceQuote, bool) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := p.name + ".Fetch"

	symbol = p.normalize(symbol)
	if symbol == "" {
		return model.PriceQuote{}, false
	}

	key := cache.MarketDataKey(p.namespace, symbol)

	var cached model.PriceQuote
	if p.cache.Get(ctx, key, &cached) && cached.Price.IsPositive() {
		slog.Debug("got quote from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key))
		return cached, true
	}

	quote, err := p.fetch(ctx, symbol)
	if err != nil {
		slog.Warn("unable to fetch quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return model.PriceQuote{}, false
	}

	if !quote.Price.IsPositive() {
		slog.Warn("got non positive quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("price", quote.Price.String()))
		return model.PriceQuote{}, false
	}

	err = p.cache.Set(ctx, key, quote, p.ttl)
	if err != nil {
		slog.Warn("can't save quote to cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return quote, true
}

func NewStockProvider(api StockApi, cache Cache, ttl time.Duration) Provider {
	return &cachedProvider{
		name:      "StockProvider",
		namespace: "stock",
		cache:     cache,
		ttl:       ttl,
		normalize: normalizeTicker,
		fetch:     api.GetQuote,
	}
}

func NewCryptoProvider(api CryptoApi, cache Cache, ttl time.Duration) Provider {
	return &cachedProvider{
		name:      "CryptoProvider",
		namespace: "crypto",
		cache:     cache,
		ttl:       ttl,
		normalize: NormalizeCryptoPair,
		fetch:     api.GetTickerPrice,
	}
}

func NewCurrencyRateProvider(api CurrencyRateApi, cache Cache, ttl time.Duration) Provider {
	return &cachedProvider{
		name:      "CurrencyRateProvider",
		namespace: "currency",
		cache:     cache,
		ttl:       ttl,
		normalize: normalizeTicker,
		fetch: func(ctx context.Context, currency string) (model.PriceQuote, error) {
			rate, err := api.GetRate(ctx, currency)
			if err != nil {
				return model.PriceQuote{}, err
			}
			return model.PriceQuote{
				Price:      rate.Rate,
				Currency:   rate.To,
				ObservedAt: rate.ObservedAt,
				Source:     rate.Source,
			}, nil
		},
	}
}

func normalizeTicker(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

const cryptoQuoteAsset = "USDT"

// NormalizeCryptoPair turns a coin symbol into a USDT trading pair: btc -> BTCUSDT, ETHUSD -> ETHUSDT.
// The quote asset itself has no pair and yields an empty string.
func NormalizeCryptoPair(symbol string) string {
	ticker := nonAlphanumeric.ReplaceAllString(strings.ToUpper(symbol), "")

	switch {
	case strings.HasSuffix(ticker, cryptoQuoteAsset):
		ticker = strings.TrimSuffix(ticker, cryptoQuoteAsset)
	case strings.HasSuffix(ticker, "USD"):
		ticker = strings.TrimSuffix(ticker, "USD")
	}

	if ticker == "" {
		return ""
	}
	return ticker + cryptoQuoteAsset
}
