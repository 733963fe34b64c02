package marketDataService

import (
	"context"
	"strings"

	"github.com/KotFed0t/invest_tracker/internal/model"
)

// Router dispatches a symbol to the provider responsible for its asset type.
// Asset types without a provider never have a live price.
type Router struct {
	providers       map[model.AssetType]Provider
	currencyRates   Provider
	trackedCurrency string
}

func NewRouter(stock, crypto, currencyRates Provider, trackedCurrency string) *Router {
	trackedCurrency = strings.ToUpper(trackedCurrency)
	return &Router{
		providers: map[model.AssetType]Provider{
			model.AssetTypeStock:           stock,
			model.AssetTypeCrypto:          crypto,
			model.AssetTypeForeignCurrency: trackedCurrencyOnly{currency: trackedCurrency, next: currencyRates},
		},
		currencyRates:   currencyRates,
		trackedCurrency: trackedCurrency,
	}
}

func (r *Router) Resolve(ctx context.Context, symbol string, assetType model.AssetType) (model.PriceQuote, bool) {
	provider, ok := r.providers[assetType]
	if !ok {
		return model.PriceQuote{}, false
	}
	return provider.Fetch(ctx, symbol)
}

// ExchangeRate returns the rate of the tracked foreign currency.
func (r *Router) ExchangeRate(ctx context.Context) (model.ExchangeRate, bool) {
	quote, ok := r.currencyRates.Fetch(ctx, r.trackedCurrency)
	if !ok {
		return model.ExchangeRate{}, false
	}

	return model.ExchangeRate{
		From:       r.trackedCurrency,
		To:         quote.Currency,
		Rate:       quote.Price,
		ObservedAt: quote.ObservedAt,
		Source:     quote.Source,
	}, true
}

type trackedCurrencyOnly struct {
	currency string
	next     Provider
}

func (t trackedCurrencyOnly) Fetch(ctx context.Context, symbol string) (model.PriceQuote, bool) {
	if !strings.EqualFold(strings.TrimSpace(symbol), t.currency) {
		return model.PriceQuote{}, false
	}
	return t.next.Fetch(ctx, t.currency)
}
