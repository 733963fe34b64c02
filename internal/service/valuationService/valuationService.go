package valuationService

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type MarketData interface {
	Resolve(ctx context.Context, symbol string, assetType model.AssetType) (model.PriceQuote, bool)
	ExchangeRate(ctx context.Context) (model.ExchangeRate, bool)
}

type Normalizer interface {
	BaseCurrency() string
	IsBase(currency string) bool
	ToBaseCurrency(amount decimal.Decimal, fromCurrency string, rate *model.ExchangeRate) (decimal.Decimal, error)
}

type ValuationService struct {
	marketData  MarketData
	normalizer  Normalizer
	concurrency int
	now         func() time.Time
}

func New(marketData MarketData, normalizer Normalizer, concurrency int) *ValuationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ValuationService{
		marketData:  marketData,
		normalizer:  normalizer,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// ComputeSummary values every holding in the base currency.
// Holdings without a live price or exchange rate contribute zero and keep a status explaining why.
func (s *ValuationService) ComputeSummary(ctx context.Context, holdings []model.Holding) model.ValuationSummary {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ValuationService.ComputeSummary"
	slog.Debug("ComputeSummary start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("holdings", len(holdings)))

	rate := &lazyRate{fetch: s.marketData.ExchangeRate}
	valuations := make([]model.HoldingValuation, len(holdings))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, h := range holdings {
		i, h := i, h
		g.Go(func() error {
			valuations[i] = s.valueHolding(ctx, h, rate)
			return nil
		})
	}
	_ = g.Wait()

	summary := model.ValuationSummary{
		TotalValue:     decimal.Zero,
		CategoryTotals: make(map[model.AssetType]decimal.Decimal),
		HoldingCount:   len(holdings),
		BaseCurrency:   s.normalizer.BaseCurrency(),
		Holdings:       valuations,
	}

	for _, v := range valuations {
		summary.TotalValue = summary.TotalValue.Add(v.Value)
		summary.CategoryTotals[v.AssetType] = summary.CategoryTotals[v.AssetType].Add(v.Value)
	}
	summary.ComputedAt = s.now()

	slog.Debug(
		"ComputeSummary completed",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.String("total", summary.TotalValue.String()),
	)

	return summary
}

func (s *ValuationService) valueHolding(ctx context.Context, h model.Holding, rate *lazyRate) model.HoldingValuation {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ValuationService.valueHolding"

	res := model.HoldingValuation{
		HoldingID: h.ID,
		AssetType: h.AssetType,
		UnitPrice: decimal.Zero,
		Value:     decimal.Zero,
	}

	if h.Quantity.IsNegative() {
		slog.Error("holding with negative quantity", slog.String("rqID", rqID), slog.String("op", op), slog.String("holdingID", h.ID.String()))
		res.Status = model.StatusInvalid
		return res
	}

	if !h.HasTicker() {
		res.Status = model.StatusNoTicker
		return res
	}

	quote, ok := s.resolve(ctx, h, rate)
	if !ok {
		res.Status = model.StatusNoLivePrice
		return res
	}
	res.UnitPrice = quote.Price
	res.Currency = quote.Currency

	value := h.Quantity.Mul(quote.Price)
	if !s.normalizer.IsBase(quote.Currency) {
		var ratePtr *model.ExchangeRate
		if r, ok := rate.get(ctx); ok {
			ratePtr = &r
		}

		converted, err := s.normalizer.ToBaseCurrency(value, quote.Currency, ratePtr)
		if err != nil {
			slog.Warn(
				"can't convert holding value to base currency",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("holdingID", h.ID.String()),
				slog.String("currency", quote.Currency),
				slog.String("err", err.Error()),
			)
			res.Status = model.StatusNoExchangeRate
			return res
		}
		value = converted
	}

	res.Value = value
	res.Status = model.StatusPriced
	return res
}

// resolve prices the tracked foreign currency from the pass's exchange rate so
// currency holdings and foreign-quoted holdings share one rate.
func (s *ValuationService) resolve(ctx context.Context, h model.Holding, rate *lazyRate) (model.PriceQuote, bool) {
	if h.AssetType != model.AssetTypeForeignCurrency {
		return s.marketData.Resolve(ctx, *h.Ticker, h.AssetType)
	}

	r, ok := rate.get(ctx)
	if !ok || !strings.EqualFold(strings.TrimSpace(*h.Ticker), r.From) {
		return model.PriceQuote{}, false
	}

	return model.PriceQuote{
		Price:      r.Rate,
		Currency:   r.To,
		ObservedAt: r.ObservedAt,
		Source:     r.Source,
	}, true
}

// lazyRate fetches the exchange rate at most once per valuation pass.
type lazyRate struct {
	once  sync.Once
	fetch func(ctx context.Context) (model.ExchangeRate, bool)
	rate  model.ExchangeRate
	ok    bool
}

func (l *lazyRate) get(ctx context.Context) (model.ExchangeRate, bool) {
	l.once.Do(func() {
		l.rate, l.ok = l.fetch(ctx)
	})
	return l.rate, l.ok
}
