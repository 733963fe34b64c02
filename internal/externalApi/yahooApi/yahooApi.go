package yahooApi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/internal/externalApi"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	sourceName      = "Yahoo Finance"
	defaultCurrency = "USD"
)

type YahooApi struct {
	client *resty.Client
	now    func() time.Time
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url).
		SetHeader("X-RapidAPI-Key", cfg.API.YahooApi.ApiKey).
		SetHeader("X-RapidAPI-Host", cfg.API.YahooApi.Host)
	return &YahooApi{client: client, now: time.Now}
}

type quoteResponse struct {
	Body *struct {
		PrimaryData *struct {
			LastSalePrice string `json:"lastSalePrice"`
			Currency      string `json:"currency"`
		} `json:"primaryData"`
	} `json:"body"`
}

type marketQuote struct {
	Symbol             string       `json:"symbol"`
	RegularMarketPrice *json.Number `json:"regularMarketPrice"`
	Currency           string       `json:"currency"`
}

func (a *YahooApi) GetQuote(ctx context.Context, ticker string) (model.PriceQuote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "YahooApi.GetQuote"
	url := "/api/v1/markets/quote"
	params := map[string]string{
		"ticker": ticker,
		"type":   "STOCKS",
	}

	slog.Debug("start YahooApi.GetQuote request", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(url)
	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return model.PriceQuote{}, err
	}

	if !resp.IsSuccess() {
		return model.PriceQuote{}, fmt.Errorf("%w: %d", externalApi.ErrBadStatus, resp.StatusCode())
	}

	price, currency, err := parseQuote(resp.Body(), ticker)
	if err != nil {
		slog.Error("can't parse YahooApi response", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return model.PriceQuote{}, err
	}

	slog.Debug("YahooApi.GetQuote request complete", slog.String("rqID", rqID), slog.String("op", op))

	return model.PriceQuote{
		Price:      price,
		Currency:   currency,
		ObservedAt: a.now(),
		Source:     sourceName,
	}, nil
}

// parseQuote accepts both known response shapes: the quote endpoint object
// and the legacy array of market quotes.
func parseQuote(body []byte, ticker string) (decimal.Decimal, string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return decimal.Zero, "", fmt.Errorf("%w: empty body", externalApi.ErrInvalidPrice)
	}

	if trimmed[0] == '[' {
		var quotes []marketQuote
		if err := json.Unmarshal(trimmed, &quotes); err != nil {
			return decimal.Zero, "", err
		}

		for _, q := range quotes {
			if !strings.EqualFold(q.Symbol, ticker) {
				continue
			}
			if q.RegularMarketPrice == nil {
				return decimal.Zero, "", fmt.Errorf("%w: no regularMarketPrice", externalApi.ErrInvalidPrice)
			}
			price, err := externalApi.ParsePrice(q.RegularMarketPrice.String())
			if err != nil {
				return decimal.Zero, "", err
			}
			return price, currencyOrDefault(q.Currency), nil
		}

		return decimal.Zero, "", externalApi.ErrNotFound
	}

	var resp quoteResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return decimal.Zero, "", err
	}

	if resp.Body == nil || resp.Body.PrimaryData == nil {
		return decimal.Zero, "", fmt.Errorf("%w: no primaryData", externalApi.ErrInvalidPrice)
	}

	price, err := externalApi.ParsePrice(resp.Body.PrimaryData.LastSalePrice)
	if err != nil {
		return decimal.Zero, "", err
	}

	return price, currencyOrDefault(resp.Body.PrimaryData.Currency), nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return defaultCurrency
	}
	return strings.ToUpper(currency)
}
