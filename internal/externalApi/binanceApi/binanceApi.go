package binanceApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/invest_tracker/config"
	"github.com/KotFed0t/invest_tracker/internal/externalApi"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/go-resty/resty/v2"
)

const (
	sourceName = "Binance"
	// USDT пары считаем долларовыми
	quoteCurrency = "USD"
)

type BinanceApi struct {
	client *resty.Client
	now    func() time.Time
}

func New(cfg *config.Config) *BinanceApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.BinanceApi.Url)
	return &BinanceApi{client: client, now: time.Now}
}

type tickerPriceResponse struct {
	Symbol string  `json:"symbol"`
	Price  *string `json:"price"`
}

// GetTickerPrice returns the last price of a trading pair, e.g. BTCUSDT.
func (a *BinanceApi) GetTickerPrice(ctx context.Context, pair string) (model.PriceQuote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BinanceApi.GetTickerPrice"
	url := "/api/v3/ticker/price"

	slog.Debug("start BinanceApi.GetTickerPrice request", slog.String("rqID", rqID), slog.String("op", op), slog.String("pair", pair))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", pair).
		Get(url)
	if err != nil {
		slog.Error("error while dialing BinanceApi", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return model.PriceQuote{}, err
	}

	if !resp.IsSuccess() {
		return model.PriceQuote{}, fmt.Errorf("%w: %d", externalApi.ErrBadStatus, resp.StatusCode())
	}

	tickerPrice := tickerPriceResponse{}
	err = json.Unmarshal(resp.Body(), &tickerPrice)
	if err != nil {
		slog.Error("can't unmarshall response into tickerPriceResponse", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return model.PriceQuote{}, err
	}

	if tickerPrice.Price == nil {
		return model.PriceQuote{}, fmt.Errorf("%w: no price for %s", externalApi.ErrInvalidPrice, pair)
	}

	price, err := externalApi.ParsePrice(*tickerPrice.Price)
	if err != nil {
		return model.PriceQuote{}, err
	}

	slog.Debug("BinanceApi.GetTickerPrice request complete", slog.String("rqID", rqID), slog.String("op", op))

	return model.PriceQuote{
		Price:      price,
		Currency:   quoteCurrency,
		ObservedAt: a.now(),
		Source:     sourceName,
	}, nil
}
