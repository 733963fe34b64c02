package boiApi

import (
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
)

const (
	sourceName = "Bank of Israel"
	// курсы Банка Израиля всегда в шекелях
	rateCurrency = "NIS"
)

type BoiApi struct {
	client *resty.Client
	now    func() time.Time
}

func New(cfg *config.Config) *BoiApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.BoiApi.Url).
		SetAuthToken(cfg.API.BoiApi.ApiKey)
	return &BoiApi{client: client, now: time.Now}
}

type rateResponse struct {
	Rate *json.Number `json:"rate"`
}

// GetRate returns how many NIS one unit of currency costs.
func (a *BoiApi) GetRate(ctx context.Context, currency string) (model.ExchangeRate, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BoiApi.GetRate"
	url := "/currency/rate"
	currency = strings.ToUpper(currency)

	slog.Debug("start BoiApi.GetRate request", slog.String("rqID", rqID), slog.String("op", op), slog.String("currency", currency))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("currency", currency).
		Get(url)
	if err != nil {
		slog.Error("error while dialing BoiApi", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return model.ExchangeRate{}, err
	}

	if !resp.IsSuccess() {
		return model.ExchangeRate{}, fmt.Errorf("%w: %d", externalApi.ErrBadStatus, resp.StatusCode())
	}

	rawRate := rateResponse{}
	err = json.Unmarshal(resp.Body(), &rawRate)
	if err != nil {
		slog.Error("can't unmarshall response into rateResponse", slog.String("err", err.Error()), slog.String("rqID", rqID), slog.String("op", op))
		return model.ExchangeRate{}, err
	}

	if rawRate.Rate == nil {
		return model.ExchangeRate{}, fmt.Errorf("%w: no rate for %s", externalApi.ErrInvalidPrice, currency)
	}

	rate, err := externalApi.ParsePrice(rawRate.Rate.String())
	if err != nil {
		return model.ExchangeRate{}, err
	}

	slog.Debug("BoiApi.GetRate request complete", slog.String("rqID", rqID), slog.String("op", op))

	return model.ExchangeRate{
		From:       currency,
		To:         rateCurrency,
		Rate:       rate,
		ObservedAt: a.now(),
		Source:     sourceName,
	}, nil
}
