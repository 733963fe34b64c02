package rest

import (
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/shopspring/decimal"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type holdingRequest struct {
	Type      string              `json:"type"`
	AssetName string              `json:"assetName"`
	Ticker    *string             `json:"ticker"`
	Quantity  decimal.NullDecimal `json:"quantity"`
}

func (r holdingRequest) toInput() model.HoldingInput {
	return model.HoldingInput{
		AssetType:   model.AssetType(r.Type),
		DisplayName: r.AssetName,
		Ticker:      r.Ticker,
		Quantity:    r.Quantity.Decimal,
	}
}

type settingsRequest struct {
	BaseCurrency *string `json:"baseCurrency"`
	DarkMode     *bool   `json:"darkMode"`
}

type unitPrice struct {
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency"`
}

type portfolioResponse struct {
	Investments []model.Holding        `json:"investments"`
	Summary     model.ValuationSummary `json:"summary"`
	Prices      map[string]unitPrice   `json:"prices"`
}

func newPortfolioResponse(p model.Portfolio) portfolioResponse {
	prices := make(map[string]unitPrice, len(p.Summary.Holdings))
	for _, v := range p.Summary.Holdings {
		if v.Status == model.StatusNoTicker || v.Status == model.StatusNoLivePrice || v.Status == model.StatusInvalid {
			continue
		}
		prices[v.HoldingID.String()] = unitPrice{UnitPrice: v.UnitPrice, Currency: v.Currency}
	}

	holdings := p.Holdings
	if holdings == nil {
		holdings = []model.Holding{}
	}

	return portfolioResponse{
		Investments: holdings,
		Summary:     p.Summary,
		Prices:      prices,
	}
}

type historyResponse struct {
	Data    []model.HistoryPoint `json:"data"`
	Period  string               `json:"period"`
	GroupBy string               `json:"groupBy"`
}
