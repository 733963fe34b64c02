package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValuationStatus string

const (
	StatusPriced         ValuationStatus = "priced"
	StatusNoTicker       ValuationStatus = "no_ticker"
	StatusNoLivePrice    ValuationStatus = "no_live_price"
	StatusNoExchangeRate ValuationStatus = "no_exchange_rate"
	StatusInvalid        ValuationStatus = "invalid"
)

type HoldingValuation struct {
	HoldingID uuid.UUID       `json:"holdingId"`
	AssetType AssetType       `json:"type"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Currency  string          `json:"currency,omitempty"`
	Value     decimal.Decimal `json:"value"`
	Status    ValuationStatus `json:"status"`
}

type ValuationSummary struct {
	TotalValue     decimal.Decimal               `json:"totalValue"`
	CategoryTotals map[AssetType]decimal.Decimal `json:"categoryTotals"`
	HoldingCount   int                           `json:"assetCount"`
	BaseCurrency   string                        `json:"baseCurrency"`
	ComputedAt     time.Time                     `json:"lastUpdated"`
	Holdings       []HoldingValuation            `json:"holdings"`
}
