package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock           AssetType = "STOCK"
	AssetTypeCrypto          AssetType = "CRYPTO"
	AssetTypePension         AssetType = "PENSION"
	AssetTypeEducationFund   AssetType = "EDUCATION_FUND"
	AssetTypeInvestmentFund  AssetType = "INVESTMENT_FUND"
	AssetTypeMoneyMarket     AssetType = "MONEY_MARKET"
	AssetTypeForeignCurrency AssetType = "FOREIGN_CURRENCY"
)

var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeCrypto,
	AssetTypePension,
	AssetTypeEducationFund,
	AssetTypeInvestmentFund,
	AssetTypeMoneyMarket,
	AssetTypeForeignCurrency,
}

func (t AssetType) Valid() bool {
	for _, at := range AssetTypes {
		if at == t {
			return true
		}
	}
	return false
}

type Holding struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"userId"`
	AssetType   AssetType       `json:"type"`
	DisplayName string          `json:"assetName"`
	Ticker      *string         `json:"ticker,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasTicker reports whether a live price can be resolved for the holding.
func (h Holding) HasTicker() bool {
	return h.Ticker != nil && strings.TrimSpace(*h.Ticker) != ""
}

// HoldingInput is the user-editable part of a holding.
type HoldingInput struct {
	AssetType   AssetType
	DisplayName string
	Ticker      *string
	Quantity    decimal.Decimal
}
