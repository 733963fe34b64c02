package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceQuote struct {
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	ObservedAt time.Time       `json:"observedAt"`
	Source     string          `json:"source"`
}

// ExchangeRate converts one unit of From into Rate units of To.
type ExchangeRate struct {
	From       string
	To         string
	Rate       decimal.Decimal
	ObservedAt time.Time
	Source     string
}
