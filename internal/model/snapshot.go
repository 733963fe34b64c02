package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Snapshot struct {
	ID                  uuid.UUID       `json:"id"`
	HoldingID           uuid.UUID       `json:"holdingId"`
	Date                time.Time       `json:"date"`
	ValueInBaseCurrency decimal.Decimal `json:"value"`
}

type HistoryPoint struct {
	Date            string          `json:"date"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	GainLoss        decimal.Decimal `json:"gainLoss"`
	GainLossPercent decimal.Decimal `json:"gainLossPercent"`
}

type Period string

const (
	Period1M  Period = "1m"
	Period3M  Period = "3m"
	Period6M  Period = "6m"
	Period1Y  Period = "1y"
	PeriodAll Period = "all"
)

const DefaultPeriod = Period6M

// StartDate returns the first moment included in the period, counted from now.
func (p Period) StartDate(now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	switch p {
	case Period1M:
		return time.Date(y, m-1, d, 0, 0, 0, 0, now.Location()), true
	case Period3M:
		return time.Date(y, m-3, d, 0, 0, 0, 0, now.Location()), true
	case Period6M:
		return time.Date(y, m-6, d, 0, 0, 0, 0, now.Location()), true
	case Period1Y:
		return time.Date(y-1, m, d, 0, 0, 0, 0, now.Location()), true
	case PeriodAll:
		return time.Unix(0, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// SnapshotRun is the result of one scheduled snapshot pass for a user.
type SnapshotRun struct {
	UserID            uuid.UUID
	Date              time.Time
	NetWorth          decimal.Decimal
	PreviousNetWorth  decimal.Decimal
	ChangePercent     decimal.Decimal
	HasPreviousRun    bool
	SnapshotsInserted int
}
