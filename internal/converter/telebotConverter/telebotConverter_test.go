package telebotConverter

import (
	"testing"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotMessage(t *testing.T) {
	date := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)

	t.Run("first run", func(t *testing.T) {
		msg := SnapshotMessage(model.SnapshotRun{Date: date, NetWorth: decimal.NewFromInt(1000)}, "NIS")
		assert.Contains(t, msg, "Net Worth: ₪1000.00")
		assert.NotContains(t, msg, "Change")
	})

	t.Run("gain", func(t *testing.T) {
		msg := SnapshotMessage(model.SnapshotRun{
			Date:             date,
			NetWorth:         decimal.NewFromInt(1200),
			PreviousNetWorth: decimal.NewFromInt(1000),
			ChangePercent:    decimal.NewFromInt(20),
			HasPreviousRun:   true,
		}, "NIS")
		assert.Contains(t, msg, "📈 Change: +₪200.00")
		assert.Contains(t, msg, "Change: +20.00%")
	})

	t.Run("loss", func(t *testing.T) {
		msg := SnapshotMessage(model.SnapshotRun{
			Date:             date,
			NetWorth:         decimal.NewFromInt(900),
			PreviousNetWorth: decimal.NewFromInt(1000),
			ChangePercent:    decimal.NewFromInt(-10),
			HasPreviousRun:   true,
		}, "USD")
		assert.Contains(t, msg, "📉 Change: $-100.00")
		assert.Contains(t, msg, "Change: -10.00%")
	})
}
