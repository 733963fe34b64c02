package dbModel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Snapshot struct {
	ID          uuid.UUID       `db:"snapshot_id"`
	HoldingID   uuid.UUID       `db:"holding_id"`
	Date        time.Time       `db:"dt_snapshot"`
	ValueInBase decimal.Decimal `db:"value_in_base"`
}
