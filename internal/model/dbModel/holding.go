package dbModel

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Holding struct {
	ID          uuid.UUID       `db:"holding_id"`
	UserID      uuid.UUID       `db:"user_id"`
	AssetType   string          `db:"asset_type"`
	DisplayName string          `db:"display_name"`
	Ticker      sql.NullString  `db:"ticker"`
	Quantity    decimal.Decimal `db:"quantity"`
	CreatedAt   time.Time       `db:"dt_create"`
	UpdatedAt   time.Time       `db:"dt_update"`
}
