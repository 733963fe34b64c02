package dbConverter

import (
	"database/sql"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/model/dbModel"
)

func ConvertHolding(dbHolding dbModel.Holding) model.Holding {
	holding := model.Holding{
		ID:          dbHolding.ID,
		OwnerID:     dbHolding.UserID,
		AssetType:   model.AssetType(dbHolding.AssetType),
		DisplayName: dbHolding.DisplayName,
		Quantity:    dbHolding.Quantity,
		CreatedAt:   dbHolding.CreatedAt,
		UpdatedAt:   dbHolding.UpdatedAt,
	}

	if dbHolding.Ticker.Valid {
		ticker := dbHolding.Ticker.String
		holding.Ticker = &ticker
	}

	return holding
}

func ConvertSnapshot(dbSnapshot dbModel.Snapshot) model.Snapshot {
	return model.Snapshot{
		ID:                  dbSnapshot.ID,
		HoldingID:           dbSnapshot.HoldingID,
		Date:                dbSnapshot.Date,
		ValueInBaseCurrency: dbSnapshot.ValueInBase,
	}
}

func ConvertUser(dbUser dbModel.User) model.User {
	return model.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		IsVerified:   dbUser.IsVerified,
		CreatedAt:    dbUser.CreatedAt,
	}
}

func ConvertSettings(dbSettings dbModel.Settings) model.Settings {
	return model.Settings{
		BaseCurrency: dbSettings.BaseCurrency,
		DarkMode:     dbSettings.DarkMode,
	}
}

func TickerToNullString(ticker *string) sql.NullString {
	if ticker == nil || *ticker == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *ticker, Valid: true}
}
