package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/invest_tracker/data/repository"
	"github.com/KotFed0t/invest_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/model/dbModel"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
)

const holdingColumns = `holding_id, user_id, asset_type, display_name, ticker, quantity, dt_create, dt_update`

func (p *Postgres) GetHoldings(ctx context.Context, userID uuid.UUID) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetHoldings"
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1
		ORDER BY dt_create DESC
		`

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := p.txOrDb(ctx).QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	holdings = make([]model.Holding, 0)
	for rows.Next() {
		var holding dbModel.Holding
		err = rows.StructScan(&holding)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertHolding(holding))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return holdings, nil
}

func (p *Postgres) InsertHolding(ctx context.Context, holding model.Holding) (created model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertHolding"
	query := `
		INSERT INTO holdings(holding_id, user_id, asset_type, display_name, ticker, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + holdingColumns

	slog.Debug("InsertHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("holding", holding))
	defer func() {
		if err != nil {
			slog.Error("InsertHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertHolding completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbHolding := dbModel.Holding{}
	err = p.txOrDb(ctx).QueryRowxContext(
		ctx,
		query,
		holding.ID,
		holding.OwnerID,
		string(holding.AssetType),
		holding.DisplayName,
		dbConverter.TickerToNullString(holding.Ticker),
		holding.Quantity,
	).StructScan(&dbHolding)
	if err != nil {
		return model.Holding{}, mapError(err)
	}

	return dbConverter.ConvertHolding(dbHolding), nil
}

func (p *Postgres) UpdateHolding(ctx context.Context, holding model.Holding) (updated model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateHolding"
	query := `
		UPDATE holdings
		SET
			asset_type = $1,
			display_name = $2,
			ticker = $3,
			quantity = $4,
			dt_update = now()
		WHERE
			holding_id = $5
			AND user_id = $6
		RETURNING ` + holdingColumns

	slog.Debug("UpdateHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("holding", holding))
	defer func() {
		if err != nil {
			slog.Error("UpdateHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateHolding completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbHolding := dbModel.Holding{}
	err = p.txOrDb(ctx).QueryRowxContext(
		ctx,
		query,
		string(holding.AssetType),
		holding.DisplayName,
		dbConverter.TickerToNullString(holding.Ticker),
		holding.Quantity,
		holding.ID,
		holding.OwnerID,
	).StructScan(&dbHolding)
	if err != nil {
		return model.Holding{}, mapError(err)
	}

	return dbConverter.ConvertHolding(dbHolding), nil
}

func (p *Postgres) DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteHolding"
	params := map[string]any{
		"userID":    userID,
		"holdingID": holdingID,
	}
	query := `
		DELETE FROM holdings
		WHERE
			holding_id = $1
			AND user_id = $2
		`

	slog.Debug("DeleteHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Any("params", params))
	defer func() {
		if err != nil {
			slog.Error("DeleteHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteHolding completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := p.txOrDb(ctx).ExecContext(ctx, query, holdingID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
