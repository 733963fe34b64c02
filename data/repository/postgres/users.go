package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/invest_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/model/dbModel"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
)

func (p *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (user model.User, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.CreateUser"
	userQuery := `
		INSERT INTO users(user_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id, email, password_hash, is_verified, dt_create
		`
	settingsQuery := `INSERT INTO user_settings(user_id, base_currency, dark_mode) VALUES ($1, $2, FALSE)`

	slog.Debug("CreateUser start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", userQuery))
	defer func() {
		if err != nil {
			slog.Error("CreateUser failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateUser completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = p.WithinTransaction(ctx, func(ctx context.Context) error {
		dbUser := dbModel.User{}
		err := p.txOrDb(ctx).QueryRowxContext(ctx, userQuery, uuid.New(), email, passwordHash).StructScan(&dbUser)
		if err != nil {
			return mapError(err)
		}

		_, err = p.txOrDb(ctx).ExecContext(ctx, settingsQuery, dbUser.ID, p.baseCurrency)
		if err != nil {
			return err
		}

		user = dbConverter.ConvertUser(dbUser)
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (p *Postgres) getUser(ctx context.Context, op, query string, arg any) (user model.User, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("getUser start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Debug("getUser failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("getUser completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbUser := dbModel.User{}
	err = p.txOrDb(ctx).QueryRowxContext(ctx, query, arg).StructScan(&dbUser)
	if err != nil {
		return model.User{}, mapError(err)
	}

	return dbConverter.ConvertUser(dbUser), nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	query := `
		SELECT user_id, email, password_hash, is_verified, dt_create
		FROM users
		WHERE lower(email) = lower($1)
		`
	return p.getUser(ctx, "Postgres.GetUserByEmail", query, email)
}

func (p *Postgres) GetUserByID(ctx context.Context, userID uuid.UUID) (model.User, error) {
	query := `
		SELECT user_id, email, password_hash, is_verified, dt_create
		FROM users
		WHERE user_id = $1
		`
	return p.getUser(ctx, "Postgres.GetUserByID", query, userID)
}

// MarkUserVerified sets the verified flag and reports whether this call was the one that set it.
func (p *Postgres) MarkUserVerified(ctx context.Context, userID uuid.UUID) (firstVerification bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.MarkUserVerified"
	query := `UPDATE users SET is_verified = TRUE WHERE user_id = $1 AND is_verified = FALSE`

	slog.Debug("MarkUserVerified start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("MarkUserVerified failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("MarkUserVerified completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := p.txOrDb(ctx).ExecContext(ctx, query, userID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (p *Postgres) GetSettings(ctx context.Context, userID uuid.UUID) (settings model.Settings, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetSettings"
	query := `SELECT user_id, base_currency, dark_mode FROM user_settings WHERE user_id = $1`

	slog.Debug("GetSettings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Debug("GetSettings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSettings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbSettings := dbModel.Settings{}
	err = p.txOrDb(ctx).GetContext(ctx, &dbSettings, query, userID)
	if err != nil {
		return model.Settings{}, mapError(err)
	}

	return dbConverter.ConvertSettings(dbSettings), nil
}

func (p *Postgres) UpsertSettings(ctx context.Context, userID uuid.UUID, update model.SettingsUpdate) (settings model.Settings, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpsertSettings"
	query := `
		INSERT INTO user_settings(user_id, base_currency, dark_mode)
		VALUES ($1, COALESCE($2, $4), COALESCE($3, FALSE))
		ON CONFLICT (user_id) DO UPDATE SET
			base_currency = COALESCE($2, user_settings.base_currency),
			dark_mode = COALESCE($3, user_settings.dark_mode)
		RETURNING user_id, base_currency, dark_mode
		`

	slog.Debug("UpsertSettings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpsertSettings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertSettings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbSettings := dbModel.Settings{}
	err = p.txOrDb(ctx).QueryRowxContext(ctx, query, userID, update.BaseCurrency, update.DarkMode, p.baseCurrency).StructScan(&dbSettings)
	if err != nil {
		return model.Settings{}, mapError(err)
	}

	return dbConverter.ConvertSettings(dbSettings), nil
}

func (p *Postgres) GetUserIDsWithHoldings(ctx context.Context) (userIDs []uuid.UUID, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetUserIDsWithHoldings"
	query := `SELECT DISTINCT user_id FROM holdings ORDER BY user_id`

	slog.Debug("GetUserIDsWithHoldings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetUserIDsWithHoldings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetUserIDsWithHoldings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = p.txOrDb(ctx).SelectContext(ctx, &userIDs, query)
	if err != nil {
		return nil, err
	}

	return userIDs, nil
}
