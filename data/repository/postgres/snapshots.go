package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/model/dbModel"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (p *Postgres) InsertSnapshots(ctx context.Context, snapshots []model.Snapshot) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertSnapshots"

	if len(snapshots) == 0 {
		return nil
	}

	sb := strings.Builder{}
	args := make([]any, 0, len(snapshots)*4)

	slog.Debug("InsertSnapshots start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(snapshots)))
	defer func() {
		if err != nil {
			slog.Error("InsertSnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertSnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	sb.WriteString(`INSERT INTO holding_snapshots (snapshot_id, holding_id, dt_snapshot, value_in_base) VALUES `)

	for i, snapshot := range snapshots {
		args = append(args, snapshot.ID, snapshot.HoldingID, snapshot.Date, snapshot.ValueInBaseCurrency)

		start := i*4 + 1
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d)", start, start+1, start+2, start+3))

		if i < len(snapshots)-1 {
			sb.WriteString(",")
		}
	}

	_, err = p.txOrDb(ctx).ExecContext(ctx, sb.String(), args...)
	return err
}

func (p *Postgres) GetSnapshots(ctx context.Context, userID uuid.UUID, from time.Time) (snapshots []model.Snapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetSnapshots"
	query := `
		SELECT s.snapshot_id, s.holding_id, s.dt_snapshot, s.value_in_base
		FROM holding_snapshots s
		JOIN holdings h USING (holding_id)
		WHERE h.user_id = $1
		AND s.dt_snapshot >= $2
		ORDER BY s.dt_snapshot
		`

	slog.Debug("GetSnapshots start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Time("from", from))
	defer func() {
		if err != nil {
			slog.Error("GetSnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := p.txOrDb(ctx).QueryxContext(ctx, query, userID, from)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	snapshots = make([]model.Snapshot, 0)
	for rows.Next() {
		var snapshot dbModel.Snapshot
		err = rows.StructScan(&snapshot)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, dbConverter.ConvertSnapshot(snapshot))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetLatestSnapshotTotal sums the user's snapshots taken at the most recent snapshot moment.
func (p *Postgres) GetLatestSnapshotTotal(ctx context.Context, userID uuid.UUID) (total decimal.Decimal, found bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetLatestSnapshotTotal"
	query := `
		WITH user_snapshots AS (
			SELECT s.dt_snapshot, s.value_in_base
			FROM holding_snapshots s
			JOIN holdings h USING (holding_id)
			WHERE h.user_id = $1
		)
		SELECT COUNT(*), COALESCE(SUM(value_in_base), 0)
		FROM user_snapshots
		WHERE dt_snapshot = (SELECT MAX(dt_snapshot) FROM user_snapshots)
		`

	slog.Debug("GetLatestSnapshotTotal start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetLatestSnapshotTotal failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetLatestSnapshotTotal completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	var count int64
	err = p.txOrDb(ctx).QueryRowContext(ctx, query, userID).Scan(&count, &total)
	if err != nil {
		return decimal.Zero, false, err
	}

	return total, count > 0, nil
}
