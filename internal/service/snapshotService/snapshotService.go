package snapshotService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	GetUserIDsWithHoldings(ctx context.Context) ([]uuid.UUID, error)
	GetHoldings(ctx context.Context, userID uuid.UUID) ([]model.Holding, error)
	GetLatestSnapshotTotal(ctx context.Context, userID uuid.UUID) (total decimal.Decimal, found bool, err error)
	InsertSnapshots(ctx context.Context, snapshots []model.Snapshot) error
}

type Valuator interface {
	ComputeSummary(ctx context.Context, holdings []model.Holding) model.ValuationSummary
}

type Notifier interface {
	NotifySnapshot(ctx context.Context, run model.SnapshotRun, baseCurrency string) error
	NotifyError(ctx context.Context, errText string) error
}

type SnapshotService struct {
	repo     Repository
	valuator Valuator
	notifier Notifier
	now      func() time.Time
}

func New(repo Repository, valuator Valuator, notifier Notifier) *SnapshotService {
	return &SnapshotService{
		repo:     repo,
		valuator: valuator,
		notifier: notifier,
		now:      time.Now,
	}
}

// TakeSnapshots values the portfolio of every user with holdings and appends one snapshot per holding.
// A failure for one user does not stop the run for the others.
func (s *SnapshotService) TakeSnapshots(ctx context.Context) (runs []model.SnapshotRun, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SnapshotService.TakeSnapshots"

	slog.Info("TakeSnapshots start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("TakeSnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Info("TakeSnapshots completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("users", len(runs)))
		}
	}()

	userIDs, err := s.repo.GetUserIDsWithHoldings(ctx)
	if err != nil {
		s.notifyError(ctx, fmt.Sprintf("snapshot job: can't load users: %s", err.Error()))
		return nil, err
	}

	runs = make([]model.SnapshotRun, 0, len(userIDs))
	var errs []error
	for _, userID := range userIDs {
		run, err := s.snapshotUser(ctx, userID)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			s.notifyError(ctx, fmt.Sprintf("snapshot job failed for user %s: %s", userID, err.Error()))
			continue
		}
		runs = append(runs, run)
	}

	return runs, errors.Join(errs...)
}

func (s *SnapshotService) snapshotUser(ctx context.Context, userID uuid.UUID) (model.SnapshotRun, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SnapshotService.snapshotUser"

	holdings, err := s.repo.GetHoldings(ctx, userID)
	if err != nil {
		return model.SnapshotRun{}, err
	}
	if len(holdings) == 0 {
		return model.SnapshotRun{UserID: userID, Date: s.now(), NetWorth: decimal.Zero}, nil
	}

	summary := s.valuator.ComputeSummary(ctx, holdings)

	run := model.SnapshotRun{
		UserID:        userID,
		Date:          s.now().UTC(),
		NetWorth:      summary.TotalValue,
		ChangePercent: decimal.Zero,
	}

	snapshots := make([]model.Snapshot, 0, len(summary.Holdings))
	for _, v := range summary.Holdings {
		snapshots = append(snapshots, model.Snapshot{
			ID:                  uuid.New(),
			HoldingID:           v.HoldingID,
			Date:                run.Date,
			ValueInBaseCurrency: v.Value,
		})
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		previous, found, err := s.repo.GetLatestSnapshotTotal(ctx, userID)
		if err != nil {
			return err
		}
		run.HasPreviousRun = found
		run.PreviousNetWorth = previous

		return s.repo.InsertSnapshots(ctx, snapshots)
	})
	if err != nil {
		return model.SnapshotRun{}, err
	}
	run.SnapshotsInserted = len(snapshots)

	if run.HasPreviousRun && run.PreviousNetWorth.IsPositive() {
		run.ChangePercent = run.NetWorth.Sub(run.PreviousNetWorth).Div(run.PreviousNetWorth).Mul(hundred).Round(2)
	}

	err = s.notifier.NotifySnapshot(ctx, run, summary.BaseCurrency)
	if err != nil {
		slog.Warn("can't send snapshot notification", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return run, nil
}

func (s *SnapshotService) notifyError(ctx context.Context, text string) {
	if err := s.notifier.NotifyError(ctx, text); err != nil {
		slog.Warn("can't send error notification", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}
