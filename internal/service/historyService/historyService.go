package historyService

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

type SnapshotRepository interface {
	GetSnapshots(ctx context.Context, userID uuid.UUID, from time.Time) ([]model.Snapshot, error)
}

type HistoryService struct {
	repo SnapshotRepository
	now  func() time.Time
}

func New(repo SnapshotRepository) *HistoryService {
	return &HistoryService{repo: repo, now: time.Now}
}

func ParsePeriod(raw string) (model.Period, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return model.DefaultPeriod, nil
	}

	period := model.Period(raw)
	if _, ok := period.StartDate(time.Now()); !ok {
		return "", service.ErrInvalidPeriod
	}
	return period, nil
}

func (s *HistoryService) GetHistory(ctx context.Context, userID uuid.UUID, rawPeriod string) (points []model.HistoryPoint, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "HistoryService.GetHistory"

	slog.Debug("GetHistory start", slog.String("rqID", rqID), slog.String("op", op), slog.String("period", rawPeriod))
	defer func() {
		if err != nil {
			slog.Error("GetHistory failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHistory completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("points", len(points)))
		}
	}()

	period, err := ParsePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from, _ := period.StartDate(now)

	snapshots, err := s.repo.GetSnapshots(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	return Aggregate(snapshots, period, now), nil
}

// Aggregate sums snapshot values per calendar day and computes day over day gain.
// The first point is its own baseline.
func Aggregate(snapshots []model.Snapshot, period model.Period, now time.Time) []model.HistoryPoint {
	from, ok := period.StartDate(now)
	if !ok {
		return []model.HistoryPoint{}
	}

	totals := make(map[string]decimal.Decimal)
	for _, snap := range snapshots {
		if snap.Date.Before(from) {
			continue
		}
		day := snap.Date.UTC().Format(dateLayout)
		totals[day] = totals[day].Add(snap.ValueInBaseCurrency)
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]model.HistoryPoint, 0, len(days))
	for i, day := range days {
		total := totals[day]
		prev := total
		if i > 0 {
			prev = totals[days[i-1]]
		}

		gainLoss := total.Sub(prev)
		percent := decimal.Zero
		if prev.IsPositive() {
			percent = gainLoss.Div(prev).Mul(hundred).Round(2)
		}

		points = append(points, model.HistoryPoint{
			Date:            day,
			TotalValue:      total,
			GainLoss:        gainLoss,
			GainLossPercent: percent,
		})
	}

	return points
}
