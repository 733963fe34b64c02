package exportService

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/KotFed0t/invest_tracker/internal/service/historyService"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
)

type PortfolioProvider interface {
	GetPortfolio(ctx context.Context, userID uuid.UUID) (model.Portfolio, error)
}

type HistoryProvider interface {
	GetHistory(ctx context.Context, userID uuid.UUID, period string) ([]model.HistoryPoint, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error)
}

type FileStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type ExportService struct {
	portfolio PortfolioProvider
	history   HistoryProvider
	generator ReportGenerator
	storage   FileStorage
	now       func() time.Time
}

// New builds the export service. A nil storage disables exports.
func New(portfolio PortfolioProvider, history HistoryProvider, generator ReportGenerator, storage FileStorage) *ExportService {
	return &ExportService{
		portfolio: portfolio,
		history:   history,
		generator: generator,
		storage:   storage,
		now:       time.Now,
	}
}

func (s *ExportService) Export(ctx context.Context, userID uuid.UUID, rawPeriod string) (link string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExportService.Export"

	slog.Debug("Export start", slog.String("rqID", rqID), slog.String("op", op), slog.String("userID", userID.String()))
	defer func() {
		if err != nil {
			slog.Error("Export failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Export completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("link", link))
		}
	}()

	if s.storage == nil {
		return "", service.ErrExportUnavailable
	}

	period, err := historyService.ParsePeriod(rawPeriod)
	if err != nil {
		return "", err
	}

	portfolio, err := s.portfolio.GetPortfolio(ctx, userID)
	if err != nil {
		return "", err
	}

	history, err := s.history.GetHistory(ctx, userID, string(period))
	if err != nil {
		return "", err
	}

	now := s.now()
	fileBytes, ext, err := s.generator.Generate(ctx, model.Report{
		Portfolio:   portfolio,
		History:     history,
		Period:      period,
		GeneratedAt: now,
	})
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("portfolio_%s_%s%s", userID.String()[:8], now.Format("2006-01-02_150405"), ext)

	return s.storage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
}

// DeleteOldReports is run by the scheduler.
func (s *ExportService) DeleteOldReports(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	return s.storage.DeleteOldFiles(ctx)
}
