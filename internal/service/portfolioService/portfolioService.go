package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/KotFed0t/invest_tracker/data/repository"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/KotFed0t/invest_tracker/utils"
	"github.com/google/uuid"
)

const maxDisplayNameLen = 255

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

type Repository interface {
	GetHoldings(ctx context.Context, userID uuid.UUID) ([]model.Holding, error)
	InsertHolding(ctx context.Context, holding model.Holding) (model.Holding, error)
	UpdateHolding(ctx context.Context, holding model.Holding) (model.Holding, error)
	DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) error
	GetSettings(ctx context.Context, userID uuid.UUID) (model.Settings, error)
	UpsertSettings(ctx context.Context, userID uuid.UUID, update model.SettingsUpdate) (model.Settings, error)
}

type Valuator interface {
	ComputeSummary(ctx context.Context, holdings []model.Holding) model.ValuationSummary
}

type PortfolioService struct {
	repo         Repository
	valuator     Valuator
	baseCurrency string
}

func New(repo Repository, valuator Valuator, baseCurrency string) *PortfolioService {
	return &PortfolioService{
		repo:         repo,
		valuator:     valuator,
		baseCurrency: baseCurrency,
	}
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, userID uuid.UUID) (portfolio model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("userID", userID.String()))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	holdings, err := s.repo.GetHoldings(ctx, userID)
	if err != nil {
		return model.Portfolio{}, err
	}

	return model.Portfolio{
		Holdings: holdings,
		Summary:  s.valuator.ComputeSummary(ctx, holdings),
	}, nil
}

func (s *PortfolioService) CreateHolding(ctx context.Context, userID uuid.UUID, input model.HoldingInput) (holding model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateHolding"

	slog.Debug("CreateHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("userID", userID.String()))
	defer func() {
		if err != nil {
			slog.Error("CreateHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateHolding completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("holdingID", holding.ID.String()))
		}
	}()

	input, err = ValidateHolding(input)
	if err != nil {
		return model.Holding{}, err
	}

	holding, err = s.repo.InsertHolding(ctx, model.Holding{
		ID:          uuid.New(),
		OwnerID:     userID,
		AssetType:   input.AssetType,
		DisplayName: input.DisplayName,
		Ticker:      input.Ticker,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return model.Holding{}, mapRepoError(err)
	}

	return holding, nil
}

func (s *PortfolioService) UpdateHolding(ctx context.Context, userID, holdingID uuid.UUID, input model.HoldingInput) (holding model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateHolding"

	slog.Debug("UpdateHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("holdingID", holdingID.String()))
	defer func() {
		if err != nil {
			slog.Error("UpdateHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateHolding completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	input, err = ValidateHolding(input)
	if err != nil {
		return model.Holding{}, err
	}

	holding, err = s.repo.UpdateHolding(ctx, model.Holding{
		ID:          holdingID,
		OwnerID:     userID,
		AssetType:   input.AssetType,
		DisplayName: input.DisplayName,
		Ticker:      input.Ticker,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return model.Holding{}, mapRepoError(err)
	}

	return holding, nil
}

func (s *PortfolioService) DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeleteHolding"

	slog.Debug("DeleteHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("holdingID", holdingID.String()))
	defer func() {
		if err != nil {
			slog.Error("DeleteHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteHolding completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	return mapRepoError(s.repo.DeleteHolding(ctx, userID, holdingID))
}

func (s *PortfolioService) GetSettings(ctx context.Context, userID uuid.UUID) (model.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		// настройки ещё не создавались
		return model.Settings{BaseCurrency: s.baseCurrency}, nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

func (s *PortfolioService) UpdateSettings(ctx context.Context, userID uuid.UUID, update model.SettingsUpdate) (model.Settings, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateSettings"

	if update.BaseCurrency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*update.BaseCurrency))
		if !currencyCode.MatchString(cur) {
			return model.Settings{}, fmt.Errorf("%w: base currency must be a 3 letter code", service.ErrInvalidInput)
		}
		update.BaseCurrency = &cur
	}

	settings, err := s.repo.UpsertSettings(ctx, userID, update)
	if err != nil {
		slog.Error("got error from repo.UpsertSettings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Settings{}, mapRepoError(err)
	}

	return settings, nil
}

// ValidateHolding normalizes the input and rejects it before it reaches the store or the valuation.
func ValidateHolding(input model.HoldingInput) (model.HoldingInput, error) {
	if input.AssetType == "" {
		return input, fmt.Errorf("%w: type is required", service.ErrInvalidInput)
	}
	input.AssetType = model.AssetType(strings.ToUpper(string(input.AssetType)))
	if !input.AssetType.Valid() {
		return input, fmt.Errorf("%w: unknown asset type %q", service.ErrInvalidInput, input.AssetType)
	}

	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.DisplayName == "" {
		return input, fmt.Errorf("%w: asset name is required", service.ErrInvalidInput)
	}
	if len([]rune(input.DisplayName)) > maxDisplayNameLen {
		return input, fmt.Errorf("%w: asset name is too long", service.ErrInvalidInput)
	}

	if input.Quantity.IsNegative() {
		return input, fmt.Errorf("%w: quantity must not be negative", service.ErrInvalidInput)
	}

	if input.Ticker != nil {
		ticker := strings.TrimSpace(*input.Ticker)
		if ticker == "" {
			input.Ticker = nil
		} else {
			input.Ticker = &ticker
		}
	}

	return input, nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrReferenceNotFound):
		return service.ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return service.ErrAlreadyExists
	default:
		return err
	}
}
