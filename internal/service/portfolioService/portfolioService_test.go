package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/KotFed0t/invest_tracker/data/repository"
	"github.com/KotFed0t/invest_tracker/internal/model"
	"github.com/KotFed0t/invest_tracker/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetHoldings(ctx context.Context, userID uuid.UUID) ([]model.Holding, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Holding), args.Error(1)
}

func (m *mockRepo) InsertHolding(ctx context.Context, holding model.Holding) (model.Holding, error) {
	args := m.Called(ctx, holding)
	return args.Get(0).(model.Holding), args.Error(1)
}

func (m *mockRepo) UpdateHolding(ctx context.Context, holding model.Holding) (model.Holding, error) {
	args := m.Called(ctx, holding)
	return args.Get(0).(model.Holding), args.Error(1)
}

func (m *mockRepo) DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) error {
	return m.Called(ctx, userID, holdingID).Error(0)
}

func (m *mockRepo) GetSettings(ctx context.Context, userID uuid.UUID) (model.Settings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Settings), args.Error(1)
}

func (m *mockRepo) UpsertSettings(ctx context.Context, userID uuid.UUID, update model.SettingsUpdate) (model.Settings, error) {
	args := m.Called(ctx, userID, update)
	return args.Get(0).(model.Settings), args.Error(1)
}

type stubValuator struct {
	got []model.Holding
}

func (s *stubValuator) ComputeSummary(_ context.Context, holdings []model.Holding) model.ValuationSummary {
	s.got = holdings
	return model.ValuationSummary{TotalValue: decimal.NewFromInt(42), HoldingCount: len(holdings)}
}

func strPtr(s string) *string {
	return &s
}

func TestValidateHolding(t *testing.T) {
	valid := model.HoldingInput{
		AssetType:   "stock",
		DisplayName: "  Apple ",
		Ticker:      strPtr(" AAPL "),
		Quantity:    decimal.RequireFromString("1.5"),
	}

	got, err := ValidateHolding(valid)
	require.NoError(t, err)
	assert.Equal(t, model.AssetTypeStock, got.AssetType)
	assert.Equal(t, "Apple", got.DisplayName)
	assert.Equal(t, "AAPL", *got.Ticker)

	got, err = ValidateHolding(model.HoldingInput{AssetType: model.AssetTypePension, DisplayName: "Fund", Ticker: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, got.Ticker)

	cases := map[string]model.HoldingInput{
		"missing type":      {DisplayName: "x"},
		"unknown type":      {AssetType: "BOND", DisplayName: "x"},
		"missing name":      {AssetType: model.AssetTypeStock, DisplayName: "  "},
		"negative quantity": {AssetType: model.AssetTypeStock, DisplayName: "x", Quantity: decimal.NewFromInt(-1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateHolding(in)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestPortfolioService_GetPortfolio(t *testing.T) {
	repo := new(mockRepo)
	val := &stubValuator{}
	userID := uuid.New()
	holdings := []model.Holding{{ID: uuid.New(), OwnerID: userID, AssetType: model.AssetTypeStock}}
	repo.On("GetHoldings", mock.Anything, userID).Return(holdings, nil)

	p, err := New(repo, val, "NIS").GetPortfolio(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, holdings, p.Holdings)
	assert.Equal(t, "42", p.Summary.TotalValue.String())
	assert.Equal(t, holdings, val.got)
	repo.AssertExpectations(t)
}

func TestPortfolioService_GetPortfolio_StoreFailure(t *testing.T) {
	repo := new(mockRepo)
	val := &stubValuator{}
	repo.On("GetHoldings", mock.Anything, mock.Anything).Return([]model.Holding(nil), errors.New("connection refused"))

	_, err := New(repo, val, "NIS").GetPortfolio(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, val.got)
}

func TestPortfolioService_CreateHolding(t *testing.T) {
	repo := new(mockRepo)
	userID := uuid.New()
	repo.On("InsertHolding", mock.Anything, mock.MatchedBy(func(h model.Holding) bool {
		return h.OwnerID == userID && h.ID != uuid.Nil && h.AssetType == model.AssetTypeCrypto && *h.Ticker == "BTC"
	})).Return(model.Holding{ID: uuid.New()}, nil)

	_, err := New(repo, &stubValuator{}, "NIS").CreateHolding(context.Background(), userID, model.HoldingInput{
		AssetType:   model.AssetTypeCrypto,
		DisplayName: "Bitcoin",
		Ticker:      strPtr("BTC"),
		Quantity:    decimal.RequireFromString("0.1"),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPortfolioService_CreateHolding_Invalid(t *testing.T) {
	repo := new(mockRepo)

	_, err := New(repo, &stubValuator{}, "NIS").CreateHolding(context.Background(), uuid.New(), model.HoldingInput{
		AssetType:   model.AssetTypeStock,
		DisplayName: "Apple",
		Quantity:    decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	repo.AssertNotCalled(t, "InsertHolding", mock.Anything, mock.Anything)
}

func TestPortfolioService_UpdateAndDelete_NotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("UpdateHolding", mock.Anything, mock.Anything).Return(model.Holding{}, repository.ErrNotFound)
	repo.On("DeleteHolding", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrNotFound)
	s := New(repo, &stubValuator{}, "NIS")

	_, err := s.UpdateHolding(context.Background(), uuid.New(), uuid.New(), model.HoldingInput{
		AssetType:   model.AssetTypeStock,
		DisplayName: "Apple",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = s.DeleteHolding(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPortfolioService_Settings(t *testing.T) {
	repo := new(mockRepo)
	userID := uuid.New()
	repo.On("GetSettings", mock.Anything, userID).Return(model.Settings{}, repository.ErrNotFound)
	repo.On("UpsertSettings", mock.Anything, userID, mock.MatchedBy(func(u model.SettingsUpdate) bool {
		return u.BaseCurrency != nil && *u.BaseCurrency == "USD" && u.DarkMode == nil
	})).Return(model.Settings{BaseCurrency: "USD"}, nil)
	s := New(repo, &stubValuator{}, "EUR")

	settings, err := s.GetSettings(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", settings.BaseCurrency)
	assert.False(t, settings.DarkMode)

	settings, err = s.UpdateSettings(context.Background(), userID, model.SettingsUpdate{BaseCurrency: strPtr("usd")})
	require.NoError(t, err)
	assert.Equal(t, "USD", settings.BaseCurrency)

	_, err = s.UpdateSettings(context.Background(), userID, model.SettingsUpdate{BaseCurrency: strPtr("dollars")})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestPortfolioService_CreateHolding_DeletedUser(t *testing.T) {
	repo := new(mockRepo)
	repo.On("InsertHolding", mock.Anything, mock.Anything).
		Return(model.Holding{}, fmt.Errorf("%w: holdings_user_id_fkey", repository.ErrReferenceNotFound))

	_, err := New(repo, &stubValuator{}, "NIS").CreateHolding(context.Background(), uuid.New(), model.HoldingInput{
		AssetType:   model.AssetTypeStock,
		DisplayName: "Apple",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
