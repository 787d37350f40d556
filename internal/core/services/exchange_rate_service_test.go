package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	repo    *memRateRepo
	clock   *fakeClock
	service portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.repo = newMemRateRepo()
	suite.clock = newFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	suite.service = services.NewExchangeRateService(suite.repo, services.WithExchangeRateClock(suite.clock.Now))
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func (suite *ExchangeRateServiceTestSuite) TestSaveRates_ThenGetAllRatesReturnsExactlyTheSet() {
	ctx := context.Background()
	suite.repo.seed("USD", suite.clock.Now().Add(-time.Hour), "OLD", "3")

	err := suite.service.SaveRates(ctx, "usd", map[string]decimal.Decimal{
		"b": decimal.NewFromInt(2),
		"A": decimal.NewFromInt(1),
	})
	suite.Require().NoError(err)

	rates, err := suite.service.GetAllRates(ctx, "USD")
	suite.Require().NoError(err)
	suite.Require().Len(rates, 2)
	suite.Equal("A", rates[0].TargetCurrency)
	suite.Equal("B", rates[1].TargetCurrency)
	suite.True(rates[1].Rate.Equal(decimal.NewFromInt(2)))
	suite.Equal(rates[0].LastUpdated, rates[1].LastUpdated)
}

func (suite *ExchangeRateServiceTestSuite) TestSaveRates_RejectsEmptySet() {
	err := suite.service.SaveRates(context.Background(), "USD", map[string]decimal.Decimal{})
	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))

	err = suite.service.SaveRates(context.Background(), " ", map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1)})
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate() {
	ctx := context.Background()
	suite.repo.seed("USD", suite.clock.Now(), "EUR", "0.85")

	rate, err := suite.service.GetRate(ctx, "usd", " eur ")
	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.True(decimal.RequireFromString("0.85").Equal(rate.Rate))

	missing, err := suite.service.GetRate(ctx, "USD", "GBP")
	suite.NoError(err)
	suite.Nil(missing)

	_, err = suite.service.GetRate(ctx, "", "EUR")
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *ExchangeRateServiceTestSuite) TestIsFresh() {
	ctx := context.Background()
	maxAge := time.Hour

	fresh, err := suite.service.IsFresh(ctx, "USD", maxAge)
	suite.Require().NoError(err)
	suite.False(fresh, "a base without rows is never fresh")

	suite.Require().NoError(suite.service.SaveRates(ctx, "USD", map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.85")}))

	fresh, err = suite.service.IsFresh(ctx, "USD", maxAge)
	suite.Require().NoError(err)
	suite.True(fresh)

	fresh, err = suite.service.IsFresh(ctx, "USD", 0)
	suite.Require().NoError(err)
	suite.False(fresh)

	fresh, err = suite.service.IsFresh(ctx, "USD", -time.Minute)
	suite.Require().NoError(err)
	suite.False(fresh)

	suite.clock.Advance(maxAge + time.Second)
	fresh, err = suite.service.IsFresh(ctx, "USD", maxAge)
	suite.Require().NoError(err)
	suite.False(fresh)
}

// --- Cached variant ---
type CachedExchangeRateServiceTestSuite struct {
	suite.Suite
	repo    *MockExchangeRateRepository
	cache   *MockRateCache
	service portssvc.ExchangeRateSvcFacade
	rates   []domain.ExchangeRate
}

func (suite *CachedExchangeRateServiceTestSuite) SetupTest() {
	suite.repo = new(MockExchangeRateRepository)
	suite.cache = new(MockRateCache)
	suite.service = services.NewExchangeRateService(suite.repo, services.WithRateCache(suite.cache, time.Hour))
	now := time.Now()
	suite.rates = []domain.ExchangeRate{
		{BaseCurrency: "USD", TargetCurrency: "EUR", Rate: decimal.RequireFromString("0.85"), LastUpdated: now},
		{BaseCurrency: "USD", TargetCurrency: "RUB", Rate: decimal.RequireFromString("75.5"), LastUpdated: now},
	}
}

func TestCachedExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CachedExchangeRateServiceTestSuite))
}

func (suite *CachedExchangeRateServiceTestSuite) TestCacheHitSkipsRepository() {
	ctx := context.Background()
	suite.cache.On("GetRates", ctx, "USD").Return(suite.rates, true, nil).Once()

	rate, err := suite.service.GetRate(ctx, "USD", "RUB")
	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.True(decimal.RequireFromString("75.5").Equal(rate.Rate))

	suite.repo.AssertNotCalled(suite.T(), "ListRatesByBase", mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "FindLatestRate", mock.Anything, mock.Anything, mock.Anything)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *CachedExchangeRateServiceTestSuite) TestCacheMissLoadsAndPopulates() {
	ctx := context.Background()
	suite.cache.On("GetRates", ctx, "USD").Return(nil, false, nil).Once()
	suite.repo.On("ListRatesByBase", ctx, "USD").Return(suite.rates, nil).Once()
	suite.cache.On("SetRates", ctx, "USD", suite.rates, time.Hour).Return(nil).Once()
	stored := suite.rates[0].LastUpdated
	suite.repo.On("FindLastUpdated", ctx, "USD").Return(&stored, nil).Once()

	rates, err := suite.service.GetAllRates(ctx, "USD")
	suite.Require().NoError(err)
	suite.Len(rates, 2)
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
	suite.cache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything, mock.Anything)
}

func (suite *CachedExchangeRateServiceTestSuite) TestCacheFillDroppedWhenStoreMovedOn() {
	ctx := context.Background()
	newer := suite.rates[0].LastUpdated.Add(time.Minute)
	suite.cache.On("GetRates", ctx, "USD").Return(nil, false, nil).Once()
	suite.repo.On("ListRatesByBase", ctx, "USD").Return(suite.rates, nil).Once()
	suite.cache.On("SetRates", ctx, "USD", suite.rates, time.Hour).Return(nil).Once()
	suite.repo.On("FindLastUpdated", ctx, "USD").Return(&newer, nil).Once()
	suite.cache.On("Invalidate", ctx, "USD").Return(nil).Once()

	_, err := suite.service.GetAllRates(ctx, "USD")
	suite.Require().NoError(err)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *CachedExchangeRateServiceTestSuite) TestCacheFillDroppedWhenVerificationFails() {
	ctx := context.Background()
	suite.cache.On("GetRates", ctx, "USD").Return(nil, false, nil).Once()
	suite.repo.On("ListRatesByBase", ctx, "USD").Return(suite.rates, nil).Once()
	suite.cache.On("SetRates", ctx, "USD", suite.rates, time.Hour).Return(nil).Once()
	suite.repo.On("FindLastUpdated", ctx, "USD").Return(nil, errors.New("conn reset")).Once()
	suite.cache.On("Invalidate", ctx, "USD").Return(nil).Once()

	rates, err := suite.service.GetAllRates(ctx, "USD")
	suite.Require().NoError(err)
	suite.Len(rates, 2)
	suite.cache.AssertExpectations(suite.T())
}

// A refresh that commits after a reader loaded the old set, but before the reader
// filled the cache, must not leave the old set cached.
func TestRefreshBetweenLoadAndCacheFillServesNewRate(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := &interleavedRateRepo{memRateRepo: newMemRateRepo()}
	repo.seed("USD", clock.Now().Add(-time.Hour), "EUR", "0.80")
	cache := newMemRateCache()
	service := services.NewExchangeRateService(repo,
		services.WithRateCache(cache, time.Hour),
		services.WithExchangeRateClock(clock.Now),
	)
	repo.afterList = func() {
		require.NoError(t, service.SaveRates(ctx, "USD", map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.95")}))
	}

	first, err := service.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, decimal.RequireFromString("0.80").Equal(first.Rate), "the in-flight read returns what it loaded")

	next, err := service.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, decimal.RequireFromString("0.95").Equal(next.Rate), "got %s", next.Rate)

	cached, ok, _ := cache.GetRates(ctx, "USD")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("0.95").Equal(cached[0].Rate))
}

func (suite *CachedExchangeRateServiceTestSuite) TestCacheErrorFallsBackToRepository() {
	ctx := context.Background()
	suite.cache.On("GetRates", ctx, "USD").Return(nil, false, errors.New("redis down")).Once()
	suite.repo.On("ListRatesByBase", ctx, "USD").Return(suite.rates, nil).Once()

	rate, err := suite.service.GetRate(ctx, "USD", "GBP")
	suite.Require().NoError(err)
	suite.Nil(rate)
	suite.cache.AssertNotCalled(suite.T(), "SetRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CachedExchangeRateServiceTestSuite) TestSaveRatesInvalidatesCache() {
	ctx := context.Background()
	rates := map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}
	suite.repo.On("ReplaceRates", ctx, "USD", rates, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.cache.On("Invalidate", ctx, "USD").Return(errors.New("redis down")).Once()

	suite.Require().NoError(suite.service.SaveRates(ctx, "USD", rates))
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *CachedExchangeRateServiceTestSuite) TestSaveRatesPropagatesStoreError() {
	ctx := context.Background()
	storeErr := apperrors.NewAppError(500, "failed to replace rates", errors.New("deadlock"))
	suite.repo.On("ReplaceRates", ctx, "USD", mock.Anything, mock.Anything).Return(storeErr).Once()

	err := suite.service.SaveRates(ctx, "USD", map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1)})
	suite.ErrorIs(err, storeErr)
	suite.cache.AssertNotCalled(suite.T(), "Invalidate", mock.Anything, mock.Anything)
}
