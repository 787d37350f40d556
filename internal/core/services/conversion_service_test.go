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
	"github.com/stretchr/testify/suite"
)

type ConversionServiceTestSuite struct {
	suite.Suite
	repo    *memRateRepo
	updated time.Time
	service portssvc.ConversionSvc
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.repo = newMemRateRepo()
	suite.updated = time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC)
	suite.repo.seed("USD", suite.updated, "EUR", "0.85", "RUB", "75.5", "ZZZ", "0")
	suite.service = services.NewConversionService(services.NewExchangeRateService(suite.repo))
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}

func (suite *ConversionServiceTestSuite) convert(amount, from, to, base string) *domain.Conversion {
	result, err := suite.service.Convert(context.Background(), decimal.RequireFromString(amount), from, to, base)
	suite.Require().NoError(err)
	return result
}

func (suite *ConversionServiceTestSuite) TestIdentity() {
	result := suite.convert("42.5", "GBP", "gbp", "USD")
	suite.Require().NotNil(result)
	suite.Equal(domain.ConversionIdentity, result.Branch)
	suite.True(decimal.NewFromInt(1).Equal(result.Rate))
	suite.True(decimal.RequireFromString("42.5").Equal(result.ConvertedAmount))
	suite.Nil(result.LastUpdated)
}

func (suite *ConversionServiceTestSuite) TestDirect() {
	result := suite.convert("100", "USD", "EUR", "USD")
	suite.Require().NotNil(result)
	suite.Equal(domain.ConversionDirect, result.Branch)
	suite.True(decimal.RequireFromString("0.85").Equal(result.Rate))
	suite.True(decimal.RequireFromString("85").Equal(result.ConvertedAmount))
	suite.Require().NotNil(result.LastUpdated)
	suite.Equal(suite.updated, *result.LastUpdated)
}

func (suite *ConversionServiceTestSuite) TestInverse() {
	result := suite.convert("85", "EUR", "USD", "USD")
	suite.Require().NotNil(result)
	suite.Equal(domain.ConversionInverse, result.Branch)
	suite.Equal("1.176471", result.Rate.StringFixed(6))
	suite.Equal("100.00", result.ConvertedAmount.StringFixed(2))
}

func (suite *ConversionServiceTestSuite) TestTriangulated() {
	result := suite.convert("100", "rub", "eur", "usd")
	suite.Require().NotNil(result)
	suite.Equal(domain.ConversionTriangulated, result.Branch)
	suite.Equal("RUB", result.From)
	suite.Equal("EUR", result.To)
	suite.Equal("1.1258", result.ConvertedAmount.StringFixed(4))
	suite.Equal("0.011258", result.Rate.StringFixed(6))
}

func (suite *ConversionServiceTestSuite) TestMissingLegsAreAbsent() {
	cases := []struct {
		name     string
		from, to string
	}{
		{"direct", "USD", "GBP"},
		{"inverse", "GBP", "USD"},
		{"triangulated missing from", "GBP", "EUR"},
		{"triangulated missing to", "EUR", "GBP"},
		{"zero rate direct", "USD", "ZZZ"},
		{"zero rate inverse", "ZZZ", "USD"},
		{"zero rate triangulated", "ZZZ", "EUR"},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			suite.Nil(suite.convert("10", tc.from, tc.to, "USD"))
		})
	}
}

func (suite *ConversionServiceTestSuite) TestEmptyBaseIsAbsent() {
	service := services.NewConversionService(services.NewExchangeRateService(newMemRateRepo()))
	result, err := service.Convert(context.Background(), decimal.NewFromInt(1), "USD", "EUR", "USD")
	suite.NoError(err)
	suite.Nil(result)
}

func (suite *ConversionServiceTestSuite) TestRejectsNonPositiveAmount() {
	for _, amount := range []string{"0", "-5"} {
		_, err := suite.service.Convert(context.Background(), decimal.RequireFromString(amount), "USD", "EUR", "USD")
		suite.True(errors.Is(err, apperrors.ErrValidation), amount)
	}
}

func (suite *ConversionServiceTestSuite) TestTriangulatedUsesLaterLegTimestamp() {
	ctx := context.Background()
	rates := new(MockExchangeRateService)
	older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	rates.On("GetRate", ctx, "USD", "RUB").Return(&domain.ExchangeRate{Rate: decimal.RequireFromString("75.5"), LastUpdated: newer}, nil)
	rates.On("GetRate", ctx, "USD", "EUR").Return(&domain.ExchangeRate{Rate: decimal.RequireFromString("0.85"), LastUpdated: older}, nil)

	result, err := services.NewConversionService(rates).Convert(ctx, decimal.NewFromInt(100), "RUB", "EUR", "USD")
	suite.Require().NoError(err)
	suite.Require().NotNil(result.LastUpdated)
	suite.Equal(newer, *result.LastUpdated)
}

func (suite *ConversionServiceTestSuite) TestStoreErrorPropagates() {
	ctx := context.Background()
	rates := new(MockExchangeRateService)
	storeErr := apperrors.NewAppError(500, "failed to query rate", errors.New("timeout"))
	rates.On("GetRate", ctx, "USD", "EUR").Return(nil, storeErr)

	result, err := services.NewConversionService(rates).Convert(ctx, decimal.NewFromInt(1), "USD", "EUR", "USD")
	suite.Nil(result)
	suite.ErrorIs(err, storeErr)
}
