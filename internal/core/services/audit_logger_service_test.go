package services_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/core/services"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuditLoggerServiceTestSuite struct {
	suite.Suite
	logs    *MockAuditLogWriter
	devices *MockDeviceRepository
	stats   *memStatsRepo
	clock   *fakeClock
	service portssvc.AuditLoggerSvc
}

func (suite *AuditLoggerServiceTestSuite) SetupTest() {
	suite.logs = new(MockAuditLogWriter)
	suite.devices = new(MockDeviceRepository)
	suite.stats = newMemStatsRepo()
	suite.clock = newFakeClock(time.Date(2024, 3, 1, 22, 30, 0, 0, time.UTC))
	suite.service = services.NewAuditLoggerService(suite.logs, suite.stats, suite.devices,
		config.AuditConfig{Location: time.UTC},
		services.WithAuditClock(suite.clock.Now),
	)
}

func TestAuditLoggerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditLoggerServiceTestSuite))
}

func (suite *AuditLoggerServiceTestSuite) request(deviceID string) domain.RequestContext {
	return domain.RequestContext{
		DeviceID:  deviceID,
		IPAddress: "203.0.113.7",
		UserAgent: "CurrencyApp/2.1 (iOS)",
		StartedAt: suite.clock.Now().Add(-120 * time.Millisecond),
	}
}

func (suite *AuditLoggerServiceTestSuite) TestLogRequest_ResolvesKnownDevice() {
	ctx := context.Background()
	suite.devices.On("FindDeviceByExternalID", ctx, "ios-1").Return(&domain.Device{ID: 7, DeviceID: "ios-1"}, nil).Once()
	suite.logs.On("InsertRequestLog", ctx, mock.MatchedBy(func(l domain.ApiRequestLog) bool {
		return l.DeviceRef != nil && *l.DeviceRef == 7 &&
			l.ResponseTimeMs == 120 &&
			l.APIVersion == "v1" &&
			l.RequestParams != nil && *l.RequestParams == `{"amount":"100","from":"USD"}` &&
			l.UserAgent != nil && l.Referer == nil && l.ErrorMessage == nil
	})).Return(nil).Once()

	ok := suite.service.LogRequest(ctx, domain.RequestLogEntry{
		Request:        suite.request("ios-1"),
		Endpoint:       "/api/convert",
		Method:         "GET",
		Params:         domain.RequestParams{"from": "USD", "amount": "100"},
		ResponseStatus: 200,
		ResponseSize:   256,
	})

	suite.True(ok)
	suite.logs.AssertExpectations(suite.T())
	suite.devices.AssertNotCalled(suite.T(), "UpsertDevice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditLoggerServiceTestSuite) TestLogRequest_UnknownDeviceIsNotCreated() {
	ctx := context.Background()
	suite.devices.On("FindDeviceByExternalID", ctx, "ghost").Return(nil, apperrors.NewNotFoundError("device not found")).Once()
	suite.logs.On("InsertRequestLog", ctx, mock.MatchedBy(func(l domain.ApiRequestLog) bool {
		return l.DeviceRef == nil && l.RequestParams == nil
	})).Return(nil).Once()

	suite.True(suite.service.LogRequest(ctx, domain.RequestLogEntry{Request: suite.request("ghost"), Endpoint: "/api/rates", Method: "GET", ResponseStatus: 200}))
	suite.devices.AssertNotCalled(suite.T(), "UpsertDevice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuditLoggerServiceTestSuite) TestLogRequest_TruncatesLongFields() {
	ctx := context.Background()
	var stored domain.ApiRequestLog
	suite.logs.On("InsertRequestLog", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(domain.ApiRequestLog)
	}).Return(nil).Once()

	req := suite.request("")
	req.Referer = strings.Repeat("r", 800)
	ok := suite.service.LogRequest(ctx, domain.RequestLogEntry{
		Request:  req,
		Endpoint: "/api/device/register",
		Method:   "POST",
		Params:   domain.RequestParams{"device_name": strings.Repeat("é", 6000)},
	})

	suite.Require().True(ok)
	suite.Require().NotNil(stored.RequestParams)
	suite.Equal(services.MaxParamsLength+3, utf8.RuneCountInString(*stored.RequestParams))
	suite.True(strings.HasSuffix(*stored.RequestParams, "..."))
	suite.Require().NotNil(stored.Referer)
	suite.Len(*stored.Referer, services.MaxRefererLength)
	suite.devices.AssertNotCalled(suite.T(), "FindDeviceByExternalID", mock.Anything, mock.Anything)
}

func (suite *AuditLoggerServiceTestSuite) TestLongEndpointIsCappedToColumnWidth() {
	ctx := context.Background()
	endpoint := "/api/" + strings.Repeat("x", 300)
	var request domain.ApiRequestLog
	var failure domain.ErrorLog
	suite.logs.On("InsertRequestLog", ctx, mock.Anything).Run(func(args mock.Arguments) {
		request = args.Get(1).(domain.ApiRequestLog)
	}).Return(nil).Once()
	suite.logs.On("InsertErrorLog", ctx, mock.Anything).Run(func(args mock.Arguments) {
		failure = args.Get(1).(domain.ErrorLog)
	}).Return(nil).Once()

	suite.True(suite.service.LogRequest(ctx, domain.RequestLogEntry{
		Request: suite.request(""), Endpoint: endpoint, Method: "PROPFINDALL", ResponseStatus: 404,
	}))
	suite.True(suite.service.LogError(ctx, domain.ErrorLogEntry{Request: suite.request(""), Endpoint: endpoint, Message: "boom", HTTPStatus: 500}))
	suite.True(suite.service.UpdateStatistics(ctx, domain.StatisticSample{Endpoint: endpoint, Method: "PROPFINDALL"}))

	suite.Len(request.Endpoint, services.MaxEndpointLength)
	suite.Equal("PROPFINDAL", request.Method)
	suite.Require().NotNil(failure.Endpoint)
	suite.Len(*failure.Endpoint, services.MaxEndpointLength)
	rows, err := suite.stats.ListStatisticsByDate(ctx, suite.clock.Now())
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Len(rows[0].Endpoint, services.MaxEndpointLength)
	suite.Len(rows[0].Method, services.MaxMethodLength)
}

func (suite *AuditLoggerServiceTestSuite) TestLogRequest_InsertFailureReturnsFalse() {
	var buf bytes.Buffer
	ctx := middleware.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	suite.logs.On("InsertRequestLog", ctx, mock.Anything).Return(errors.New("relation does not exist")).Once()

	suite.False(suite.service.LogRequest(ctx, domain.RequestLogEntry{Request: suite.request(""), Endpoint: "/api", Method: "GET"}))
	suite.Contains(buf.String(), `"msg":"Audit write failed"`)
	suite.Contains(buf.String(), `"operation":"log_request"`)
	suite.Contains(buf.String(), `"error":"relation does not exist"`)
}

func (suite *AuditLoggerServiceTestSuite) TestLogConversion() {
	ctx := context.Background()
	suite.devices.On("FindDeviceByExternalID", ctx, "android-9").Return(&domain.Device{ID: 3}, nil).Once()
	suite.logs.On("InsertConversionLog", ctx, mock.MatchedBy(func(l domain.ConversionLog) bool {
		return *l.DeviceRef == 3 && l.FromCurrency == "USD" && l.ToCurrency == "EUR" &&
			l.ConvertedAmount.Equal(decimal.NewFromInt(85)) && l.IPAddress == "203.0.113.7" && !l.CreatedAt.IsZero()
	})).Return(nil).Once()

	ok := suite.service.LogConversion(ctx, suite.request("android-9"), domain.Conversion{
		Amount: decimal.NewFromInt(100), From: "USD", To: "EUR",
		ConvertedAmount: decimal.NewFromInt(85), Rate: decimal.RequireFromString("0.85"),
	})
	suite.True(ok)
	suite.logs.AssertExpectations(suite.T())
}

func (suite *AuditLoggerServiceTestSuite) TestLogRateUpdateAndError() {
	ctx := context.Background()
	suite.logs.On("InsertRateUpdateLog", ctx, mock.MatchedBy(func(l domain.RateUpdateLog) bool {
		return l.BaseCurrency == "USD" && !l.CreatedAt.IsZero()
	})).Return(nil).Once()
	suite.logs.On("InsertErrorLog", ctx, mock.MatchedBy(func(l domain.ErrorLog) bool {
		return l.HTTPStatus == 500 && *l.Endpoint == "/api/update" && l.ErrorMessage == "boom" && l.DeviceRef == nil
	})).Return(errors.New("disk full")).Once()

	suite.True(suite.service.LogRateUpdate(ctx, domain.RateUpdateLog{BaseCurrency: "USD", UpdateSource: "cron", Success: true}))
	suite.False(suite.service.LogError(ctx, domain.ErrorLogEntry{
		Request: suite.request(""), Endpoint: "/api/update", ErrorType: "panic", Message: "boom", HTTPStatus: 500,
	}))
	suite.logs.AssertExpectations(suite.T())
}

func (suite *AuditLoggerServiceTestSuite) TestUpdateStatistics_TwoCallsOnNewKey() {
	ctx := context.Background()
	sample := domain.StatisticSample{Endpoint: "/api/rates", Method: "GET", Success: true, ResponseTimeMs: 100, ResponseSizeBytes: 10}
	suite.True(suite.service.UpdateStatistics(ctx, sample))
	sample.ResponseTimeMs = 200
	suite.True(suite.service.UpdateStatistics(ctx, sample))

	rows, err := suite.stats.ListStatisticsByDate(ctx, suite.clock.Now())
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(int64(2), rows[0].TotalRequests)
	suite.True(decimal.NewFromInt(150).Equal(rows[0].AvgResponseTimeMs), rows[0].AvgResponseTimeMs.String())
}

func (suite *AuditLoggerServiceTestSuite) TestUpdateStatistics_UsesConfiguredTimeZone() {
	ctx := context.Background()
	tokyo := time.FixedZone("JST", 9*60*60)
	stats := newMemStatsRepo()
	service := services.NewAuditLoggerService(suite.logs, stats, suite.devices,
		config.AuditConfig{Location: tokyo}, services.WithAuditClock(suite.clock.Now))

	suite.True(service.UpdateStatistics(ctx, domain.StatisticSample{Endpoint: "/api", Method: "GET", Success: true}))
	suite.Require().Len(stats.dates, 1)
	suite.Equal("2024-03-02", stats.dates[0].Format(time.DateOnly))
}

func (suite *AuditLoggerServiceTestSuite) TestUpdateStatistics_FailureReturnsFalse() {
	service := services.NewAuditLoggerService(suite.logs, failingStatsRepo{}, nil, config.AuditConfig{})
	suite.False(service.UpdateStatistics(context.Background(), domain.StatisticSample{Endpoint: "/api", Method: "GET"}))
}
