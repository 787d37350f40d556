package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Clock ---
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- In-memory ExchangeRateRepository ---
type memRateRepo struct {
	mu    sync.Mutex
	rates map[string]map[string]domain.ExchangeRate
}

func newMemRateRepo() *memRateRepo {
	return &memRateRepo{rates: map[string]map[string]domain.ExchangeRate{}}
}

func (r *memRateRepo) FindLatestRate(_ context.Context, base, target string) (*domain.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rate, ok := r.rates[base][target]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (r *memRateRepo) ListRatesByBase(_ context.Context, base string) ([]domain.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ExchangeRate, 0, len(r.rates[base]))
	for _, rate := range r.rates[base] {
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetCurrency < out[j].TargetCurrency })
	return out, nil
}

func (r *memRateRepo) FindLastUpdated(_ context.Context, base string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *time.Time
	for _, rate := range r.rates[base] {
		if last == nil || rate.LastUpdated.After(*last) {
			t := rate.LastUpdated
			last = &t
		}
	}
	return last, nil
}

func (r *memRateRepo) ReplaceRates(_ context.Context, base string, rates map[string]decimal.Decimal, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]domain.ExchangeRate, len(rates))
	for target, rate := range rates {
		set[target] = domain.ExchangeRate{
			BaseCurrency: base, TargetCurrency: target, Rate: rate,
			LastUpdated: updatedAt, CreatedAt: updatedAt,
		}
	}
	r.rates[base] = set
	return nil
}

// seed stores rates given as strings, e.g. seed("USD", t, "EUR", "0.85").
func (r *memRateRepo) seed(base string, at time.Time, pairs ...string) {
	rates := map[string]decimal.Decimal{}
	for i := 0; i+1 < len(pairs); i += 2 {
		rates[pairs[i]] = decimal.RequireFromString(pairs[i+1])
	}
	_ = r.ReplaceRates(context.Background(), base, rates, at)
}

// interleavedRateRepo runs afterList once, right after the first ListRatesByBase read,
// to commit a write between a reader's load and its cache fill.
type interleavedRateRepo struct {
	*memRateRepo
	once      sync.Once
	afterList func()
}

func (r *interleavedRateRepo) ListRatesByBase(ctx context.Context, base string) ([]domain.ExchangeRate, error) {
	rates, err := r.memRateRepo.ListRatesByBase(ctx, base)
	if r.afterList != nil {
		r.once.Do(r.afterList)
	}
	return rates, err
}

// --- In-memory RateCache ---
type memRateCache struct {
	mu    sync.Mutex
	rates map[string][]domain.ExchangeRate
}

func newMemRateCache() *memRateCache {
	return &memRateCache{rates: map[string][]domain.ExchangeRate{}}
}

func (c *memRateCache) GetRates(_ context.Context, base string) ([]domain.ExchangeRate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rates, ok := c.rates[base]
	return rates, ok, nil
}

func (c *memRateCache) SetRates(_ context.Context, base string, rates []domain.ExchangeRate, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[base] = rates
	return nil
}

func (c *memRateCache) Invalidate(_ context.Context, base string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rates, base)
	return nil
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindLatestRate(ctx context.Context, base, target string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListRatesByBase(ctx context.Context, base string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLastUpdated(ctx context.Context, base string) (*time.Time, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockExchangeRateRepository) ReplaceRates(ctx context.Context, base string, rates map[string]decimal.Decimal, updatedAt time.Time) error {
	args := m.Called(ctx, base, rates, updatedAt)
	return args.Error(0)
}

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRates(ctx context.Context, base string) ([]domain.ExchangeRate, bool, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Bool(1), args.Error(2)
}

func (m *MockRateCache) SetRates(ctx context.Context, base string, rates []domain.ExchangeRate, ttl time.Duration) error {
	args := m.Called(ctx, base, rates, ttl)
	return args.Error(0)
}

func (m *MockRateCache) Invalidate(ctx context.Context, base string) error {
	args := m.Called(ctx, base)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetRate(ctx context.Context, base, target string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) GetAllRates(ctx context.Context, base string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) IsFresh(ctx context.Context, base string, maxAge time.Duration) (bool, error) {
	args := m.Called(ctx, base, maxAge)
	return args.Bool(0), args.Error(1)
}

func (m *MockExchangeRateService) SaveRates(ctx context.Context, base string, rates map[string]decimal.Decimal) error {
	args := m.Called(ctx, base, rates)
	return args.Error(0)
}

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchLatest(ctx context.Context) (*domain.UpstreamRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpstreamRates), args.Error(1)
}

func (m *MockRateProvider) Name() string { return "mock-provider" }

// --- Mock RateEventPublisher ---
type MockRateEventPublisher struct {
	mock.Mock
}

func (m *MockRateEventPublisher) PublishRatesUpdated(ctx context.Context, event domain.RatesUpdatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRateEventPublisher) Close() error { return nil }

// --- Mock AuditLoggerSvc ---
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogRequest(ctx context.Context, entry domain.RequestLogEntry) bool {
	return m.Called(ctx, entry).Bool(0)
}

func (m *MockAuditLogger) LogConversion(ctx context.Context, req domain.RequestContext, conversion domain.Conversion) bool {
	return m.Called(ctx, req, conversion).Bool(0)
}

func (m *MockAuditLogger) LogRateUpdate(ctx context.Context, update domain.RateUpdateLog) bool {
	return m.Called(ctx, update).Bool(0)
}

func (m *MockAuditLogger) LogError(ctx context.Context, entry domain.ErrorLogEntry) bool {
	return m.Called(ctx, entry).Bool(0)
}

func (m *MockAuditLogger) UpdateStatistics(ctx context.Context, sample domain.StatisticSample) bool {
	return m.Called(ctx, sample).Bool(0)
}

// --- Mock AuditLogWriter ---
type MockAuditLogWriter struct {
	mock.Mock
}

func (m *MockAuditLogWriter) InsertRequestLog(ctx context.Context, log domain.ApiRequestLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogWriter) InsertConversionLog(ctx context.Context, log domain.ConversionLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogWriter) InsertRateUpdateLog(ctx context.Context, log domain.RateUpdateLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogWriter) InsertErrorLog(ctx context.Context, log domain.ErrorLog) error {
	return m.Called(ctx, log).Error(0)
}

// --- Mock DeviceRepository ---
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) FindDeviceByExternalID(ctx context.Context, deviceID string) (*domain.Device, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *MockDeviceRepository) ListDevices(ctx context.Context, limit, offset int) ([]domain.Device, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Device), args.Error(1)
}

func (m *MockDeviceRepository) UpsertDevice(ctx context.Context, reg domain.DeviceRegistration, lastActive time.Time) (*domain.Device, bool, error) {
	args := m.Called(ctx, reg, lastActive)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Device), args.Bool(1), args.Error(2)
}

// --- In-memory StatisticsRepository ---
type memStatsRepo struct {
	mu    sync.Mutex
	rows  map[string]domain.ApiStatistic
	dates []time.Time
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{rows: map[string]domain.ApiStatistic{}}
}

func statKey(date time.Time, endpoint, method string) string {
	return fmt.Sprintf("%s|%s|%s", date.Format(time.DateOnly), endpoint, method)
}

func (r *memStatsRepo) MergeStatistic(_ context.Context, date time.Time, sample domain.StatisticSample) (*domain.ApiStatistic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	key := statKey(date, sample.Endpoint, sample.Method)
	stat, ok := r.rows[key]
	if ok {
		stat = stat.Merge(sample)
	} else {
		stat = domain.NewApiStatistic(date, sample)
	}
	r.rows[key] = stat
	return &stat, nil
}

func (r *memStatsRepo) ListStatisticsByDate(_ context.Context, date time.Time) ([]domain.ApiStatistic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ApiStatistic
	for _, stat := range r.rows {
		if stat.Date.Format(time.DateOnly) == date.Format(time.DateOnly) {
			out = append(out, stat)
		}
	}
	return out, nil
}

// --- Failing StatisticsRepository ---
type failingStatsRepo struct{}

func (failingStatsRepo) MergeStatistic(context.Context, time.Time, domain.StatisticSample) (*domain.ApiStatistic, error) {
	return nil, apperrors.NewAppError(500, "failed to merge statistic", fmt.Errorf("connection reset"))
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetTodayStats(ctx context.Context, day time.Time) (*domain.TodayStats, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TodayStats), args.Error(1)
}

func (m *MockReportingRepository) GetPopularEndpoints(ctx context.Context, day time.Time, limit int) ([]domain.EndpointUsage, error) {
	args := m.Called(ctx, day, limit)
	return args.Get(0).([]domain.EndpointUsage), args.Error(1)
}

func (m *MockReportingRepository) GetRecentErrors(ctx context.Context, limit int) ([]domain.ErrorLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ErrorLog), args.Error(1)
}

func (m *MockReportingRepository) GetRecentConversions(ctx context.Context, limit int) ([]domain.ConversionLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ConversionLog), args.Error(1)
}

func (m *MockReportingRepository) GetConversionPairStats(ctx context.Context, day time.Time, limit int) ([]domain.ConversionPairStat, error) {
	args := m.Called(ctx, day, limit)
	return args.Get(0).([]domain.ConversionPairStat), args.Error(1)
}

func (m *MockReportingRepository) GetRecentRateUpdates(ctx context.Context, limit int) ([]domain.RateUpdateLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.RateUpdateLog), args.Error(1)
}

func (m *MockReportingRepository) GetDeviceStats(ctx context.Context, now time.Time) (*domain.DeviceStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceStats), args.Error(1)
}

func (m *MockReportingRepository) GetTopEndpointsSince(ctx context.Context, since time.Time, limit int) ([]domain.EndpointUsage, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]domain.EndpointUsage), args.Error(1)
}

func (m *MockReportingRepository) GetActiveDevicesSince(ctx context.Context, since time.Time, limit int) ([]domain.ActiveDevice, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]domain.ActiveDevice), args.Error(1)
}

func (m *MockReportingRepository) GetPlatformUsageSince(ctx context.Context, since time.Time) ([]domain.PlatformUsage, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.PlatformUsage), args.Error(1)
}

func (m *MockReportingRepository) GetRecentRequests(ctx context.Context, limit int) ([]domain.ApiRequestLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ApiRequestLog), args.Error(1)
}

func (m *MockReportingRepository) GetHourlyCountsSince(ctx context.Context, since time.Time) ([]domain.HourlyCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.HourlyCount), args.Error(1)
}

func (m *MockReportingRepository) ListRequestLogs(ctx context.Context, filter domain.RequestLogFilter) (*domain.RequestLogPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequestLogPage), args.Error(1)
}
