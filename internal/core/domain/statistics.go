package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// avgPrecision matches the NUMERIC(10,2) column the average is stored in.
const avgPrecision = 2

// StatisticSample is one observation fed into the daily aggregate.
type StatisticSample struct {
	Endpoint          string
	Method            string
	Success           bool
	ResponseTimeMs    int64
	ResponseSizeBytes int64
	DeviceID          string
}

// ApiStatistic is the daily aggregate for one (date, endpoint, method) key.
type ApiStatistic struct {
	ID                     int64           `json:"id"`
	Date                   time.Time       `json:"date"`
	Endpoint               string          `json:"endpoint"`
	Method                 string          `json:"method"`
	TotalRequests          int64           `json:"totalRequests"`
	SuccessfulRequests     int64           `json:"successfulRequests"`
	FailedRequests         int64           `json:"failedRequests"`
	AvgResponseTimeMs      decimal.Decimal `json:"avgResponseTimeMs"`
	TotalResponseSizeBytes int64           `json:"totalResponseSizeBytes"`
	UniqueDevices          int64           `json:"uniqueDevices"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// NewApiStatistic seeds a fresh aggregate row from its first sample.
func NewApiStatistic(date time.Time, s StatisticSample) ApiStatistic {
	stat := ApiStatistic{
		Date:                   date,
		Endpoint:               s.Endpoint,
		Method:                 s.Method,
		TotalRequests:          1,
		AvgResponseTimeMs:      decimal.NewFromInt(s.ResponseTimeMs),
		TotalResponseSizeBytes: s.ResponseSizeBytes,
	}
	if s.Success {
		stat.SuccessfulRequests = 1
	} else {
		stat.FailedRequests = 1
	}
	if s.DeviceID != "" {
		stat.UniqueDevices = 1
	}
	return stat
}

// Merge folds one more sample into the aggregate.
// The running mean uses the pre-increment total:
// newAvg = (oldAvg*oldTotal + sample) / (oldTotal+1).
// UniqueDevices is only seeded on creation and is left untouched here.
func (a ApiStatistic) Merge(s StatisticSample) ApiStatistic {
	oldTotal := decimal.NewFromInt(a.TotalRequests)
	sum := a.AvgResponseTimeMs.Mul(oldTotal).Add(decimal.NewFromInt(s.ResponseTimeMs))

	a.AvgResponseTimeMs = sum.DivRound(oldTotal.Add(decimal.NewFromInt(1)), avgPrecision)
	a.TotalRequests++
	if s.Success {
		a.SuccessfulRequests++
	} else {
		a.FailedRequests++
	}
	a.TotalResponseSizeBytes += s.ResponseSizeBytes
	return a
}
