package utils

import (
	"github.com/shopspring/decimal"
)

// Precision used when amounts and rates leave the API.
const (
	AmountPrecision = 2
	RatePrecision   = 8
)

// RoundToFloat rounds half away from zero to places and converts to float64 for JSON output.
func RoundToFloat(d decimal.Decimal, places int32) float64 {
	f, _ := d.Round(places).Float64()
	return f
}

