package gateways

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// FetchErrorKind classifies why an upstream fetch failed.
type FetchErrorKind string

const (
	FetchErrorNetwork FetchErrorKind = "Network Error"
	FetchErrorHTTP    FetchErrorKind = "HTTP Error"
	FetchErrorJSON    FetchErrorKind = "JSON Error"
	FetchErrorAPI     FetchErrorKind = "API Error"
)

// FetchError is returned by RateProvider implementations. Its message is the
// human readable failure string surfaced in refresh results.
type FetchError struct {
	Kind   FetchErrorKind
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError builds a FetchError of the given kind.
func NewFetchError(kind FetchErrorKind, detail string, err error) *FetchError {
	return &FetchError{Kind: kind, Detail: detail, Err: err}
}

// AsFetchError reports whether err carries a FetchError and returns it.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// RateProvider fetches the latest rate table from an upstream service.
type RateProvider interface {
	// FetchLatest performs one request. Failures are returned as *FetchError.
	FetchLatest(ctx context.Context) (*domain.UpstreamRates, error)

	// Name identifies the provider in logs.
	Name() string
}
