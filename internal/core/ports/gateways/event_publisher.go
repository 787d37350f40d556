package gateways

import (
	"context"

	"github.com/SscSPs/currency_api/internal/core/domain"
)

// RateEventPublisher announces successful refreshes to downstream consumers.
type RateEventPublisher interface {
	PublishRatesUpdated(ctx context.Context, event domain.RatesUpdatedEvent) error
	Close() error
}
