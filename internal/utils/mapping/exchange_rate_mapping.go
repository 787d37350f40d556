package mapping

import (
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		BaseCurrency:   d.BaseCurrency,
		TargetCurrency: d.TargetCurrency,
		Rate:           d.Rate,
		LastUpdated:    d.LastUpdated,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		BaseCurrency:   m.BaseCurrency,
		TargetCurrency: m.TargetCurrency,
		Rate:           m.Rate,
		LastUpdated:    m.LastUpdated,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainExchangeRates converts a slice of model rates
func ToDomainExchangeRates(ms []models.ExchangeRate) []domain.ExchangeRate {
	rates := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		rates[i] = ToDomainExchangeRate(m)
	}
	return rates
}
