package mapping

import (
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/models"
)

// ToModelApiStatistic converts a domain ApiStatistic to its table row
func ToModelApiStatistic(d domain.ApiStatistic) models.ApiStatistic {
	return models.ApiStatistic(d)
}

// ToDomainApiStatistic converts an api_statistics row
func ToDomainApiStatistic(m models.ApiStatistic) domain.ApiStatistic {
	return domain.ApiStatistic(m)
}
