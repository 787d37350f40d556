package mapping

import (
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/models"
)

// ToModelApiRequest converts a domain ApiRequestLog to its table row
func ToModelApiRequest(d domain.ApiRequestLog) models.ApiRequest {
	return models.ApiRequest{
		ID:                d.ID,
		DeviceRef:         d.DeviceRef,
		Endpoint:          d.Endpoint,
		Method:            d.Method,
		IPAddress:         d.IPAddress,
		UserAgent:         d.UserAgent,
		ResponseStatus:    d.ResponseStatus,
		ResponseTimeMs:    d.ResponseTimeMs,
		RequestParams:     d.RequestParams,
		ResponseSizeBytes: d.ResponseSizeBytes,
		Referer:           d.Referer,
		APIVersion:        d.APIVersion,
		ErrorMessage:      d.ErrorMessage,
		CreatedAt:         d.CreatedAt,
	}
}

// ToDomainApiRequestLog converts an api_requests row. The device identifier is joined in separately.
func ToDomainApiRequestLog(m models.ApiRequest, deviceIdentifier *string) domain.ApiRequestLog {
	return domain.ApiRequestLog{
		ID:                m.ID,
		DeviceRef:         m.DeviceRef,
		DeviceIdentifier:  deviceIdentifier,
		Endpoint:          m.Endpoint,
		Method:            m.Method,
		IPAddress:         m.IPAddress,
		UserAgent:         m.UserAgent,
		ResponseStatus:    m.ResponseStatus,
		ResponseTimeMs:    m.ResponseTimeMs,
		RequestParams:     m.RequestParams,
		ResponseSizeBytes: m.ResponseSizeBytes,
		Referer:           m.Referer,
		APIVersion:        m.APIVersion,
		ErrorMessage:      m.ErrorMessage,
		CreatedAt:         m.CreatedAt,
	}
}

// ToModelConversionLog converts a domain ConversionLog to its table row
func ToModelConversionLog(d domain.ConversionLog) models.ConversionLog {
	return models.ConversionLog{
		ID:              d.ID,
		DeviceRef:       d.DeviceRef,
		Amount:          d.Amount,
		FromCurrency:    d.FromCurrency,
		ToCurrency:      d.ToCurrency,
		ConvertedAmount: d.ConvertedAmount,
		Rate:            d.Rate,
		IPAddress:       d.IPAddress,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainConversionLog converts a conversion_logs row
func ToDomainConversionLog(m models.ConversionLog, deviceIdentifier *string) domain.ConversionLog {
	return domain.ConversionLog{
		ID:               m.ID,
		DeviceRef:        m.DeviceRef,
		DeviceIdentifier: deviceIdentifier,
		Amount:           m.Amount,
		FromCurrency:     m.FromCurrency,
		ToCurrency:       m.ToCurrency,
		ConvertedAmount:  m.ConvertedAmount,
		Rate:             m.Rate,
		IPAddress:        m.IPAddress,
		CreatedAt:        m.CreatedAt,
	}
}

// ToModelRateUpdateLog converts a domain RateUpdateLog to its table row
func ToModelRateUpdateLog(d domain.RateUpdateLog) models.RateUpdateLog {
	return models.RateUpdateLog(d)
}

// ToDomainRateUpdateLog converts a rate_update_logs row
func ToDomainRateUpdateLog(m models.RateUpdateLog) domain.RateUpdateLog {
	return domain.RateUpdateLog(m)
}

// ToModelErrorLog converts a domain ErrorLog to its table row
func ToModelErrorLog(d domain.ErrorLog) models.ErrorLog {
	return models.ErrorLog(d)
}

// ToDomainErrorLog converts an error_logs row
func ToDomainErrorLog(m models.ErrorLog) domain.ErrorLog {
	return domain.ErrorLog(m)
}
