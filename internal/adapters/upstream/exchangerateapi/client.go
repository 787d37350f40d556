package exchangerateapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/SscSPs/currency_api/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	// DefaultTimeout bounds a whole upstream call.
	DefaultTimeout = 30 * time.Second

	defaultBaseCode = "USD"
	maxBodyBytes    = 4 << 20
	providerName    = "exchangerate-api"
)

// Client fetches the "latest" rate table from exchangerate-api.com (v6).
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the given "latest" endpoint URL.
// Certificates are always verified.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		url:     endpoint,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return c
}

var _ gateways.RateProvider = (*Client)(nil)

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return providerName }

// FetchLatest performs a single GET. Every failure is a *gateways.FetchError.
func (c *Client) FetchLatest(ctx context.Context) (*domain.UpstreamRates, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, gateways.NewFetchError(gateways.FetchErrorNetwork, err.Error(), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, gateways.NewFetchError(gateways.FetchErrorNetwork, networkDetail(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, gateways.NewFetchError(gateways.FetchErrorHTTP, fmt.Sprintf("%d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, gateways.NewFetchError(gateways.FetchErrorNetwork, networkDetail(err), err)
	}

	return parseLatest(body)
}

// parseLatest validates and extracts the v6 "latest" payload.
func parseLatest(body []byte) (*domain.UpstreamRates, error) {
	if !gjson.ValidBytes(body) {
		return nil, gateways.NewFetchError(gateways.FetchErrorJSON, "invalid JSON payload", nil)
	}
	payload := gjson.ParseBytes(body)
	if !payload.IsObject() {
		return nil, gateways.NewFetchError(gateways.FetchErrorJSON, "payload is not an object", nil)
	}

	if payload.Get("result").String() != "success" {
		errorType := payload.Get("error-type").String()
		if errorType == "" {
			errorType = "Unknown error"
		}
		return nil, gateways.NewFetchError(gateways.FetchErrorAPI, errorType, nil)
	}

	conversionRates := payload.Get("conversion_rates")
	if !conversionRates.IsObject() {
		return nil, gateways.NewFetchError(gateways.FetchErrorJSON, "conversion_rates missing", nil)
	}

	rates := make(map[string]decimal.Decimal)
	var parseErr error
	conversionRates.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			parseErr = fmt.Errorf("rate for %s is not a number", key.String())
			return false
		}
		rate, err := decimal.NewFromString(value.Raw)
		if err != nil {
			parseErr = fmt.Errorf("rate for %s: %w", key.String(), err)
			return false
		}
		rates[strings.ToUpper(key.String())] = rate
		return true
	})
	if parseErr != nil {
		return nil, gateways.NewFetchError(gateways.FetchErrorJSON, parseErr.Error(), parseErr)
	}

	baseCode := strings.ToUpper(payload.Get("base_code").String())
	if baseCode == "" {
		baseCode = defaultBaseCode
	}

	return &domain.UpstreamRates{
		BaseCurrency:      baseCode,
		Rates:             rates,
		TimeLastUpdateUTC: payload.Get("time_last_update_utc").String(),
	}, nil
}

// networkDetail drops the request URL from transport errors; the URL carries the API key.
func networkDetail(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
