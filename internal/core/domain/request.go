package domain

import "time"

// RequestParams holds the merged body and query parameters of an inbound call.
// Values stay loosely typed until the audit logger serializes them.
type RequestParams map[string]any

// String returns the value for key when it is a non-empty string.
func (p RequestParams) String(key string) string {
	if p == nil {
		return ""
	}
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// RequestContext describes the caller of the current request.
// It is built once by the HTTP layer and passed explicitly to the audit logger.
type RequestContext struct {
	DeviceID  string
	IPAddress string
	UserAgent string
	Referer   string
	StartedAt time.Time
}
