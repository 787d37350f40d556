package middleware

import (
	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	// adminSubjectKey holds the subject of a validated admin token.
	adminSubjectKey = contextKey("adminSubject")
	// requestContextKey holds the domain.RequestContext built for the current call.
	requestContextKey = contextKey("requestContext")
	// requestParamsKey holds the merged query and JSON body params.
	requestParamsKey = contextKey("requestParams")
	// conversionKey holds a successful conversion waiting to be audited.
	conversionKey = contextKey("conversion")
)

// GetAdminSubjectFromContext retrieves the admin token subject.
// It returns the subject and a boolean indicating if it was found.
func GetAdminSubjectFromContext(c *gin.Context) (string, bool) {
	subjectVal, exists := c.Get(string(adminSubjectKey))
	if !exists {
		// check in the request context as well
		if v, ok := c.Request.Context().Value(adminSubjectKey).(string); ok {
			return v, true
		}
		return "", false
	}

	subject, ok := subjectVal.(string)
	return subject, ok
}

// GetRequestContext returns the caller description built by RequestContextMiddleware.
// Outside that middleware it returns a context with only the remote address filled in.
func GetRequestContext(c *gin.Context) domain.RequestContext {
	if v, ok := c.Get(string(requestContextKey)); ok {
		if reqCtx, ok := v.(domain.RequestContext); ok {
			return reqCtx
		}
	}
	return domain.RequestContext{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// GetRequestParams returns the merged params captured by RequestContextMiddleware.
func GetRequestParams(c *gin.Context) domain.RequestParams {
	if v, ok := c.Get(string(requestParamsKey)); ok {
		if params, ok := v.(domain.RequestParams); ok {
			return params
		}
	}
	return nil
}

// SetConversion hands a successful conversion to AuditMiddleware, which writes it
// together with the request log instead of on the response path.
func SetConversion(c *gin.Context, conversion domain.Conversion) {
	c.Set(string(conversionKey), conversion)
}

func getConversion(c *gin.Context) *domain.Conversion {
	v, ok := c.Get(string(conversionKey))
	if !ok {
		return nil
	}
	conversion, ok := v.(domain.Conversion)
	if !ok {
		return nil
	}
	return &conversion
}
