package handlers

import (
	"net/http"
	"strings"

	"github.com/SscSPs/currency_api/cmd/docs"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/dto"
	"github.com/SscSPs/currency_api/internal/middleware"
	"github.com/SscSPs/currency_api/internal/platform/config"
	"github.com/SscSPs/currency_api/internal/platform/metrics"
	"github.com/SscSPs/currency_api/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteOptions carries the optional cross-cutting pieces of the router.
// Nil fields disable the corresponding feature.
type RouteOptions struct {
	Metrics      *metrics.Metrics
	Posthog      *utils.PosthogClientWrapper
	APILimiter   *limiter.Limiter
	LoginLimiter *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouteOptions,
) {
	registerValidators()

	r.Use(middleware.MetricsMiddleware(opts.Metrics))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Endpoint not found"))
	})

	setupPublicAPIRoutes(r, cfg, services, opts)
	setupAdminRoutes(r, cfg, services, opts)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupPublicAPIRoutes configures the audited /api group.
func setupPublicAPIRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, opts RouteOptions) {
	api := r.Group("/api",
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.DeviceIDHeader},
			ExposeHeaders:   []string{"X-Request-ID"},
		}),
		middleware.RequestContextMiddleware(),
		middleware.AuditMiddleware(services.AuditLogger, middleware.AuditOptions{
			Async:   cfg.Audit.Async,
			Timeout: cfg.Audit.Timeout,
		}),
	)
	if opts.APILimiter != nil {
		api.Use(middleware.RateLimit(opts.APILimiter))
	}
	api.Use(middleware.PosthogMiddleware(opts.Posthog))

	api.GET("", getIndex)
	api.GET("/", getIndex)

	defaultBase := strings.ToUpper(cfg.Refresh.BaseCurrency)
	registerRateRoutes(api, services.ExchangeRate, defaultBase)
	registerConvertRoutes(api, services.Conversion, opts.Posthog, defaultBase)
	registerDeviceRoutes(api, services.Device)
	registerUpdateRoutes(api, services.RateRefresh)
}

// setupAdminRoutes configures /admin: a rate limited login plus the JWT protected reports.
func setupAdminRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, opts RouteOptions) {
	admin := r.Group("/admin")
	registerAdminAuthRoutes(admin, services.AdminAuth, opts.LoginLimiter)

	protected := admin.Group("", middleware.AdminAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	registerReportingRoutes(protected, services.Reporting, cfg.Location)
	registerAdminDeviceRoutes(protected, services.Device)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
