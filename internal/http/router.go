// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, idempotency, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/nameforge/go-domains-backend/docs"
	"github.com/nameforge/go-domains-backend/internal/config"
	"github.com/nameforge/go-domains-backend/internal/http/handlers"
	"github.com/nameforge/go-domains-backend/internal/http/middleware"
	"github.com/nameforge/go-domains-backend/internal/payment"
	"github.com/nameforge/go-domains-backend/internal/repo"
	"github.com/nameforge/go-domains-backend/internal/reseller"
	"github.com/nameforge/go-domains-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine, constructing the reseller client, payment gateway, and acquisition
// service from configuration.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured logs with payment-field scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics and gzip
//  7. Idempotency (before the rate limiter so replays bypass it)
//  8. Rate limiter per client IP
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with scrubbing
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB); owner-details payloads are small
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics, /metrics endpoint, response compression
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Idempotency detection (before rate limiting)
	r.Use(middleware.Idempotency(
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per client IP
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateRPS,
		Burst:             cfg.RateBurst,
	}))

	// 9) CORS posture (allow all when no origins are configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID", "Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID", "Idempotency-Replayed", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers (HSTS only when enabled)
	sec := middleware.SecurityConfig{ContentSecurityPolicy: "default-src 'none'"}
	if cfg.Security.EnableHSTS {
		sec.HSTSMaxAgeSeconds = int(cfg.Security.HSTSMaxAge.Seconds())
		sec.HSTSIncludeSubdomains = true
	}
	r.Use(middleware.SecurityHeaders(sec))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: provisioning client, payment gateway, service
	rc := reseller.New(reseller.Config{
		BaseURL:    cfg.Reseller.BaseURL,
		APIKey:     cfg.Reseller.APIKey,
		ResellerID: cfg.Reseller.ResellerID,
		Timeout:    cfg.Reseller.Timeout,
		TLDs:       cfg.Reseller.TLDs,
		Currency:   cfg.Currency,
	}, &http.Client{Timeout: cfg.Reseller.Timeout}, log.Logger)

	gw := payment.NewStripeGateway(cfg.Stripe.SecretKey, log.Logger)

	svc := services.NewAcquisitionService(gw, rc, db, cfg.Currency, log.Logger)
	svc.IdempotencyTTL = cfg.IdempotencyTTL

	h := handlers.New(svc, rc, db, cfg.Stripe.PublicKey)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/domain-availability", h.DomainAvailability)
		api.POST("/create-payment-intent", h.CreateCheckout)
		api.POST("/registrant", h.CreateRegistrant)
		api.GET("/orders", h.ListOrders)
		api.GET("/payment-config", h.PaymentConfig)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap error on body read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
