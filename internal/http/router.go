// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, error rendering, panic
// recovery, metrics, CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Every failure leaves through the error chain as one JSON envelope
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-api-starter/docs"
	"github.com/tbourn/go-api-starter/internal/apierr"
	"github.com/tbourn/go-api-starter/internal/config"
	"github.com/tbourn/go-api-starter/internal/http/handlers"
	"github.com/tbourn/go-api-starter/internal/http/middleware"
	"github.com/tbourn/go-api-starter/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the diagnostics API under {APIBasePath}/server.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs with PII scrubbing
//  4. Metrics: sees the final status written by the error chain
//  5. Gzip (except /metrics)
//  6. Errors: renders the last context error as an envelope
//  7. Recovery: turns panics into context errors for (6)
//  8. Body size limiter
//  9. CORS
//  10. Swagger UI (when enabled, before the API CSP)
//  11. Security headers
//
// The rate limiter wraps only the API group.
func RegisterRoutes(r *gin.Engine, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.Logger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 5) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Error envelopes, 7) panics
	r.Use(middleware.Errors(middleware.ErrorOptions{
		Mode:     cfg.Mode,
		Registry: apierr.DefaultRegistry(),
	}))
	r.Use(middleware.Recovery())

	// 8) Global body size limit
	r.Use(limitBody(cfg.BodyLimitBytes))

	// 9) CORS posture; refused origins get a 403 envelope
	allowOrigin := originPolicy(cfg)
	r.Use(rejectOrigins(allowOrigin))
	r.Use(cors.New(corsConfig(cfg, allowOrigin)))

	// 10) API docs
	if cfg.SwaggerEnabled {
		r.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 11) Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:            cfg.Security.EnableHSTS,
		HSTSMaxAge:            cfg.Security.HSTSMaxAge,
		NoStore:               false,
		EnablePolicy:          true,
		ContentSecurityPolicy: cfg.Security.ContentSecurityPolicy,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, apierr.NotFound(apierr.WithDetails("No route matches "+c.Request.Method+" "+c.Request.URL.Path)))
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, apierr.MethodNotAllowed())
	})

	// Liveness
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h := handlers.New(services.NewServerService())
	rl := middleware.NewWindowRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByClientIP())

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	api.Use(rl.Handler())
	{
		server := api.Group("/server")
		server.GET("/ping", h.Ping)
		server.GET("/health", h.Health)
		server.GET("/status", h.Status)
		server.GET("/test-fail",
			middleware.Validate[middleware.None, handlers.TestFailQuery, middleware.None](),
			h.TestFail,
		)
	}
}

// originPolicy allows requests without an Origin, configured origins, and
// in non-production modes any localhost origin. With no allowlist every
// origin is accepted.
func originPolicy(cfg config.Config) func(string) bool {
	allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
	for _, o := range cfg.CORS.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	allowLocal := !cfg.Mode.IsProduction()

	return func(origin string) bool {
		if origin == "" || len(allowed) == 0 {
			return true
		}
		if _, ok := allowed[origin]; ok {
			return true
		}
		return allowLocal && isLocalOrigin(origin)
	}
}

// rejectOrigins fails cross-origin requests refused by allow with a 403
// through the error chain. Same-origin requests always pass, as in
// gin-contrib/cors.
func rejectOrigins(allow func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || origin == "http://"+c.Request.Host || origin == "https://"+c.Request.Host || allow(origin) {
			c.Next()
			return
		}
		handlers.Fail(c, apierr.Forbidden(apierr.WithDetails("Origin not allowed")))
	}
}

// corsConfig builds the gin-contrib/cors settings. Credentials are allowed
// only with an allowlist.
func corsConfig(cfg config.Config, allow func(string) bool) cors.Config {
	return cors.Config{
		AllowOriginFunc:  allow,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		AllowCredentials: len(cfg.CORS.AllowedOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
}

func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return true
	}
	return false
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
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
