// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the runtime mode, server timeouts, logging, rate limiting, web
// protection and observability.
//
// The runtime mode is resolved once here and passed explicitly to the parts
// that depend on it (error envelopes, logging, CORS) instead of being re-read
// from the environment at each call site.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tbourn/go-api-starter/internal/sysutil"
)

// RuntimeMode is the deployment context. It gates diagnostic verbosity such
// as stack traces in error responses.
type RuntimeMode string

const (
	ModeDevelopment RuntimeMode = "development"
	ModeProduction  RuntimeMode = "production"
	ModeStaging     RuntimeMode = "staging"
	ModeTest        RuntimeMode = "test"
)

// ParseRuntimeMode maps a string (case-insensitive, "dev"/"prod"/"stage"
// accepted) to a RuntimeMode.
func ParseRuntimeMode(s string) (RuntimeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return ModeDevelopment, nil
	case "production", "prod":
		return ModeProduction, nil
	case "staging", "stage":
		return ModeStaging, nil
	case "test", "testing":
		return ModeTest, nil
	}
	return "", fmt.Errorf("unknown runtime mode %q (want development, production, staging or test)", s)
}

// IsDevelopment reports whether diagnostics may be exposed to clients.
func (m RuntimeMode) IsDevelopment() bool { return m == ModeDevelopment }

// IsProduction reports whether the service runs in production.
func (m RuntimeMode) IsProduction() bool { return m == ModeProduction }

// GinMode returns the gin mode matching m.
func (m RuntimeMode) GinMode() string {
	switch m {
	case ModeDevelopment:
		return "debug"
	case ModeTest:
		return "test"
	default:
		return "release"
	}
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS and CSP.
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            time.Duration
	ContentSecurityPolicy string
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME, defaults to SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	Mode RuntimeMode // APP_ENV (or NODE_ENV)

	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // grace period on SIGINT/SIGTERM
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test
	BodyLimitBytes    int64         // request body cap

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // human-readable console logs
	SwaggerEnabled bool   // enable Swagger UI route
	ServiceName    string // attached to every log line
	ServiceURL     string // public base URL, used for the docs link
	APIBasePath    string // base path for API routes

	// Rate limiting
	RateLimitMax    int           // requests allowed per window (>= 1)
	RateLimitWindow time.Duration // window length (> 0)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

const defaultCSP = "default-src 'self'; connect-src 'self' http://localhost:* https://localhost:*"

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load resolves the runtime mode, merges .env.<mode> and .env into the
// process environment (existing variables win), then reads configuration
// from the environment, applies defaults, normalizes values, and validates
// the result.
//
// The mode comes from APP_ENV, then NODE_ENV, in the process environment
// first and in .env second. It defaults to production.
func Load() (Config, error) {
	base, err := readDotenv(".env")
	if err != nil {
		return Config{}, err
	}
	rawMode := sysutil.FirstNonEmpty(
		os.Getenv("APP_ENV"), os.Getenv("NODE_ENV"),
		base["APP_ENV"], base["NODE_ENV"],
		string(ModeProduction),
	)
	mode, err := ParseRuntimeMode(rawMode)
	if err != nil {
		return Config{}, err
	}
	if err := loadDotenv(".env."+string(mode), ".env"); err != nil {
		return Config{}, err
	}

	dev := mode.IsDevelopment()
	defaultLevel := "info"
	if dev {
		defaultLevel = "debug"
	}
	serviceName := getenv("SERVICE_NAME", "go-api-starter")

	cfg := Config{
		Mode: mode,

		// Server
		Port:              getenv("PORT", "5000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", mode.GinMode())),
		BodyLimitBytes:    int64(getint("BODY_LIMIT_BYTES", 100<<10)),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", defaultLevel)),
		LogPretty:      getbool("LOG_PRETTY", dev),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", dev),
		ServiceName:    serviceName,
		ServiceURL:     strings.TrimRight(strings.TrimSpace(getenv("SERVICE_URL", "")), "/"),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Rate limiting
		RateLimitMax:    getint("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getdur("RATE_LIMIT_WINDOW", 15*time.Minute),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS:            getbool("ENABLE_HSTS", false),
			HSTSMaxAge:            getdur("HSTS_MAX_AGE", 180*24*time.Hour),
			ContentSecurityPolicy: getenv("CONTENT_SECURITY_POLICY", defaultCSP),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", serviceName),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = mode.GinMode()
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 0 || p > 65535 {
		return cfg, errors.New("PORT must be a number between 0 and 65535")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.BodyLimitBytes <= 0 {
		return cfg, errors.New("BODY_LIMIT_BYTES must be > 0")
	}
	if cfg.RateLimitMax < 1 {
		return cfg, errors.New("RATE_LIMIT_MAX must be >= 1")
	}
	if cfg.RateLimitWindow <= 0 {
		return cfg, errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// DocsURL returns where the Swagger UI is reachable.
func (c Config) DocsURL() string {
	if c.ServiceURL != "" {
		return c.ServiceURL + "/api-docs"
	}
	return "http://localhost:" + c.Port + "/api-docs"
}

// loadDotenv loads each file that exists. Variables already present in the
// environment are left untouched.
func loadDotenv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// readDotenv parses file without touching the environment. A missing file
// yields an empty map.
func readDotenv(file string) (map[string]string, error) {
	vals, err := godotenv.Read(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return vals, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
