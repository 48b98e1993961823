package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- RuntimeMode ---

func TestParseRuntimeMode(t *testing.T) {
	cases := map[string]RuntimeMode{
		"development": ModeDevelopment,
		" DEV ":       ModeDevelopment,
		"production":  ModeProduction,
		"prod":        ModeProduction,
		"Staging":     ModeStaging,
		"stage":       ModeStaging,
		"test":        ModeTest,
		"testing":     ModeTest,
	}
	for in, want := range cases {
		got, err := ParseRuntimeMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseRuntimeMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseRuntimeMode("qa"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestRuntimeMode_Predicates(t *testing.T) {
	if !ModeDevelopment.IsDevelopment() || ModeProduction.IsDevelopment() || ModeStaging.IsDevelopment() || ModeTest.IsDevelopment() {
		t.Fatalf("IsDevelopment must only hold for development")
	}
	if !ModeProduction.IsProduction() || ModeStaging.IsProduction() {
		t.Fatalf("IsProduction must only hold for production")
	}
	want := map[RuntimeMode]string{
		ModeDevelopment: "debug",
		ModeTest:        "test",
		ModeStaging:     "release",
		ModeProduction:  "release",
	}
	for m, g := range want {
		if m.GinMode() != g {
			t.Fatalf("%s.GinMode() = %q; want %q", m, m.GinMode(), g)
		}
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("BODY_LIMIT_BYTES", "2048")
	t.Setenv("GIN_MODE", "weird") // will normalize to the mode's gin mode

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("SERVICE_NAME", "starter")
	t.Setenv("SERVICE_URL", "https://api.example.com/")
	t.Setenv("API_BASE_PATH", "api/v2/") // no leading slash + trailing slash -> "/api/v2"

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_LIMIT_MAX", "x")      // -> default 100
	t.Setenv("RATE_LIMIT_WINDOW", "nope") // -> default 15m

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")
	t.Setenv("CONTENT_SECURITY_POLICY", "default-src 'none'")

	// OTEL (service name inherits SERVICE_NAME)
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mode != ModeStaging {
		t.Fatalf("mode = %q; want staging", cfg.Mode)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.ShutdownTimeout != 5*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.BodyLimitBytes != 2048 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v2" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.ServiceName != "starter" || cfg.ServiceURL != "https://api.example.com" {
		t.Fatalf("service fields unexpected: %+v", cfg)
	}
	if cfg.DocsURL() != "https://api.example.com/api-docs" {
		t.Fatalf("DocsURL = %q", cfg.DocsURL())
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour || cfg.Security.ContentSecurityPolicy != "default-src 'none'" {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "starter" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_ModeDrivenDefaults(t *testing.T) {
	t.Run("production by default", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Mode != ModeProduction || cfg.GinMode != "release" || cfg.LogLevel != "info" || cfg.LogPretty || cfg.SwaggerEnabled {
			t.Fatalf("production defaults unexpected: %+v", cfg)
		}
		if cfg.Port != "5000" || cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute {
			t.Fatalf("defaults unexpected: %+v", cfg)
		}
		if cfg.DocsURL() != "http://localhost:5000/api-docs" {
			t.Fatalf("DocsURL = %q", cfg.DocsURL())
		}
	})
	t.Run("development via NODE_ENV", func(t *testing.T) {
		t.Setenv("NODE_ENV", "development")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Mode != ModeDevelopment || cfg.GinMode != "debug" || cfg.LogLevel != "debug" || !cfg.LogPretty || !cfg.SwaggerEnabled {
			t.Fatalf("development defaults unexpected: %+v", cfg)
		}
	})
	t.Run("APP_ENV wins over NODE_ENV", func(t *testing.T) {
		t.Setenv("NODE_ENV", "development")
		t.Setenv("APP_ENV", "test")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.Mode != ModeTest || cfg.GinMode != "test" {
			t.Fatalf("expected test mode, got %+v", cfg)
		}
	})
}

func TestLoad_ReadsModeDotenvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	content := "SERVICE_NAME=from-dotenv\nPORT=7000\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.test"), []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("SERVICE_NAME")
	})

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "6000") // already set -> dotenv must not override

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServiceName != "from-dotenv" {
		t.Fatalf("expected SERVICE_NAME from .env.test, got %q", cfg.ServiceName)
	}
	if cfg.Port != "6000" {
		t.Fatalf("dotenv must not override existing env, got PORT=%q", cfg.Port)
	}
}

func TestLoad_ModeFromBaseDotenv(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		".env":         "APP_ENV=staging\nSERVICE_NAME=from-base\n",
		".env.staging": "SERVICE_NAME=from-staging\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("APP_ENV")
		_ = os.Unsetenv("SERVICE_NAME")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Mode != ModeStaging {
		t.Fatalf("mode = %q; want staging from .env", cfg.Mode)
	}
	if cfg.ServiceName != "from-staging" {
		t.Fatalf(".env.<mode> must win over .env, got SERVICE_NAME=%q", cfg.ServiceName)
	}
}

func TestLoad_ProcessModeBeatsBaseDotenv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=staging\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("APP_ENV")
	})

	t.Setenv("NODE_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Mode != ModeTest {
		t.Fatalf("mode = %q; process NODE_ENV must beat .env", cfg.Mode)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	t.Run("unknown runtime mode", func(t *testing.T) {
		t.Setenv("APP_ENV", "qa")
		if _, err := Load(); err == nil || !containsErr(err, "unknown runtime mode") {
			t.Fatalf("expected runtime mode error, got: %v", err)
		}
	})
	t.Run("invalid LOG_LEVEL", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		if _, err := Load(); err == nil {
			t.Fatalf("expected LOG_LEVEL validation error")
		}
	})
	t.Run("empty PORT via spaces", func(t *testing.T) {
		t.Setenv("PORT", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "PORT must not be empty") {
			t.Fatalf("expected port validation error, got: %v", err)
		}
	})
	t.Run("non-numeric PORT", func(t *testing.T) {
		t.Setenv("PORT", "http")
		if _, err := Load(); err == nil || !containsErr(err, "PORT must be a number") {
			t.Fatalf("expected port number error, got: %v", err)
		}
	})
	t.Run("non-positive timeouts", func(t *testing.T) {
		t.Setenv("READ_TIMEOUT", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "timeouts must be positive") {
			t.Fatalf("expected timeouts validation error, got: %v", err)
		}
	})
	t.Run("non-positive shutdown timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
		if _, err := Load(); err == nil || !containsErr(err, "SHUTDOWN_TIMEOUT") {
			t.Fatalf("expected SHUTDOWN_TIMEOUT validation error, got: %v", err)
		}
	})
	t.Run("max header bytes <= 0", func(t *testing.T) {
		t.Setenv("MAX_HEADER_BYTES", "0")
		if _, err := Load(); err == nil || !containsErr(err, "MAX_HEADER_BYTES") {
			t.Fatalf("expected MAX_HEADER_BYTES validation error, got: %v", err)
		}
	})
	t.Run("body limit <= 0", func(t *testing.T) {
		t.Setenv("BODY_LIMIT_BYTES", "0")
		if _, err := Load(); err == nil || !containsErr(err, "BODY_LIMIT_BYTES") {
			t.Fatalf("expected BODY_LIMIT_BYTES validation error, got: %v", err)
		}
	})
	t.Run("rate limit max < 1", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_MAX", "0")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_LIMIT_MAX") {
			t.Fatalf("expected RATE_LIMIT_MAX validation error, got: %v", err)
		}
	})
	t.Run("rate limit window <= 0", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_WINDOW", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_LIMIT_WINDOW") {
			t.Fatalf("expected RATE_LIMIT_WINDOW validation error, got: %v", err)
		}
	})
	t.Run("hsts max age negative", func(t *testing.T) {
		t.Setenv("HSTS_MAX_AGE", "-1s")
		if _, err := Load(); err == nil || !containsErr(err, "HSTS_MAX_AGE") {
			t.Fatalf("expected HSTS_MAX_AGE validation error, got: %v", err)
		}
	})
	t.Run("otel sample ratio out of range", func(t *testing.T) {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
		if _, err := Load(); err == nil || !containsErr(err, "OTEL_TRACES_SAMPLER_ARG") {
			t.Fatalf("expected OTEL_TRACES_SAMPLER_ARG validation error, got: %v", err)
		}
	})
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + keySuffix(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + keySuffix(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	// default on unset/empty
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}

	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("v1") != "/v1" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/v1/") != "/v1" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}
	if normalizeBasePath(" / ") != "/" {
		t.Fatalf("normalizeBasePath whitespace failed")
	}
}

func TestLoadDotenv_MissingFilesIgnored(t *testing.T) {
	missing := filepath.Join(t.TempDir(), ".env.nope")
	if err := loadDotenv(missing); err != nil {
		t.Fatalf("missing dotenv must be ignored, got %v", err)
	}
}

func keySuffix(i int) string { return string('a' + rune(i)) }

// Ensure ambient env does not leak into defaults.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "APP_ENV", "NODE_ENV", "LOG_LEVEL", "GIN_MODE", "SERVICE_NAME", "SERVICE_URL", "SWAGGER_ENABLED", "LOG_PRETTY"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("API_BASE_PATH default expected '/api/v1', got %q", cfg.APIBasePath)
	}
}
