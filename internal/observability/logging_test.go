package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-api-starter/internal/config"
)

func preserveLogger(t *testing.T) {
	t.Helper()
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetupLogger_JSONWithServiceFields(t *testing.T) {
	preserveLogger(t)

	var buf bytes.Buffer
	SetupLogger(config.Config{
		Mode:        config.ModeProduction,
		LogLevel:    "info",
		ServiceName: "svc",
	}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("hello")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the info line, got %q", buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if m["service"] != "svc" || m["env"] != "production" || m["message"] != "hello" {
		t.Fatalf("unexpected fields: %v", m)
	}
	if _, ok := m["time"]; !ok {
		t.Fatalf("missing timestamp: %v", m)
	}
}

func TestSetupLogger_PrettyConsole(t *testing.T) {
	preserveLogger(t)

	var buf bytes.Buffer
	logger := SetupLogger(config.Config{
		Mode:        config.ModeDevelopment,
		LogLevel:    "debug",
		LogPretty:   true,
		ServiceName: "svc",
	}, &buf)

	logger.Debug().Msg("pretty")
	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("pretty output must not be JSON: %q", out)
	}
	if !strings.Contains(out, "pretty") || !strings.Contains(out, "service=") {
		t.Fatalf("unexpected console output: %q", out)
	}
}
