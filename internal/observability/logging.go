package observability

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-api-starter/internal/config"
	"github.com/tbourn/go-api-starter/internal/sysutil"
)

// SetupLogger configures the global zerolog logger: level from LOG_LEVEL,
// human-readable console output when LOG_PRETTY is set, JSON otherwise.
// Every line carries the service name and runtime mode. The configured
// logger is also returned.
func SetupLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := out
	if cfg.LogPretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", string(cfg.Mode)).
		Logger()
	log.Logger = logger
	return logger
}
