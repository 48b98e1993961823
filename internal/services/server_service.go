// Package services – ServerService
//
// ServerService backs the diagnostics endpoints: ping, health, status and a
// deliberate failure used to exercise the error-handling chain. It holds no
// shared mutable state; clocks, randomness and resource sampling are
// injectable so tests are deterministic.
package services

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/tbourn/go-api-starter/internal/apierr"
	"github.com/tbourn/go-api-starter/internal/domain"
	"github.com/tbourn/go-api-starter/internal/sysutil"
)

// Success messages for the diagnostics endpoints.
const (
	MsgPing   = "Ping sent to the server successfully!"
	MsgHealth = "Health check returned successfully!"
	MsgStatus = "Server status returned successfully!"
)

// failureFactories are the errors TestFail picks from when no status is
// requested.
var failureFactories = []func(...apierr.Option) *apierr.Error{
	apierr.Internal,
	apierr.Unauthorized,
	apierr.NotFound,
	apierr.ServiceUnavailable,
	apierr.BadRequest,
}

// ServerService reports liveness and resource usage of the running process.
type ServerService struct {
	started time.Time

	now   func() time.Time
	pick  func(n int) int
	stats func() sysutil.Stats
}

// NewServerService returns a service whose uptime counts from now.
func NewServerService() *ServerService {
	return &ServerService{
		started: time.Now(),
		now:     time.Now,
		pick:    rand.IntN,
		stats:   sysutil.ReadStats,
	}
}

// Uptime returns the seconds elapsed since the service was created.
func (s *ServerService) Uptime() float64 {
	return s.now().Sub(s.started).Seconds()
}

// Ping returns "pong" with the current UTC time.
func (s *ServerService) Ping() domain.Ping {
	return domain.Ping{Message: "pong", Timestamp: s.now().UTC()}
}

// Health samples process memory, CPU count and load average.
func (s *ServerService) Health(ctx context.Context) (domain.Health, error) {
	if err := ctx.Err(); err != nil {
		return domain.Health{}, apierr.ServiceUnavailable(
			apierr.WithMessage("Health check aborted"),
			apierr.WithCause(err),
		)
	}
	st := s.stats()
	return domain.Health{
		Status:      domain.StatusOK,
		Uptime:      s.Uptime(),
		Memory:      st.Memory,
		CPUCount:    st.CPUCount,
		Platform:    st.Platform,
		LoadAverage: st.LoadAverage,
		Timestamp:   s.now().UTC(),
	}, nil
}

// Status reports that the server is running and for how long.
func (s *ServerService) Status() domain.Status {
	return domain.Status{
		Status:    domain.StatusRunning,
		Uptime:    s.Uptime(),
		Timestamp: s.now().UTC(),
	}
}

// TestFail always returns an *apierr.Error. With status 0 one of the
// predefined failures is chosen at random; otherwise the failure matching
// status is returned.
func (s *ServerService) TestFail(status int) error {
	switch status {
	case 0:
		return failureFactories[s.pick(len(failureFactories))]()
	case http.StatusBadRequest:
		return apierr.BadRequest()
	case http.StatusUnauthorized:
		return apierr.Unauthorized()
	case http.StatusNotFound:
		return apierr.NotFound()
	case http.StatusServiceUnavailable:
		return apierr.ServiceUnavailable()
	default:
		return apierr.Internal()
	}
}
