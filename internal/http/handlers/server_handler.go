package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-api-starter/internal/domain"
	"github.com/tbourn/go-api-starter/internal/services"
)

// Handlers groups HTTP handlers and their service dependencies.
type Handlers struct {
	Server *services.ServerService
}

// New constructs a Handlers value with the provided service.
func New(server *services.ServerService) *Handlers {
	return &Handlers{Server: server}
}

// TestFailQuery selects the failure raised by TestFail. Zero means random.
type TestFailQuery struct {
	Status int `form:"status" json:"status" validate:"omitempty,oneof=400 401 404 500 503"`
}

// PingEnvelope documents the Ping success body.
type PingEnvelope struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Ping sent to the server successfully!"`
	Data    domain.Ping `json:"data"`
}

// HealthEnvelope documents the Health success body.
type HealthEnvelope struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Health check returned successfully!"`
	Data    domain.Health `json:"data"`
}

// StatusEnvelope documents the Status success body.
type StatusEnvelope struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Server status returned successfully!"`
	Data    domain.Status `json:"data"`
}

// Ping godoc
// @ID          pingServer
// @Summary     Ping the server
// @Description Returns "pong" with the current UTC time.
// @Tags        server
// @Produce     json
// @Success     200 {object} PingEnvelope
// @Failure     429 {object} envelope.ErrorEnvelope
// @Router      /server/ping [get]
func (h *Handlers) Ping(c *gin.Context) {
	ok(c, http.StatusOK, services.MsgPing, h.Server.Ping())
}

// Health godoc
// @ID          serverHealth
// @Summary     Process health
// @Description Reports uptime, memory usage, CPU count, platform and load average.
// @Tags        server
// @Produce     json
// @Success     200 {object} HealthEnvelope
// @Failure     429 {object} envelope.ErrorEnvelope
// @Failure     503 {object} envelope.ErrorEnvelope
// @Router      /server/health [get]
func (h *Handlers) Health(c *gin.Context) {
	health, err := h.Server.Health(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, services.MsgHealth, health)
}

// Status godoc
// @ID          serverStatus
// @Summary     Server status
// @Description Reports that the server is running and its uptime in seconds.
// @Tags        server
// @Produce     json
// @Success     200 {object} StatusEnvelope
// @Failure     429 {object} envelope.ErrorEnvelope
// @Router      /server/status [get]
func (h *Handlers) Status(c *gin.Context) {
	ok(c, http.StatusOK, services.MsgStatus, h.Server.Status())
}

// TestFail godoc
// @ID          serverTestFail
// @Summary     Raise a test failure
// @Description Always fails. Without a status one of 500, 401, 404, 503 or 400 is picked at random.
// @Tags        server
// @Produce     json
// @Param       status query int false "Failure status" Enums(400, 401, 404, 500, 503)
// @Failure     400 {object} envelope.ErrorEnvelope
// @Failure     401 {object} envelope.ErrorEnvelope
// @Failure     404 {object} envelope.ErrorEnvelope
// @Failure     422 {object} envelope.ErrorEnvelope
// @Failure     500 {object} envelope.ErrorEnvelope
// @Failure     503 {object} envelope.ErrorEnvelope
// @Router      /server/test-fail [get]
func (h *Handlers) TestFail(c *gin.Context) {
	var q TestFailQuery
	_ = c.ShouldBindQuery(&q) // checked by Validate

	fail(c, h.Server.TestFail(q.Status))
}
