package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yoga-admission/internal/service"
	"github.com/noah-isme/yoga-admission/pkg/response"
)

// StatusHandler serves the stub's liveness and scrape endpoints.
type StatusHandler struct {
	metrics   *service.MetricsService
	startedAt time.Time
	now       func() time.Time
}

// NewStatusHandler constructs StatusHandler.
func NewStatusHandler(metrics *service.MetricsService) *StatusHandler {
	return &StatusHandler{metrics: metrics, startedAt: time.Now(), now: time.Now}
}

// StatusReport is the body of GET /health.
type StatusReport struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	RequestsServed uint64 `json:"requests_served"`
}

// Health godoc
// @Summary Stub liveness
// @Tags Status
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	requests, _ := h.metrics.Snapshot()
	response.JSON(c, http.StatusOK, StatusReport{
		Status:         "ok",
		Uptime:         h.now().Sub(h.startedAt).Truncate(time.Second).String(),
		RequestsServed: requests,
	})
}

// Metrics exposes the Prometheus registry, or 503 when metrics are disabled.
func (h *StatusHandler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
