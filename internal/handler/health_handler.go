package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medocr/internal/domain"
)

// HealthHandler handles health check and fallback endpoints.
type HealthHandler struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, now: time.Now}
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC(),
	})
}

// NotFound answers unknown routes with the standard error envelope.
func (h *HealthHandler) NotFound(c *gin.Context) {
	HandleError(c, h.logger, domain.Errorf(domain.KindRouteNotFound,
		"Route %s not found", c.Request.URL.RequestURI()))
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status" example:"OK"`
	Timestamp time.Time `json:"timestamp"`
}
