package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/service/dashboard"
)

// DashboardHandler serves the landing page summary.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the dashboard HTTP adapter.
func NewDashboardHandler(svc *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Summary returns today's figures.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
