package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/service/reporting"
)

const pdfContentType = "application/pdf"

// ReportHandler serves period report downloads.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the report HTTP adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// Download renders the requested report as a PDF attachment. Unknown period
// tokens fall back to the monthly window.
func (h *ReportHandler) Download(c *gin.Context) {
	kind, err := models.ParseReportKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	period := models.Period(c.Param("period"))

	data, body, err := h.svc.RenderPDF(c.Request.Context(), userID(c), kind, period)
	if errors.Is(err, models.ErrNoReportData) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No %s data found for the selected period.", kind)})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("report generated",
		zap.String("user_id", data.UserID),
		zap.String("file", data.Filename),
		zap.Int("records", data.Count()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", data.Filename))
	c.Data(http.StatusOK, pdfContentType, body)
}

// Summary returns the report figures as JSON without rendering a document.
func (h *ReportHandler) Summary(c *gin.Context) {
	kind, err := models.ParseReportKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	data, err := h.svc.BuildReport(c.Request.Context(), userID(c), kind, models.Period(c.Param("period")))
	if errors.Is(err, models.ErrNoReportData) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No %s data found for the selected period.", kind)})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body := gin.H{
		"title":  data.Title,
		"period": data.Period,
		"window": data.Window,
	}
	switch {
	case data.Expenses != nil:
		body["summary"] = data.Expenses
	case data.Production != nil:
		body["summary"] = data.Production
	case data.Sales != nil:
		body["summary"] = data.Sales
	}
	c.JSON(http.StatusOK, body)
}
