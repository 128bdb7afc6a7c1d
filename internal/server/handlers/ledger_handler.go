package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/service/ledger"
)

// LedgerHandler serves customers, their entries and unpaid bill notifications.
type LedgerHandler struct {
	svc    *ledger.Service
	logger *zap.Logger
}

// NewLedgerHandler constructs the ledger HTTP adapter.
func NewLedgerHandler(svc *ledger.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, logger: logger}
}

type customerRequest struct {
	Name  string `json:"name" binding:"required"`
	Notes string `json:"notes"`
}

type statusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
}

// entryRequest accepts either a single entry or a batch under "entries".
type entryRequest struct {
	models.EntryInput
	Entries []models.EntryInput `json:"entries"`
}

// ListCustomers returns the user's customers with their totals.
func (h *LedgerHandler) ListCustomers(c *gin.Context) {
	list, err := h.svc.ListCustomers(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": nonNil(list)})
}

// CreateCustomer registers a customer.
func (h *LedgerHandler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	customer, err := h.svc.CreateCustomer(c.Request.Context(), userID(c), req.Name, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomer returns one customer with its totals.
func (h *LedgerHandler) GetCustomer(c *gin.Context) {
	view, err := h.svc.GetCustomer(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteCustomer removes a customer and its entries.
func (h *LedgerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.svc.DeleteCustomer(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleStatus flips the customer's payment status.
func (h *LedgerHandler) ToggleStatus(c *gin.Context) {
	customer, err := h.svc.TogglePaymentStatus(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// SetStatus stores an explicit payment status.
func (h *LedgerHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	customer, err := h.svc.SetPaymentStatus(c.Request.Context(), userID(c), c.Param("id"), req.PaymentStatus)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ListEntries returns the customer's entries, newest first.
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	entries, err := h.svc.ListEntries(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": nonNil(ledger.SortForDisplay(entries))})
}

// AddEntries appends one entry, or a batch when "entries" is present.
func (h *LedgerHandler) AddEntries(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	if len(req.Entries) > 0 {
		saved, err := h.svc.AddEntries(ctx, userID(c), c.Param("id"), req.Entries)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"entries": saved})
		return
	}

	saved, err := h.svc.AddEntry(ctx, userID(c), c.Param("id"), req.EntryInput)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// DeleteEntry removes one entry.
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCSV downloads the customer's entries as CSV.
func (h *LedgerHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.svc.ExportCSV(c.Request.Context(), userID(c), c.Param("id"), &buf)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Notifications lists the unpaid bills that need a reminder today.
func (h *LedgerHandler) Notifications(c *gin.Context) {
	list, err := h.svc.Notifications(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": nonNil(list), "count": len(list)})
}
