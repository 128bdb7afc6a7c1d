package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/service/records"
)

// RecordsHandler serves expenses, milk productions and milk sales.
type RecordsHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewRecordsHandler constructs the records HTTP adapter.
func NewRecordsHandler(svc *records.Service, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

type expenseRequest struct {
	ExpenseDate string             `json:"expense_date" binding:"required"`
	ExpenseType models.ExpenseType `json:"expense_type" binding:"required"`
	ExpenseName string             `json:"expense_name"`
	Amount      *float64           `json:"amount" binding:"required"`
	Description string             `json:"description"`
}

type expenseBatchRequest struct {
	Expenses []expenseRequest `json:"expenses" binding:"required,min=1,dive"`
}

type productionRequest struct {
	ProductionDate string   `json:"production_date" binding:"required"`
	MilkKg         *float64 `json:"milk_kg" binding:"required"`
	Notes          string   `json:"notes"`
}

type saleRequest struct {
	SaleDate   string   `json:"sale_date" binding:"required"`
	MilkKg     *float64 `json:"milk_kg" binding:"required"`
	SaleAmount *float64 `json:"sale_amount" binding:"required"`
	Notes      string   `json:"notes"`
}

func (r saleRequest) toModel() (models.MilkSale, error) {
	date, err := models.ParseDate(r.SaleDate)
	if err != nil {
		return models.MilkSale{}, err
	}
	return models.MilkSale{Date: date, MilkKg: *r.MilkKg, SaleAmount: *r.SaleAmount, Notes: r.Notes}, nil
}

// CreateExpenses stores a batch of expenses.
func (h *RecordsHandler) CreateExpenses(c *gin.Context) {
	var req expenseBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	expenses := make([]models.Expense, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		date, err := models.ParseDate(e.ExpenseDate)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		expenses = append(expenses, models.Expense{
			Date:        date,
			Type:        e.ExpenseType,
			Name:        e.ExpenseName,
			Amount:      *e.Amount,
			Description: e.Description,
		})
	}

	saved, err := h.svc.CreateExpenses(c.Request.Context(), userID(c), expenses)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expenses": saved})
}

// ListExpenses returns the newest expenses.
func (h *RecordsHandler) ListExpenses(c *gin.Context) {
	rows, err := h.svc.RecentExpenses(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": nonNil(rows)})
}

// DeleteExpense removes one expense.
func (h *RecordsHandler) DeleteExpense(c *gin.Context) {
	if err := h.svc.DeleteExpense(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateProduction records one day of milk production.
func (h *RecordsHandler) CreateProduction(c *gin.Context) {
	var req productionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	date, err := models.ParseDate(req.ProductionDate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	saved, err := h.svc.CreateProduction(c.Request.Context(), userID(c), models.MilkProduction{Date: date, MilkKg: *req.MilkKg, Notes: req.Notes})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListProductions returns the newest production records.
func (h *RecordsHandler) ListProductions(c *gin.Context) {
	rows, err := h.svc.RecentProductions(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productions": nonNil(rows)})
}

// DeleteProduction removes one production record.
func (h *RecordsHandler) DeleteProduction(c *gin.Context) {
	if err := h.svc.DeleteProduction(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSale records a milk sale.
func (h *RecordsHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	sale, err := req.toModel()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	saved, err := h.svc.CreateSale(c.Request.Context(), userID(c), sale)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateSale edits a milk sale.
func (h *RecordsHandler) UpdateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	sale, err := req.toModel()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	saved, err := h.svc.UpdateSale(c.Request.Context(), userID(c), c.Param("id"), sale)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListSales returns the newest sales.
func (h *RecordsHandler) ListSales(c *gin.Context) {
	rows, err := h.svc.RecentSales(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": nonNil(rows)})
}

// DeleteSale removes one sale.
func (h *RecordsHandler) DeleteSale(c *gin.Context) {
	if err := h.svc.DeleteSale(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MonthlySaleTotals sums the current month's sales.
func (h *RecordsHandler) MonthlySaleTotals(c *gin.Context) {
	totals, err := h.svc.MonthlySaleTotals(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
