package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Records   *handlers.RecordsHandler
	Reports   *handlers.ReportHandler
	Ledger    *handlers.LedgerHandler
	Dashboard *handlers.DashboardHandler
	Messages  *handlers.MessageHandler

	// ReportLimiter throttles report downloads per user; nil disables it.
	ReportLimiter *handlers.RateLimiter
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, defaultUserID string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", handlers.UserScope(defaultUserID))

	api.GET("/dashboard", h.Dashboard.Summary)

	api.POST("/expenses", h.Records.CreateExpenses)
	api.GET("/expenses", h.Records.ListExpenses)
	api.DELETE("/expenses/:id", h.Records.DeleteExpense)

	api.POST("/milk-productions", h.Records.CreateProduction)
	api.GET("/milk-productions", h.Records.ListProductions)
	api.DELETE("/milk-productions/:id", h.Records.DeleteProduction)

	api.POST("/milk-sales", h.Records.CreateSale)
	api.GET("/milk-sales", h.Records.ListSales)
	api.GET("/milk-sales/monthly-totals", h.Records.MonthlySaleTotals)
	api.PUT("/milk-sales/:id", h.Records.UpdateSale)
	api.DELETE("/milk-sales/:id", h.Records.DeleteSale)

	reports := api.Group("/reports")
	if h.ReportLimiter != nil {
		reports.Use(h.ReportLimiter.Middleware())
	}
	reports.GET("/:kind/:period", h.Reports.Download)
	reports.GET("/:kind/:period/summary", h.Reports.Summary)

	api.GET("/customers", h.Ledger.ListCustomers)
	api.POST("/customers", h.Ledger.CreateCustomer)
	api.GET("/customers/:id", h.Ledger.GetCustomer)
	api.DELETE("/customers/:id", h.Ledger.DeleteCustomer)
	api.POST("/customers/:id/toggle-status", h.Ledger.ToggleStatus)
	api.PUT("/customers/:id/status", h.Ledger.SetStatus)
	api.GET("/customers/:id/entries", h.Ledger.ListEntries)
	api.POST("/customers/:id/entries", h.Ledger.AddEntries)
	api.GET("/customers/:id/entries.csv", h.Ledger.ExportCSV)
	api.DELETE("/entries/:id", h.Ledger.DeleteEntry)
	api.GET("/notifications", h.Ledger.Notifications)

	if h.Messages != nil {
		api.POST("/send-message", h.Messages.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_id", c.GetString("user_id")))
	}
}
