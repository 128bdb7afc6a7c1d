package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/render/pdf"
	"github.com/mamadbah2/dairy/internal/repository"
	"github.com/mamadbah2/dairy/internal/repository/memory"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
	"github.com/mamadbah2/dairy/internal/repository/sheets"
	"github.com/mamadbah2/dairy/internal/scheduler"
	"github.com/mamadbah2/dairy/internal/server/handlers"
	"github.com/mamadbah2/dairy/internal/server/router"
	dashboardsvc "github.com/mamadbah2/dairy/internal/service/dashboard"
	ledgersvc "github.com/mamadbah2/dairy/internal/service/ledger"
	recordssvc "github.com/mamadbah2/dairy/internal/service/records"
	reportingsvc "github.com/mamadbah2/dairy/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/dairy/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/dairy/pkg/clients/whatsapp"
	"github.com/mamadbah2/dairy/pkg/logger"
)

// store is satisfied by every persistence backend.
type store interface {
	repository.RecordRepository
	repository.LedgerRepository
	repository.DigestRepository
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var db store
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		baseLogger.Warn("using in-memory storage, data is lost on restart")
		db = memory.New()
	default:
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		db = mongoRepo
	}

	var mirror ledgersvc.Mirror
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror = sheets.NewLedgerMirror(sheetsRepo)
		baseLogger.Info("google sheets ledger mirror enabled")
	}

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, outbound messages disabled")
	}

	farmLoc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("failed to load farm timezone", zap.Error(err))
	}

	ledgerSvc := ledgersvc.NewService(db, mirror, farmLoc, baseLogger.Named("svc.ledger"))
	recordsSvc := recordssvc.NewService(db, farmLoc, baseLogger.Named("svc.records"))
	reportingSvc := reportingsvc.NewService(db, db, ledgerSvc, pdf.NewRenderer(baseLogger), farmLoc, baseLogger.Named("svc.reporting"))
	dashboardSvc := dashboardsvc.NewService(db, ledgerSvc, farmLoc, baseLogger.Named("svc.dashboard"))
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, baseLogger.Named("svc.whatsapp"))

	engine := router.New(router.Handlers{
		Records:   handlers.NewRecordsHandler(recordsSvc, baseLogger.Named("handlers.records")),
		Reports:   handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Ledger:    handlers.NewLedgerHandler(ledgerSvc, baseLogger.Named("handlers.ledger")),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, baseLogger.Named("handlers.dashboard")),
		Messages:  handlers.NewMessageHandler(messagingSvc, baseLogger.Named("handlers.messages")),

		ReportLimiter: handlers.NewRateLimiter(cfg.Server.ReportsPerMinute, cfg.Server.ReportBurst),
	}, cfg.Server.DefaultUserID, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, ledgerSvc, messagingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
