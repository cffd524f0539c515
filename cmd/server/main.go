package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	addressbookapp "github.com/gestionale/backend/internal/application/addressbook"
	billingapp "github.com/gestionale/backend/internal/application/billing"
	calendarapp "github.com/gestionale/backend/internal/application/calendar"
	inventoryapp "github.com/gestionale/backend/internal/application/inventory"
	ledgerapp "github.com/gestionale/backend/internal/application/ledger"
	projectapp "github.com/gestionale/backend/internal/application/project"
	reportapp "github.com/gestionale/backend/internal/application/report"
	settingsapp "github.com/gestionale/backend/internal/application/settings"
	taxapp "github.com/gestionale/backend/internal/application/tax"
	"github.com/gestionale/backend/internal/infrastructure/config"
	"github.com/gestionale/backend/internal/infrastructure/event"
	"github.com/gestionale/backend/internal/infrastructure/export"
	"github.com/gestionale/backend/internal/infrastructure/logger"
	"github.com/gestionale/backend/internal/infrastructure/mail"
	"github.com/gestionale/backend/internal/infrastructure/persistence"
	"github.com/gestionale/backend/internal/infrastructure/scheduler"
	"github.com/gestionale/backend/internal/infrastructure/storage"
	"github.com/gestionale/backend/internal/interfaces/http/handler"
	"github.com/gestionale/backend/internal/interfaces/http/middleware"
	"github.com/gestionale/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Gestionale backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("addr", cfg.Addr()))

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	archive, err := storage.NewLocalArchiveStore(cfg.Storage.ArchiveDir)
	if err != nil {
		log.Fatal("Failed to initialize archive storage", zap.Error(err))
	}

	// Repositories
	contactRepo := persistence.NewGormContactRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	contactService := addressbookapp.NewContactService(contactRepo, eventBus)
	stockService := inventoryapp.NewStockService(stockItemRepo, eventBus)
	projectService := projectapp.NewProjectService(projectRepo, contactRepo, archive, eventBus)
	documentService := billingapp.NewDocumentService(documentRepo, contactRepo, stockItemRepo, settingsRepo, txManager, eventBus)
	ledgerService := ledgerapp.NewLedgerService(movementRepo, documentRepo, txManager, eventBus, log)
	calendarService := calendarapp.NewCalendarService(eventRepo, projectRepo, documentRepo, settingsRepo, mail.NewSMTPSender(log), txManager, log)
	taxService := taxapp.NewTaxService(documentRepo, movementRepo, settingsRepo)
	reportService := reportapp.NewReportService(documentRepo, projectRepo, movementRepo, contactRepo)
	settingsService := settingsapp.NewSettingsService(settingsRepo)

	// Deadline changes feed the calendar
	eventBus.Subscribe(calendarapp.NewRegenerationHandler(calendarService, log))

	// Daily reminder job
	var reminderTrigger *scheduler.ReminderTrigger
	if cfg.Scheduler.Enabled {
		reminderTrigger = scheduler.NewReminderTrigger(scheduler.ReminderTriggerConfig{
			ReminderHour:  cfg.Scheduler.ReminderHour,
			DaysAhead:     cfg.Scheduler.DaysAhead,
			CheckInterval: cfg.Scheduler.CheckInterval,
		}, calendarService, log)
		if err := reminderTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := reminderTrigger.Stop(stopCtx); err != nil {
				log.Warn("Reminder scheduler did not stop cleanly", zap.Error(err))
			}
		}()
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(db)).
		Register(handler.NewContactHandler(contactService)).
		Register(handler.NewStockItemHandler(stockService)).
		Register(handler.NewProjectHandler(projectService)).
		Register(handler.NewDocumentHandler(documentService)).
		Register(handler.NewLedgerHandler(ledgerService, export.NewCSVExporter(), export.NewExcelExporter())).
		Register(handler.NewCalendarHandler(calendarService)).
		Register(handler.NewTaxHandler(taxService)).
		Register(handler.NewReportHandler(reportService)).
		Register(handler.NewSettingsHandler(settingsService))
	r.Setup()

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
