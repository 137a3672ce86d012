package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/cardwatch/backend/docs"
	"github.com/cardwatch/backend/internal/config"
	"github.com/cardwatch/backend/internal/extractor"
	"github.com/cardwatch/backend/internal/handler"
	"github.com/cardwatch/backend/internal/mailbox"
	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/internal/repository"
	"github.com/cardwatch/backend/internal/scheduler"
	"github.com/cardwatch/backend/internal/service"
	"github.com/cardwatch/backend/pkg/datetime"
)

// maxEmailBytes bounds a single inbound email delivery.
const maxEmailBytes = 1 << 20

// @title CardWatch API
// @version 1.0
// @description Credit card usage tracking API that extracts usage records from card company notification emails and aggregates spending reports with threshold alerts.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	loc, err := datetime.ReferenceLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	usageRepo := repository.NewCardUsageRepository(db)
	reportRepo := repository.NewReportRepository(db)
	alertRepo := repository.NewAlertStateRepository(db)
	thresholdRepo := repository.NewThresholdRepository(db)
	pushRepo := repository.NewPushRepository(db)

	// Initialize services
	pushService := service.NewPushNotificationService(pushRepo, cfg)
	usageService := service.NewCardUsageService(extractor.New(loc), usageRepo)
	reportService := service.NewReportService(usageRepo, reportRepo, alertRepo, thresholdRepo, pushService, loc, logger)

	// Initialize handlers
	usageHandler := handler.NewCardUsageHandler(usageService, loc)
	reportHandler := handler.NewReportHandler(reportService, loc)
	pushHandler := handler.NewPushHandler(pushService)

	// Mailbox gateway: one mailbox per card company for pre-routed mail,
	// plus a catch-all that relies on format detection.
	gateway := mailbox.NewWebhookGateway(maxEmailBytes)
	onEmail := func(known *model.CardCompany) mailbox.EmailFunc {
		return func(ctx context.Context, name, emailText string) error {
			_, err := usageService.CreateFromEmail(ctx, emailText, known)
			return err
		}
	}
	for _, company := range model.CardCompanies {
		c := company
		if err := gateway.Connect(string(c), onEmail(&c)); err != nil {
			log.Fatalf("Failed to connect mailbox %s: %v", c, err)
		}
	}
	if err := gateway.Connect("inbox", onEmail(nil)); err != nil {
		log.Fatalf("Failed to connect mailbox inbox: %v", err)
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Card usages
	r.Post("/api/card-usages", usageHandler.Create)
	r.Get("/api/card-usages", usageHandler.List)
	r.Get("/api/card-usages/{id}", usageHandler.Get)
	r.Delete("/api/card-usages/{id}", usageHandler.Delete)

	// Reports
	r.Post("/api/reports/generate", reportHandler.Generate)
	r.Get("/api/reports", reportHandler.GetByPeriod)

	// Inbound mail webhook
	r.Post("/api/mail/{mailbox}", gateway.ServeHTTP)

	// Push notifications
	r.Get("/api/notifications/vapid-public-key", pushHandler.GetVAPIDPublicKey)
	r.Post("/api/notifications/subscribe", pushHandler.Subscribe)
	r.Delete("/api/notifications/unsubscribe", pushHandler.Unsubscribe)

	// Initialize and start scheduler for report regeneration
	var reportScheduler *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		schedCfg := scheduler.Config{
			Schedule: cfg.ReportSchedule,
			Timeout:  cfg.ReportTimeout,
			Enabled:  cfg.SchedulerEnabled,
		}
		reportScheduler = scheduler.New(schedCfg, reportService, logger)
		if err := reportScheduler.Start(); err != nil {
			logger.Error("Failed to start report scheduler", slog.String("error", err.Error()))
		} else {
			logger.Info("Report scheduler started",
				slog.String("schedule", cfg.ReportSchedule),
				slog.Duration("timeout", cfg.ReportTimeout),
			)
		}
	}

	// Create server
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		// Stop scheduler first
		if reportScheduler != nil {
			ctx := reportScheduler.Stop()
			<-ctx.Done()
			logger.Info("Scheduler stopped")
		}

		// Shutdown HTTP server
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}
