package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/repository/spreadsheet"
	dashboardService "github.com/cmlabs-hris/hris-dashboard-go/internal/service/dashboard"
	eventService "github.com/cmlabs-hris/hris-dashboard-go/internal/service/event"
	exportService "github.com/cmlabs-hris/hris-dashboard-go/internal/service/export"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/ingest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := appHTTP.NewLogger(cfg.App)
	slog.SetDefault(logger)

	settingsStore, err := config.NewSettingsStore(cfg.Data.SettingsFile)
	if err != nil {
		log.Fatal("Failed to load settings:", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Data.UploadDir)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	maxUpload := int64(cfg.Data.MaxUploadMB) << 20
	loader := ingest.NewLoader(settingsStore, cfg.Data.Sheet, ingest.NewCache(ingest.DefaultCacheSize))
	masterRepo := spreadsheet.NewMasterRepository(cfg.Data.MasterFile, cfg.Data.Sheet)

	eventSvc := eventService.NewEventService(
		loader,
		masterRepo,
		settingsStore,
		fileStorage,
		cfg.Data.ExampleFile,
		storage.SourceUploadOptions(maxUpload),
	)
	dashboardSvc := dashboardService.NewDashboardService(eventSvc)
	reportSvc := exportService.NewReportService(eventSvc)

	var JWTService jwt.Service
	if cfg.AuthEnabled() {
		JWTService = jwt.NewJWTService(cfg.JWT.Secret)
	} else if cfg.IsProduction() {
		log.Fatal("JWT_SECRET_KEY is required in production")
	} else {
		slog.Warn("JWT_SECRET_KEY is empty, write routes are open")
	}

	sourceHandler := appHTTP.NewSourceHandler(eventSvc, maxUpload)
	eventHandler := appHTTP.NewEventHandler(eventSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsStore)

	router := appHTTP.NewRouter(
		cfg,
		logger,
		JWTService,
		sourceHandler,
		eventHandler,
		dashboardHandler,
		reportHandler,
		settingsHandler,
	)

	scheduler := cron.NewScheduler()
	datasetJobs := cron.NewDatasetJobs(eventSvc)
	scheduler.AddJob("dataset-refresh", cfg.Data.RefreshInterval, 30*time.Second, datasetJobs.Refresh)
	scheduler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
