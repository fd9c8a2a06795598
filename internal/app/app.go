package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netops-cockpit/internal/cache"
	"netops-cockpit/internal/config"
	"netops-cockpit/internal/database"
	"netops-cockpit/internal/event"
	"netops-cockpit/internal/handler"
	"netops-cockpit/internal/nautobot"
	"netops-cockpit/internal/repository"
	"netops-cockpit/internal/router"
	"netops-cockpit/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	return assemble(cfg, db)
}

// assemble wires services, handlers, and background workers onto an already
// connected database. It must return promptly; anything long-running is
// started on its own goroutine.
func assemble(cfg *config.Config, db *database.DB) (*App, error) {
	pool := db.Pool
	deviceRepo := repository.NewDeviceRepository(pool)
	editSetRepo := repository.NewEditSetRepository(pool)
	syncRunRepo := repository.NewSyncRunRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	upstream := nautobot.NewClient(cfg.NautobotURL, cfg.NautobotToken, cfg.NautobotTimeout)

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())

	metadataCache := cache.New(cfg.CacheTTL)
	go metadataCache.StartSweeper(backgroundCtx, cfg.CacheTTL)

	bus := event.NewBus()

	inventoryService := service.NewInventoryService(deviceRepo, upstream)
	locationService := service.NewLocationService(upstream, metadataCache)
	metadataService := service.NewMetadataService(upstream, metadataCache)
	editSetService := service.NewEditSetService(editSetRepo, bus)
	exportService := service.NewExportService(editSetRepo, bus)
	syncService := service.NewSyncService(upstream, deviceRepo, syncRunRepo, bus, metadataService.InvalidateCache, cfg.SyncTimeout)
	auditService := service.NewAuditService(auditRepo)
	go auditService.ConsumeEvents(backgroundCtx, bus)

	appRouter := router.New(
		cfg,
		handler.NewHealthHandler(db, upstream, inventoryService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewLocationHandler(locationService),
		handler.NewMetadataHandler(metadataService),
		handler.NewEditSetHandler(editSetService),
		handler.NewExportHandler(exportService),
		handler.NewSyncHandler(syncService),
		handler.NewAuditHandler(auditService),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				backgroundCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
