package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hvac_quote_backend/internal/adapters"
	"hvac_quote_backend/internal/adapters/storage"
	"hvac_quote_backend/internal/auth"
	"hvac_quote_backend/internal/email"
	"hvac_quote_backend/internal/events"
	apphttp "hvac_quote_backend/internal/http"
	"hvac_quote_backend/internal/http/router"
	"hvac_quote_backend/internal/leads"
	"hvac_quote_backend/internal/notification"
	"hvac_quote_backend/internal/photos"
	"hvac_quote_backend/internal/prediction"
	"hvac_quote_backend/internal/property"
	"hvac_quote_backend/internal/quotewizard"
	"hvac_quote_backend/internal/scheduler"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/db"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Infrastructure

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	patchQueue, notifyQueue, closeQueue := initQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure photo bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetPhotoBucket())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetPhotoBucket())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "photoBucket", cfg.GetPhotoBucket())

	val := validator.New()

	// Modules

	propertyModule := property.NewModule(cfg, val, log)
	propertyLookup := adapters.NewPropertyLookupAdapter(propertyModule.Service())

	var predictor leads.Predictor
	if p, err := prediction.NewFromConfig(cfg, log); err != nil {
		log.Error("prediction disabled", "error", err)
	} else {
		predictor = p
	}

	leadsModule := leads.NewModule(pool, propertyLookup, predictor, eventBus, val, log)
	wizardModule := quotewizard.NewModule(leadsModule.ManagementService(), leadsModule.Orchestrator(), patchQueue, val, log)

	photoLeads := adapters.NewPhotoLeadAdapter(leadsModule.ManagementService())
	photosModule := photos.NewModule(leadsModule.Repository(), photoLeads, storageSvc, cfg, cfg, eventBus, val, log)

	authModule, err := auth.NewModule(cfg, val, log)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}
	defer func() { _ = authModule.Close() }()

	notificationModule := notification.New(email.NewSender(cfg), cfg, notifyQueue, log)
	notificationModule.SetLeadContactReader(adapters.NewLeadContactReader(leadsModule.Repository()))
	notificationModule.RegisterHandlers(eventBus)

	// HTTP

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolHealth(pool),
		EventBus: eventBus,
		Sessions: authModule.Sessions(),
		Modules: []apphttp.Module{
			authModule,
			propertyModule,
			leadsModule,
			wizardModule,
			photosModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	wizardModule.Wizard().Wait()
	eventBus.Wait()
	log.Info("server stopped")
}

// initQueue returns nil queues when Redis is not configured. The wizard then
// applies patches inline and notifications are sent from the request.
func initQueue(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.PatchQueue, scheduler.NotificationQueue, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead patches and notifications run inline")
		return nil, nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil, nil
	}

	return client, client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
