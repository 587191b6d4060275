package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hvac_quote_backend/internal/email"
	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/leads"
	"hvac_quote_backend/internal/notification"
	"hvac_quote_backend/internal/scheduler"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/db"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "concurrency", cfg.GetWorkerConcurrency())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// Nothing subscribes in the worker.
	eventBus := events.NewInMemoryBus(log)
	leadsModule := leads.NewModule(pool, nil, nil, eventBus, validator.New(), log)

	notificationModule := notification.New(email.NewSender(cfg), cfg, nil, log)

	worker, err := scheduler.NewWorker(cfg, leadsModule.ManagementService(), notificationModule.Notifier(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
	log.Info("worker stopped")
}
