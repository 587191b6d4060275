package http

import (
	"context"

	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/events"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// main.go populates it and hands it to the router.
type App struct {
	Config   config.HTTPConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	// Sessions backs the admin route group.
	Sessions httpkit.SessionChecker
	Modules  []Module
}
