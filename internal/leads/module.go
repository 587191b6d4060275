// Package leads provides the lead bounded context: the store, the admin
// views and the prediction orchestrator.
package leads

import (
	"hvac_quote_backend/internal/events"
	apphttp "hvac_quote_backend/internal/http"
	"hvac_quote_backend/internal/leads/handler"
	"hvac_quote_backend/internal/leads/management"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/platform/db"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	repo         *repository.Repository
	handler      *handler.Handler
	management   *management.Service
	orchestrator *Orchestrator
}

// NewModule wires the lead store, management service and orchestrator.
// property and predictor may be nil when their providers are not configured.
func NewModule(pool db.Pool, property management.PropertyLookup, predictor Predictor, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	mgmtSvc := management.New(repo, property, eventBus, log)
	orchestrator := NewOrchestrator(repo, predictor, eventBus, log)

	return &Module{
		repo:         repo,
		handler:      handler.New(mgmtSvc, orchestrator, val),
		management:   mgmtSvc,
		orchestrator: orchestrator,
	}
}

func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for the wizard and worker.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

func (m *Module) Orchestrator() *Orchestrator {
	return m.orchestrator
}

// Repository exposes the store to the photo module.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/leads"))
	ctx.V1.POST("/leads/:id/predict", m.handler.Predict)
	ctx.V1.GET("/quote/pricing", m.handler.Pricing)
}

var _ apphttp.Module = (*Module)(nil)
