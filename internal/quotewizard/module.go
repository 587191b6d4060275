// Package quotewizard wires the customer quote wizard to HTTP.
package quotewizard

import (
	apphttp "hvac_quote_backend/internal/http"
	"hvac_quote_backend/internal/quotewizard/handler"
	"hvac_quote_backend/internal/quotewizard/wizard"
	"hvac_quote_backend/internal/scheduler"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"
)

type Module struct {
	wizard  *wizard.Wizard
	handler *handler.Handler
}

// NewModule builds the wizard. patches may be nil when Redis is not configured.
func NewModule(leads wizard.LeadService, predictor wizard.Predictor, patches scheduler.PatchQueue, val *validator.Validator, log *logger.Logger) *Module {
	wz := wizard.New(leads, predictor, patches, log)
	return &Module{
		wizard:  wz,
		handler: handler.New(wz, val),
	}
}

func (m *Module) Name() string {
	return "quotewizard"
}

// Wizard is exposed so shutdown can wait for inline patches.
func (m *Module) Wizard() *wizard.Wizard {
	return m.wizard
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/quote"))
}

var _ apphttp.Module = (*Module)(nil)
