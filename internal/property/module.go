package property

import (
	apphttp "hvac_quote_backend/internal/http"
	"hvac_quote_backend/internal/property/client"
	"hvac_quote_backend/internal/property/handler"
	"hvac_quote_backend/internal/property/service"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"
)

// Module is the property lookup module. A module without a RentCast key is
// disabled: Service returns nil and no routes are mounted.
type Module struct {
	service *service.Service
	handler *handler.Handler
	enabled bool
}

func NewModule(cfg config.PropertyConfig, val *validator.Validator, log *logger.Logger) *Module {
	if !cfg.IsPropertyLookupEnabled() {
		log.Info("property module disabled: RENTCAST_API_KEY not configured")
		return &Module{enabled: false}
	}

	apiClient := client.New(cfg.GetRentCastAPIKey(), cfg.GetRentCastBaseURL(), log)
	svc := service.New(apiClient, cfg.GetPropertyCacheTTL(), log)

	log.Info("property module initialized")

	return &Module{
		service: svc,
		handler: handler.New(svc, val),
		enabled: true,
	}
}

func (m *Module) Name() string {
	return "property"
}

// Service returns the lookup service, or nil if the module is disabled.
func (m *Module) Service() *service.Service {
	if m == nil || !m.enabled {
		return nil
	}
	return m.service
}

func (m *Module) IsEnabled() bool {
	return m != nil && m.enabled
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if !m.IsEnabled() {
		return
	}
	ctx.V1.POST("/property/lookup", m.handler.Lookup)
}

var (
	_ apphttp.Module = (*Module)(nil)
	_ Lookup         = (*service.Service)(nil)
)
