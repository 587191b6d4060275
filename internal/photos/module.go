// Package photos runs the equipment photo flow: step definitions, uploads to
// object storage and the signed links that move the flow to a phone.
package photos

import (
	"hvac_quote_backend/internal/adapters/storage"
	"hvac_quote_backend/internal/events"
	apphttp "hvac_quote_backend/internal/http"
	"hvac_quote_backend/internal/photos/flow"
	"hvac_quote_backend/internal/photos/handler"
	"hvac_quote_backend/internal/photos/photolink"
	"hvac_quote_backend/internal/photos/service"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Module struct {
	service *service.Service
	handler *handler.Handler
}

func NewModule(
	photos service.PhotoStore,
	leads service.LeadPort,
	store storage.StorageService,
	storageCfg config.StorageConfig,
	linkCfg config.PhotoLinkConfig,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(photos, leads, store, storageCfg.GetPhotoBucket(), flow.Default(), flow.NewTracker(), eventBus, log)
	links := photolink.NewSigner(linkCfg.GetPhotoLinkSecret(), linkCfg.GetPhotoLinkTTL(), linkCfg.GetAppBaseURL())

	return &Module{
		service: svc,
		handler: handler.New(svc, links, val, storageCfg.GetMaxPhotoSize(), log),
	}
}

func (m *Module) Name() string {
	return "photos"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	var upload gin.HandlerFunc
	if ctx.UploadRateLimiter != nil {
		upload = ctx.UploadRateLimiter.RateLimit()
	}
	m.handler.RegisterRoutes(ctx.V1, upload)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)
