// Package auth guards the admin surface with a shared password and
// revocable session tokens.
package auth

import (
	"hvac_quote_backend/internal/auth/handler"
	"hvac_quote_backend/internal/auth/service"
	"hvac_quote_backend/internal/auth/session"
	apphttp "hvac_quote_backend/internal/http"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
	redis   *redis.Client
}

// NewModule stores sessions in Redis when REDIS_URL is set and in memory
// otherwise.
func NewModule(cfg config.AuthConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	var (
		store  session.Store
		client *redis.Client
	)
	if url := cfg.GetRedisURL(); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opt)
		store = session.NewRedisStore(client)
	} else {
		log.Warn("REDIS_URL not set; admin sessions are kept in memory")
		store = session.NewMemoryStore()
	}

	svc, err := service.New(cfg, store, log)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, val, log),
		service: svc,
		redis:   client,
	}, nil
}

func (m *Module) Name() string {
	return "auth"
}

// Sessions backs the admin route group.
func (m *Module) Sessions() httpkit.SessionChecker {
	return m.service
}

func (m *Module) Close() error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Close()
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if ctx.AuthRateLimiter != nil {
		ctx.AdminPublic.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)
	} else {
		ctx.AdminPublic.POST("/login", m.handler.Login)
	}
	ctx.Admin.POST("/logout", m.handler.Logout)
	ctx.Admin.GET("/session", m.handler.Session)
}

var _ apphttp.Module = (*Module)(nil)
