// Package http holds the pieces shared by the router and the modules that
// mount routes on it.
package http

import (
	"hvac_quote_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is implemented by every bounded context with HTTP routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module gets to mount routes on.
//
// V1 is /api/v1 with no auth. Admin is /api/v1/admin behind the session
// check; AdminPublic shares the prefix without it and only carries login.
type RouterContext struct {
	Engine      *gin.Engine
	V1          *gin.RouterGroup
	Admin       *gin.RouterGroup
	AdminPublic *gin.RouterGroup

	// AuthRateLimiter guards login; UploadRateLimiter guards photo uploads.
	AuthRateLimiter   *httpkit.AuthRateLimiter
	UploadRateLimiter *httpkit.IPRateLimiter
}
