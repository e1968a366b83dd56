// Package http holds the pieces shared by the router and the modules that
// mount routes on it.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module mounts its own routes. Webhook intake and the delivery journal are
// the two implementations.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module receives at registration time.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the /api/v1 group; global middleware is already attached.
	V1 *gin.RouterGroup
}
