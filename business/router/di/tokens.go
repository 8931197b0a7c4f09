// Package di contains dependency injection tokens for the router context.
package di

import (
	"github.com/nvidaurre/swaprouter/business/router/app"
	"github.com/nvidaurre/swaprouter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RouterService = di.NewToken[*app.RouterService]("router.RouterService")
)

// Helper functions for type-safe access
func GetRouterService(c di.ServiceRegistry) *app.RouterService {
	return di.GetToken(c, RouterService)
}
