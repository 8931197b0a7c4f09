// Package router implements the route comparison bounded context.
package router

import (
	"context"

	intentDI "github.com/nvidaurre/swaprouter/business/intent/di"
	"github.com/nvidaurre/swaprouter/business/router/app"
	routerDI "github.com/nvidaurre/swaprouter/business/router/di"
	swapDI "github.com/nvidaurre/swaprouter/business/swap/di"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/monolith"
)

// Module implements the route comparison bounded context.
type Module struct{}

// RegisterServices registers all router services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, routerDI.RouterService, func(sr di.ServiceRegistry) *app.RouterService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		classic := swapDI.GetSwapService(sr)
		intent := intentDI.GetIntentService(sr)
		return app.NewRouterService(classic, intent, cfg.Gas.EstimateMultiplierDecimal(), log)
	})

	return nil
}

// Startup initializes the router module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "router module started")
	return nil
}
