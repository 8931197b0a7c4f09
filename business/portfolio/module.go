// Package portfolio implements the balances and prices bounded context.
package portfolio

import (
	"context"

	"github.com/nvidaurre/swaprouter/business/portfolio/app"
	portfolioDI "github.com/nvidaurre/swaprouter/business/portfolio/di"
	"github.com/nvidaurre/swaprouter/business/portfolio/infra/evmreader"
	swapDI "github.com/nvidaurre/swaprouter/business/swap/di"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/monolith"
)

// Module implements the portfolio bounded context.
type Module struct{}

// RegisterServices registers all portfolio services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, portfolioDI.ChainReader, func(sr di.ServiceRegistry) app.ChainReader {
		clients := sr.Get("chainClients").(*monolith.ChainClients)
		return evmreader.New(clients)
	})

	// Register PortfolioService (public - exposed to other modules)
	di.RegisterToken(c, portfolioDI.PortfolioService, func(sr di.ServiceRegistry) *app.PortfolioService {
		reader := portfolioDI.GetChainReader(sr)
		prices := swapDI.GetSwapService(sr)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewPortfolioService(reader, prices, log)
	})

	return nil
}

// Startup initializes the portfolio module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "portfolio module started")
	return nil
}
