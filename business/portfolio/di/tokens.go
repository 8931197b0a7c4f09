// Package di contains dependency injection tokens for the portfolio context.
package di

import (
	"github.com/nvidaurre/swaprouter/business/portfolio/app"
	"github.com/nvidaurre/swaprouter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PortfolioService = di.NewToken[*app.PortfolioService]("portfolio.PortfolioService")
)

// Private dependency tokens - internal to portfolio module
var (
	ChainReader = di.NewToken[app.ChainReader]("portfolio:chainReader")
)

// Helper functions for type-safe access
func GetPortfolioService(c di.ServiceRegistry) *app.PortfolioService {
	return di.GetToken(c, PortfolioService)
}

func GetChainReader(c di.ServiceRegistry) app.ChainReader {
	return di.GetToken(c, ChainReader)
}
