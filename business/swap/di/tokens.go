// Package di contains dependency injection tokens for the swap context.
package di

import (
	"github.com/nvidaurre/swaprouter/business/swap/app"
	"github.com/nvidaurre/swaprouter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SwapService = di.NewToken[*app.SwapService]("swap.SwapService")
)

// Private dependency tokens - internal to swap module
var (
	AggregatorAPI = di.NewToken[app.AggregatorAPI]("swap:aggregatorAPI")
)

// Helper functions for type-safe access
func GetSwapService(c di.ServiceRegistry) *app.SwapService {
	return di.GetToken(c, SwapService)
}

func GetAggregatorAPI(c di.ServiceRegistry) app.AggregatorAPI {
	return di.GetToken(c, AggregatorAPI)
}
