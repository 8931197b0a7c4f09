// Package di contains dependency injection tokens for the intent context.
package di

import (
	"github.com/nvidaurre/swaprouter/business/intent/app"
	"github.com/nvidaurre/swaprouter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	IntentService = di.NewToken[*app.IntentService]("intent.IntentService")
)

// Private dependency tokens - internal to intent module
var (
	ChainClientFactory = di.NewToken[app.ClientFactory]("intent:chainClientFactory")
	CrossChainFactory  = di.NewToken[app.ClientFactory]("intent:crossChainFactory")
	OrderWatcher       = di.NewToken[app.OrderWatcher]("intent:orderWatcher")
)

// Helper functions for type-safe access
func GetIntentService(c di.ServiceRegistry) *app.IntentService {
	return di.GetToken(c, IntentService)
}

func GetChainClientFactory(c di.ServiceRegistry) app.ClientFactory {
	return di.GetToken(c, ChainClientFactory)
}

func GetCrossChainFactory(c di.ServiceRegistry) app.ClientFactory {
	return di.GetToken(c, CrossChainFactory)
}

func GetOrderWatcher(c di.ServiceRegistry) app.OrderWatcher {
	return di.GetToken(c, OrderWatcher)
}
