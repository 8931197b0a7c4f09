// Package intent implements the gasless intent order bounded context.
package intent

import (
	"context"

	"github.com/nvidaurre/swaprouter/business/intent/app"
	intentDI "github.com/nvidaurre/swaprouter/business/intent/di"
	"github.com/nvidaurre/swaprouter/business/intent/infra/fusion"
	"github.com/nvidaurre/swaprouter/business/intent/infra/fusionplus"
	"github.com/nvidaurre/swaprouter/business/intent/infra/fusionws"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/monolith"
)

// Module implements the intent order bounded context.
type Module struct{}

// RegisterServices registers all intent services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Factory producing one same-chain client per chain, on demand
	di.RegisterToken(c, intentDI.ChainClientFactory, func(sr di.ServiceRegistry) app.ClientFactory {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return func(chainID uint64) (app.ChainClient, error) {
			return fusion.NewClient(fusion.ClientConfig{
				ChainID: chainID,
				BaseURL: cfg.Aggregator.BaseURL,
				APIKey:  cfg.Aggregator.APIKey,
				RPCURL:  cfg.Chains.RPCURL(chainID),
				Timeout: cfg.Aggregator.RequestTimeout,
			}, log)
		}
	})

	// Factory producing cross-chain clients keyed by source chain
	di.RegisterToken(c, intentDI.CrossChainFactory, func(sr di.ServiceRegistry) app.ClientFactory {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return func(chainID uint64) (app.ChainClient, error) {
			return fusionplus.NewClient(fusionplus.ClientConfig{
				ChainID: chainID,
				BaseURL: cfg.Aggregator.BaseURL,
				APIKey:  cfg.Aggregator.APIKey,
				Timeout: cfg.Aggregator.RequestTimeout,
			}, log)
		}
	})

	di.RegisterToken(c, intentDI.OrderWatcher, func(sr di.ServiceRegistry) app.OrderWatcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return fusionws.NewWatcher(fusionws.Config{
			URL:    cfg.Aggregator.WebSocketURL,
			APIKey: cfg.Aggregator.APIKey,
		}, log)
	})

	// Register IntentService (public - exposed to other modules)
	di.RegisterToken(c, intentDI.IntentService, func(sr di.ServiceRegistry) *app.IntentService {
		factory := intentDI.GetChainClientFactory(sr)
		crossFactory := intentDI.GetCrossChainFactory(sr)
		watcher := intentDI.GetOrderWatcher(sr)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewIntentService(factory, crossFactory, watcher, log)
	})

	return nil
}

// Startup initializes the intent module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "intent module started")
	return nil
}
