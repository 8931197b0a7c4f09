// Package swap implements the classic swap bounded context.
package swap

import (
	"context"

	"github.com/nvidaurre/swaprouter/business/swap/app"
	swapDI "github.com/nvidaurre/swaprouter/business/swap/di"
	"github.com/nvidaurre/swaprouter/business/swap/infra/oneinch"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/monolith"
)

// Module implements the classic swap bounded context.
type Module struct{}

// RegisterServices registers all swap services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register the aggregator client - private dependency
	di.RegisterToken(c, swapDI.AggregatorAPI, func(sr di.ServiceRegistry) app.AggregatorAPI {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := oneinch.NewClient(oneinch.ClientConfig{
			BaseURL:       cfg.Aggregator.BaseURL,
			APIKey:        cfg.Aggregator.APIKey,
			Timeout:       cfg.Aggregator.RequestTimeout,
			RatePerSecond: cfg.Aggregator.RatePerSecond,
			RateBurst:     cfg.Aggregator.RateBurst,
		}, log)
		if err != nil {
			panic("failed to create aggregator client: " + err.Error())
		}
		return client
	})

	// Register SwapService (public - exposed to other modules)
	di.RegisterToken(c, swapDI.SwapService, func(sr di.ServiceRegistry) *app.SwapService {
		api := swapDI.GetAggregatorAPI(sr)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewSwapService(api, log)
	})

	return nil
}

// Startup initializes the swap module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "swap module started")
	return nil
}
