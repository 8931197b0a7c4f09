// Package signing implements the order signing bounded context.
package signing

import (
	"context"

	intentDI "github.com/nvidaurre/swaprouter/business/intent/di"
	"github.com/nvidaurre/swaprouter/business/signing/app"
	signingDI "github.com/nvidaurre/swaprouter/business/signing/di"
	"github.com/nvidaurre/swaprouter/business/signing/infra/localwallet"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/monolith"
)

// Module implements the order signing bounded context.
type Module struct{}

// RegisterServices registers all signing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Wallet is optional: without a private key signing requests fail
	// with WALLET_UNAVAILABLE but flattening and submission still work.
	di.RegisterToken(c, signingDI.Wallet, func(sr di.ServiceRegistry) app.Wallet {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.Signing.PrivateKey == "" {
			log.Info(context.Background(), "no signing key configured, wallet disabled")
			return nil
		}
		wallet, err := localwallet.New(localwallet.Config{
			PrivateKeyHex: cfg.Signing.PrivateKey,
			ChainID:       cfg.Chains.DefaultChainID,
			RPCURL:        cfg.Chains.RPCURL(cfg.Chains.DefaultChainID),
		})
		if err != nil {
			panic("failed to create signing wallet: " + err.Error())
		}
		return wallet
	})

	// Register SigningService (public - exposed to other modules)
	di.RegisterToken(c, signingDI.SigningService, func(sr di.ServiceRegistry) *app.SigningService {
		wallet := signingDI.GetWallet(sr)
		submitter := intentDI.GetIntentService(sr)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewSigningService(wallet, submitter, log)
	})

	return nil
}

// Startup initializes the signing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "signing module started")
	return nil
}
