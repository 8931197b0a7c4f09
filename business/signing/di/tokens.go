// Package di contains dependency injection tokens for the signing context.
package di

import (
	"github.com/nvidaurre/swaprouter/business/signing/app"
	"github.com/nvidaurre/swaprouter/internal/di"
)

// Public service tokens - exposed to other modules
var (
	SigningService = di.NewToken[*app.SigningService]("signing.SigningService")
)

// Private dependency tokens - internal to signing module
var (
	Wallet = di.NewToken[app.Wallet]("signing:wallet")
)

// Helper functions for type-safe access
func GetSigningService(c di.ServiceRegistry) *app.SigningService {
	return di.GetToken(c, SigningService)
}

func GetWallet(c di.ServiceRegistry) app.Wallet {
	return di.GetToken(c, Wallet)
}
