package app

import (
	"context"
	"math/big"

	"github.com/nvidaurre/swaprouter/internal/token"
)

// ChainReader reads on-chain balances.
type ChainReader interface {
	NativeBalance(ctx context.Context, chainID uint64, holder string) (*big.Int, error)
	TokenBalance(ctx context.Context, chainID uint64, tokenAddress, holder string) (*big.Int, error)
}

// PriceSource resolves token metadata and display-currency prices.
type PriceSource interface {
	GetTokens(ctx context.Context, chainID uint64) (map[string]token.Token, error)
	GetPrices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error)
}
