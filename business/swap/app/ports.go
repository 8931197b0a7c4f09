// Package app contains application services and port definitions for the swap context.
package app

import (
	"context"
	"encoding/json"

	"github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/token"
)

// AggregatorAPI is the upstream classic-swap protocol surface. One call per
// method; retry policy is the service's concern, not the client's.
type AggregatorAPI interface {
	Quote(ctx context.Context, chainID uint64, src, dst, amount string) (*domain.Quote, error)
	Swap(ctx context.Context, chainID uint64, src, dst, amount, from string, slippage float64) (*domain.SwapResult, error)
	Allowance(ctx context.Context, chainID uint64, tokenAddress, walletAddress string) (*domain.Allowance, error)
	ApprovalTransaction(ctx context.Context, chainID uint64, tokenAddress, amount string) (*domain.ApprovalTransaction, error)
	Tokens(ctx context.Context, chainID uint64) (map[string]token.Token, error)
	Prices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error)
	CreateLimitOrder(ctx context.Context, chainID uint64, req domain.LimitOrderRequest) (json.RawMessage, error)
	LimitOrders(ctx context.Context, chainID uint64, filter domain.LimitOrderFilter) (json.RawMessage, error)
}
