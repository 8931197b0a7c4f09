// Package app contains application services and port definitions for the intent context.
package app

import (
	"context"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
)

// ChainClient is the per-chain intent protocol surface. One instance per
// target chain, bound to that chain's network configuration and credential.
type ChainClient interface {
	// Quote fetches a preset-based quote. Token addresses must already be
	// wrapped; the settlement contract cannot hold native assets.
	Quote(ctx context.Context, params domain.QuoteParams) (*domain.Quote, error)

	// BuildOrder constructs a live order from a quote.
	BuildOrder(ctx context.Context, params domain.OrderParams, quote *domain.Quote) (*domain.Order, error)

	// Submit sends an order with its signature and quote id to the relayer,
	// returning the order hash.
	Submit(ctx context.Context, order *domain.Order, signature, quoteID string) (string, error)

	// OrderStatus reads the lifecycle state of a submitted order.
	OrderStatus(ctx context.Context, orderHash string) (*domain.OrderStatus, error)
}

// ClientFactory creates the ChainClient for a chain. Called once per chain;
// the service caches instances for the process lifetime.
type ClientFactory func(chainID uint64) (ChainClient, error)

// OrderWatcher streams order events for a submitted order.
type OrderWatcher interface {
	Watch(ctx context.Context, orderHash string, chainID uint64) (<-chan domain.OrderEvent, error)
}
