package app

import (
	"context"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	swapdomain "github.com/nvidaurre/swaprouter/business/swap/domain"
)

// ClassicQuoter fetches instant-swap quotes.
type ClassicQuoter interface {
	GetQuote(ctx context.Context, chainID uint64, src, dst, amount string) (*swapdomain.Quote, error)
}

// IntentQuoter fetches gasless intent quotes, same-chain and cross-chain.
type IntentQuoter interface {
	GetQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error)
	GetCrossChainQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error)
}
