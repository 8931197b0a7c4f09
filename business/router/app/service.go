package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/business/router/domain"
	"github.com/nvidaurre/swaprouter/internal/logger"
)

// Per-protocol confidence in the quoted destination amount holding through
// execution. Classic quotes are firm, intent auctions may settle below the
// start amount, cross-chain settlement adds bridge variance.
const (
	confidenceClassic    = 0.95
	confidenceIntent     = 0.90
	confidenceCrossChain = 0.80
)

// RouteRequest describes the swap the comparison is built for.
type RouteRequest struct {
	SrcToken      string
	DstToken      string
	Amount        string
	WalletAddress string
	SrcChainID    uint64
	DstChainID    uint64
}

// RouterService fans a quote request out to every protocol and ranks the
// results. Failures of individual quote sources are absorbed; the caller
// only sees an empty route set when every source failed.
type RouterService struct {
	classic       ClassicQuoter
	intent        IntentQuoter
	gasMultiplier decimal.Decimal
	logger        logger.LoggerInterface
}

// NewRouterService creates a RouterService. gasMultiplier converts the
// classic quote's raw gas units into a display-currency cost estimate.
func NewRouterService(classic ClassicQuoter, intent IntentQuoter, gasMultiplier decimal.Decimal, log logger.LoggerInterface) *RouterService {
	return &RouterService{
		classic:       classic,
		intent:        intent,
		gasMultiplier: gasMultiplier,
		logger:        log,
	}
}

// CompareRoutes fetches quotes from the applicable protocols concurrently
// and returns the ranked routes. Cross-chain requests only consult the
// cross-chain path; same-chain requests consult classic and intent.
func (s *RouterService) CompareRoutes(ctx context.Context, req RouteRequest) []domain.Route {
	crossChain := req.DstChainID != 0 && req.DstChainID != req.SrcChainID

	var mu sync.Mutex
	var routes []domain.Route
	add := func(r domain.Route) {
		mu.Lock()
		routes = append(routes, r)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	if !crossChain {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.fetchClassic(ctx, req, add)
		}()
		go func() {
			defer wg.Done()
			s.fetchIntent(ctx, req, add)
		}()
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fetchCrossChain(ctx, req, add)
		}()
	}
	wg.Wait()

	if len(routes) == 0 {
		s.logger.Warn(ctx, "no route source produced a quote",
			"src_chain_id", req.SrcChainID, "dst_chain_id", req.DstChainID)
		return []domain.Route{}
	}

	// The fan-out finishes in nondeterministic order; fix it before the
	// stable rank so ties break the same way every refresh.
	ordered := make([]domain.Route, 0, len(routes))
	for _, p := range []domain.Protocol{domain.ProtocolClassic, domain.ProtocolIntent, domain.ProtocolIntentCrossChain} {
		for _, r := range routes {
			if r.Protocol == p {
				ordered = append(ordered, r)
			}
		}
	}
	return domain.Rank(ordered)
}

func (s *RouterService) fetchClassic(ctx context.Context, req RouteRequest, add func(domain.Route)) {
	quote, err := s.classic.GetQuote(ctx, req.SrcChainID, req.SrcToken, req.DstToken, req.Amount)
	if err != nil {
		s.logger.Debug(ctx, "classic quote omitted from comparison", "error", err)
		return
	}
	add(domain.Route{
		Protocol:   domain.ProtocolClassic,
		DstAmount:  quote.DstAmount,
		GasCost:    decimal.NewFromInt(quote.Gas).Mul(s.gasMultiplier),
		Estimate:   domain.EstimateClassic,
		Confidence: confidenceClassic,
		Venues:     quote.VenueNames(),
	})
}

func (s *RouterService) fetchIntent(ctx context.Context, req RouteRequest, add func(domain.Route)) {
	quote, err := s.intent.GetQuote(ctx, intentdomain.QuoteParams{
		FromTokenAddress: req.SrcToken,
		ToTokenAddress:   req.DstToken,
		Amount:           req.Amount,
		WalletAddress:    req.WalletAddress,
		SrcChainID:       req.SrcChainID,
	})
	if err != nil {
		s.logger.Debug(ctx, "intent quote omitted from comparison", "error", err)
		return
	}
	add(domain.Route{
		Protocol:     domain.ProtocolIntent,
		DstAmount:    quote.DstAmount,
		GasCost:      decimal.Zero,
		Estimate:     domain.EstimateIntent,
		MEVProtected: true,
		Gasless:      true,
		Confidence:   confidenceIntent,
	})
}

func (s *RouterService) fetchCrossChain(ctx context.Context, req RouteRequest, add func(domain.Route)) {
	quote, err := s.intent.GetCrossChainQuote(ctx, intentdomain.QuoteParams{
		FromTokenAddress: req.SrcToken,
		ToTokenAddress:   req.DstToken,
		Amount:           req.Amount,
		WalletAddress:    req.WalletAddress,
		SrcChainID:       req.SrcChainID,
		DstChainID:       req.DstChainID,
	})
	if err != nil {
		s.logger.Debug(ctx, "cross-chain quote omitted from comparison", "error", err)
		return
	}
	add(domain.Route{
		Protocol:     domain.ProtocolIntentCrossChain,
		DstAmount:    quote.DstAmount,
		GasCost:      decimal.Zero,
		Estimate:     domain.EstimateCrossChain,
		MEVProtected: true,
		Gasless:      true,
		CrossChain:   true,
		Confidence:   confidenceCrossChain,
	})
}
