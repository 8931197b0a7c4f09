package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

// IntentService orchestrates the gasless intent order lifecycle: quote,
// create, sign-out-of-band, submit, status. Per-chain clients are created
// lazily and cached; the client map and the order cache are the only
// persistent shared mutable state.
type IntentService struct {
	factory      ClientFactory
	crossFactory ClientFactory
	watcher      OrderWatcher
	cache        *OrderCache
	logger       logger.LoggerInterface

	mu           sync.Mutex
	clients      map[uint64]ChainClient
	crossClients map[uint64]ChainClient
}

// NewIntentService creates an IntentService. crossFactory may be nil when
// the cross-chain variant is not configured; cross-chain quotes then fail.
func NewIntentService(factory, crossFactory ClientFactory, watcher OrderWatcher, log logger.LoggerInterface) *IntentService {
	return &IntentService{
		factory:      factory,
		crossFactory: crossFactory,
		watcher:      watcher,
		cache:        NewOrderCache(),
		logger:       log,
		clients:      make(map[uint64]ChainClient),
		crossClients: make(map[uint64]ChainClient),
	}
}

// Cache exposes the order cache for tests and diagnostics.
func (s *IntentService) Cache() *OrderCache {
	return s.cache
}

func (s *IntentService) client(chainID uint64, cross bool) (ChainClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache := s.clients
	factory := s.factory
	if cross {
		cache = s.crossClients
		factory = s.crossFactory
	}
	if factory == nil {
		return nil, fmt.Errorf("no client factory for chain %d", chainID)
	}

	if c, ok := cache[chainID]; ok {
		return c, nil
	}
	c, err := factory(chainID)
	if err != nil {
		return nil, err
	}
	cache[chainID] = c
	return c, nil
}

// normalize fills the chain default and substitutes the native sentinel with
// the chain's wrapped-native address on both legs. The substitution is
// mandatory: the settlement contract cannot hold native assets.
func normalize(params domain.QuoteParams) (domain.QuoteParams, error) {
	if params.SrcChainID == 0 {
		params.SrcChainID = token.ChainIDEthereum
	}

	src, ok := token.SubstituteNative(params.FromTokenAddress, params.SrcChainID)
	if !ok {
		return params, fmt.Errorf("unsupported chain %d", params.SrcChainID)
	}
	params.FromTokenAddress = src

	dstChain := params.SrcChainID
	if params.DstChainID != 0 {
		dstChain = params.DstChainID
	}
	dst, ok := token.SubstituteNative(params.ToTokenAddress, dstChain)
	if !ok {
		return params, fmt.Errorf("unsupported chain %d", dstChain)
	}
	params.ToTokenAddress = dst

	return params, nil
}

// GetQuote fetches a same-chain intent quote. A request naming a different
// destination chain fails with CROSS_CHAIN_UNSUPPORTED so the caller can
// redirect to the cross-chain path.
func (s *IntentService) GetQuote(ctx context.Context, params domain.QuoteParams) (*domain.Quote, error) {
	if params.SrcChainID == 0 {
		params.SrcChainID = token.ChainIDEthereum
	}
	if params.CrossChain() {
		return nil, apperror.New(apperror.CodeCrossChainUnsupported,
			apperror.WithContext(fmt.Sprintf("src chain %d, dst chain %d", params.SrcChainID, params.DstChainID)))
	}

	normalized, err := normalize(params)
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}

	client, err := s.client(normalized.SrcChainID, false)
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}

	quote, err := client.Quote(ctx, normalized)
	if err != nil {
		s.logger.Warn(ctx, "intent quote failed", "chain_id", normalized.SrcChainID, "error", err)
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}
	quote.IsCrossChain = false
	return quote, nil
}

// GetCrossChainQuote fetches a quote whose settlement spans two chains.
func (s *IntentService) GetCrossChainQuote(ctx context.Context, params domain.QuoteParams) (*domain.Quote, error) {
	if params.SrcChainID == 0 {
		params.SrcChainID = token.ChainIDEthereum
	}
	if !params.CrossChain() {
		return s.GetQuote(ctx, params)
	}

	normalized, err := normalize(params)
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}

	client, err := s.client(normalized.SrcChainID, true)
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}

	quote, err := client.Quote(ctx, normalized)
	if err != nil {
		s.logger.Warn(ctx, "cross-chain intent quote failed",
			"src_chain_id", normalized.SrcChainID, "dst_chain_id", normalized.DstChainID, "error", err)
		return nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}
	quote.IsCrossChain = true
	return quote, nil
}

// createLive re-quotes and builds a fresh live order. Caller-supplied quote
// ids are never trusted for creation; the quote is always re-derived so the
// order binds to current market conditions.
func (s *IntentService) createLive(ctx context.Context, params domain.OrderParams) (*domain.Order, *domain.Quote, error) {
	var quote *domain.Quote
	var err error
	if params.CrossChain() {
		quote, err = s.GetCrossChainQuote(ctx, params.QuoteParams)
	} else {
		quote, err = s.GetQuote(ctx, params.QuoteParams)
	}
	if err != nil {
		return nil, nil, err
	}

	normalized, err := normalize(params.QuoteParams)
	if err != nil {
		return nil, nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}
	orderParams := params
	orderParams.QuoteParams = normalized

	client, err := s.client(normalized.SrcChainID, params.CrossChain())
	if err != nil {
		return nil, nil, apperror.New(apperror.CodeQuoteUnavailable, apperror.WithCause(err))
	}

	order, err := client.BuildOrder(ctx, orderParams, quote)
	if err != nil {
		return nil, nil, apperror.New(apperror.CodeOrderSubmissionFailed,
			apperror.WithCause(err),
			apperror.WithContext("order construction failed"))
	}
	return order, quote, nil
}

// CreateOrder builds an unsigned live order and caches it, together with
// its creation parameters, under the fresh quote id. The returned order
// hash is an empty placeholder until submission.
func (s *IntentService) CreateOrder(ctx context.Context, params domain.OrderParams) (*domain.CreateOrderResult, error) {
	order, quote, err := s.createLive(ctx, params)
	if err != nil {
		return nil, err
	}

	s.cache.Store(quote.QuoteID, order, params)
	s.logger.Debug(ctx, "order created", "quote_id", quote.QuoteID, "chain_id", params.SrcChainID)

	return &domain.CreateOrderResult{
		OrderHash: "",
		Order:     order,
		QuoteID:   quote.QuoteID,
	}, nil
}

// SubmitOrder submits a live order. Never retried; a duplicate submission
// could place the order twice. Cross-chain orders are routed to the
// cross-chain relayer when the cached creation parameters say so.
func (s *IntentService) SubmitOrder(ctx context.Context, order *domain.Order, quoteID string, chainID uint64) (*domain.SubmitResult, error) {
	cross := false
	if params, ok := s.cache.PeekParams(quoteID); ok {
		cross = params.CrossChain()
	}
	return s.submit(ctx, order, "", quoteID, chainID, cross)
}

// SubmitSignedOrder resolves a submittable order for the quote id and
// submits it with the maker's signature. The raw order the caller supplies
// is only a fallback identity check; a JSON round-tripped order cannot
// regain its behavior, so resolution prefers regeneration from the cached
// creation parameters.
func (s *IntentService) SubmitSignedOrder(ctx context.Context, raw json.RawMessage, signature, quoteID string, chainID uint64) (*domain.SubmitResult, error) {
	order, cross, err := s.resolveSubmittable(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if !order.Submittable() {
		return nil, apperror.New(apperror.CodeInvalidOrderObject,
			apperror.WithContext(fmt.Sprintf("resolved order for quote %s lost its behavior", quoteID)))
	}

	return s.submit(ctx, order, signature, quoteID, chainID, cross)
}

// resolveSubmittable implements the cache resolution algorithm: regenerate
// from creation parameters when available, fall back to the cached live
// object, otherwise the order is not reconstructable. Entries are evicted
// on use; submission consumes the quote id at most once. The second result
// reports whether the order settles cross-chain, taken from the creation
// parameters, so the caller can pick the matching relayer.
func (s *IntentService) resolveSubmittable(ctx context.Context, quoteID string) (*domain.Order, bool, error) {
	if params, ok := s.cache.PeekParams(quoteID); ok {
		order, _, err := s.createLive(ctx, params)
		if err != nil {
			return nil, false, err
		}
		s.cache.Evict(quoteID)
		return order, params.CrossChain(), nil
	}

	if order, params, ok := s.cache.TakeOrder(quoteID); ok {
		return order, params.CrossChain(), nil
	}

	return nil, false, apperror.New(apperror.CodeOrderNotReconstructable,
		apperror.WithContext(fmt.Sprintf("no cache entry for quote %s", quoteID)))
}

func (s *IntentService) submit(ctx context.Context, order *domain.Order, signature, quoteID string, chainID uint64, cross bool) (*domain.SubmitResult, error) {
	if chainID == 0 {
		chainID = token.ChainIDEthereum
	}

	client, err := s.client(chainID, cross)
	if err != nil {
		return nil, apperror.New(apperror.CodeOrderSubmissionFailed, apperror.WithCause(err))
	}

	orderHash, err := client.Submit(ctx, order, signature, quoteID)
	if err != nil {
		s.logger.Warn(ctx, "order submission rejected", "quote_id", quoteID, "chain_id", chainID, "error", err)
		return nil, apperror.New(apperror.CodeOrderSubmissionFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("quote %s on chain %d", quoteID, chainID)))
	}

	s.logger.Info(ctx, "order submitted", "order_hash", orderHash, "quote_id", quoteID, "chain_id", chainID)
	return &domain.SubmitResult{OrderHash: orderHash, Status: "submitted"}, nil
}

// GetOrderStatus reads the lifecycle state of a submitted order. Safe for
// the caller to retry; the read is idempotent. An order hash unknown to the
// same-chain relayer is retried against the cross-chain one, since the hash
// alone does not say which relayer settled the order.
func (s *IntentService) GetOrderStatus(ctx context.Context, orderHash string, chainID uint64) (*domain.OrderStatus, error) {
	if chainID == 0 {
		chainID = token.ChainIDEthereum
	}

	status, err := s.orderStatus(ctx, orderHash, chainID, false)
	if err == nil {
		return status, nil
	}

	if s.crossFactory != nil {
		if status, crossErr := s.orderStatus(ctx, orderHash, chainID, true); crossErr == nil {
			return status, nil
		}
	}

	return nil, apperror.New(apperror.CodeStatusUnavailable,
		apperror.WithCause(err),
		apperror.WithContext(fmt.Sprintf("order %s on chain %d", orderHash, chainID)))
}

func (s *IntentService) orderStatus(ctx context.Context, orderHash string, chainID uint64, cross bool) (*domain.OrderStatus, error) {
	client, err := s.client(chainID, cross)
	if err != nil {
		return nil, err
	}
	return client.OrderStatus(ctx, orderHash)
}

// WatchOrder streams order events until ctx is cancelled.
func (s *IntentService) WatchOrder(ctx context.Context, orderHash string, chainID uint64) (<-chan domain.OrderEvent, error) {
	if s.watcher == nil {
		return nil, apperror.New(apperror.CodeStatusUnavailable,
			apperror.WithContext("order event stream not configured"))
	}
	return s.watcher.Watch(ctx, orderHash, chainID)
}
