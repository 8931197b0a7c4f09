package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/cache"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/retry"
	"github.com/nvidaurre/swaprouter/internal/token"
)

const tokenListTTL = 5 * time.Minute

// SwapService orchestrates classic swap operations. Idempotent reads are
// retried; transaction construction is not, a duplicate could be partially
// processed upstream.
type SwapService struct {
	api        AggregatorAPI
	logger     logger.LoggerInterface
	readPolicy retry.Policy
	tokenCache *cache.Cache[uint64, map[string]token.Token]
}

// NewSwapService creates a SwapService around the upstream client.
func NewSwapService(api AggregatorAPI, log logger.LoggerInterface) *SwapService {
	return &SwapService{
		api:        api,
		logger:     log,
		readPolicy: retry.Default(),
		tokenCache: cache.New[uint64, map[string]token.Token](tokenListTTL),
	}
}

// GetQuote fetches an aggregated quote, retrying transient failures.
func (s *SwapService) GetQuote(ctx context.Context, chainID uint64, src, dst, amount string) (*domain.Quote, error) {
	quote, err := retry.DoValue(ctx, s.readPolicy, func(ctx context.Context) (*domain.Quote, error) {
		return s.api.Quote(ctx, chainID, src, dst, amount)
	})
	if err != nil {
		s.logger.Warn(ctx, "quote fetch failed", "chain_id", chainID, "src", src, "dst", dst, "error", err)
		return nil, apperror.New(apperror.CodeQuoteUnavailable,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("chain %d %s -> %s", chainID, src, dst)))
	}
	return quote, nil
}

// GetSwapTransaction builds the ready-to-sign swap transaction. Not retried.
func (s *SwapService) GetSwapTransaction(ctx context.Context, chainID uint64, src, dst, amount, from string, slippage float64) (*domain.SwapResult, error) {
	result, err := s.api.Swap(ctx, chainID, src, dst, amount, from, slippage)
	if err != nil {
		return nil, apperror.New(apperror.CodeQuoteUnavailable,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("swap tx for chain %d", chainID)))
	}
	return result, nil
}

// GetAllowance reads the current router allowance, retrying transient failures.
func (s *SwapService) GetAllowance(ctx context.Context, chainID uint64, tokenAddress, walletAddress string) (*domain.Allowance, error) {
	allowance, err := retry.DoValue(ctx, s.readPolicy, func(ctx context.Context) (*domain.Allowance, error) {
		return s.api.Allowance(ctx, chainID, tokenAddress, walletAddress)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeAggregatorAPIError,
			fmt.Sprintf("allowance read for %s on chain %d", tokenAddress, chainID))
	}
	return allowance, nil
}

// GetApprovalTransaction builds the approval calldata. Not retried.
func (s *SwapService) GetApprovalTransaction(ctx context.Context, chainID uint64, tokenAddress, amount string) (*domain.ApprovalTransaction, error) {
	approval, err := s.api.ApprovalTransaction(ctx, chainID, tokenAddress, amount)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeAggregatorAPIError,
			fmt.Sprintf("approval tx for %s on chain %d", tokenAddress, chainID))
	}
	return approval, nil
}

// GetTokens returns the tradable token list for a chain, cached for 5 minutes.
func (s *SwapService) GetTokens(ctx context.Context, chainID uint64) (map[string]token.Token, error) {
	if tokens, ok := s.tokenCache.Get(chainID); ok {
		return tokens, nil
	}

	tokens, err := retry.DoValue(ctx, s.readPolicy, func(ctx context.Context) (map[string]token.Token, error) {
		return s.api.Tokens(ctx, chainID)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeAggregatorAPIError,
			fmt.Sprintf("token list for chain %d", chainID))
	}

	s.tokenCache.Set(chainID, tokens)
	return tokens, nil
}

// GetPrices returns spot prices for the given token addresses.
func (s *SwapService) GetPrices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error) {
	if currency == "" {
		currency = "USD"
	}
	prices, err := retry.DoValue(ctx, s.readPolicy, func(ctx context.Context) (map[string]string, error) {
		return s.api.Prices(ctx, chainID, addresses, currency)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeAggregatorAPIError,
			fmt.Sprintf("prices for chain %d", chainID))
	}
	return prices, nil
}

// CreateLimitOrder places a resting limit order. Not retried.
func (s *SwapService) CreateLimitOrder(ctx context.Context, chainID uint64, req domain.LimitOrderRequest) (json.RawMessage, error) {
	result, err := s.api.CreateLimitOrder(ctx, chainID, req)
	if err != nil {
		return nil, apperror.New(apperror.CodeOrderSubmissionFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("limit order on chain %d", chainID)))
	}
	return result, nil
}

// GetLimitOrders lists resting limit orders matching the filter.
func (s *SwapService) GetLimitOrders(ctx context.Context, chainID uint64, filter domain.LimitOrderFilter) (json.RawMessage, error) {
	orders, err := retry.DoValue(ctx, s.readPolicy, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.LimitOrders(ctx, chainID, filter)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeAggregatorAPIError,
			fmt.Sprintf("limit orders for chain %d", chainID))
	}
	return orders, nil
}
