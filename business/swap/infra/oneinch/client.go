// Package oneinch implements the classic swap aggregator client.
package oneinch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/circuitbreaker"
	"github.com/nvidaurre/swaprouter/internal/httpclient"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/ratelimit"
	"github.com/nvidaurre/swaprouter/internal/token"
)

const (
	swapAPIVersion      = "swap/v6.0"
	tokenAPIVersion     = "token/v1.2"
	priceAPIVersion     = "price/v1.1"
	orderbookAPIVersion = "orderbook/v4.0"
)

// ClientConfig holds the upstream aggregator access configuration.
type ClientConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	RateBurst     int
}

// Client talks to the classic swap aggregator REST API. Calls are rate
// limited and guarded by a circuit breaker shared across endpoints.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[*httpclient.Response]
	logger  logger.LoggerInterface
}

// NewClient creates an aggregator client. A missing API key is tolerated at
// construction; calls will fail upstream with authorization errors.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.APIKey == "" {
		log.Warn(context.Background(), "aggregator API key not set, upstream calls will fail with authorization errors")
	}

	httpClient, err := httpclient.New(
		httpclient.WithProviderName("oneinch"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
			"Accept":        "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating aggregator http client: %w", err)
	}

	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		http:    httpClient,
		limiter: ratelimit.PerSecond(rps, burst),
		breaker: circuitbreaker.New[*httpclient.Response](circuitbreaker.DefaultConfig("oneinch")),
		logger:  log,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (*httpclient.Response, error) {
		return c.http.NewRequest().
			SetQueryParams(params).
			SetResult(result).
			SetErrorHandler(aggregatorErrorHandler).
			Get(ctx, path)
	})
	return err
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (*httpclient.Response, error) {
		return c.http.NewRequest().
			SetBody(body).
			SetResult(result).
			SetErrorHandler(aggregatorErrorHandler).
			Post(ctx, path)
	})
	return err
}

// Quote fetches an aggregated quote with token info and venue breakdown.
func (c *Client) Quote(ctx context.Context, chainID uint64, src, dst, amount string) (*domain.Quote, error) {
	var quote domain.Quote
	err := c.get(ctx, fmt.Sprintf("%s/%d/quote", swapAPIVersion, chainID), map[string]string{
		"src":               src,
		"dst":               dst,
		"amount":            amount,
		"includeTokensInfo": "true",
		"includeProtocols":  "true",
		"includeGas":        "true",
	}, &quote)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Swap fetches the quote plus a ready-to-sign transaction.
func (c *Client) Swap(ctx context.Context, chainID uint64, src, dst, amount, from string, slippage float64) (*domain.SwapResult, error) {
	var result domain.SwapResult
	err := c.get(ctx, fmt.Sprintf("%s/%d/swap", swapAPIVersion, chainID), map[string]string{
		"src":      src,
		"dst":      dst,
		"amount":   amount,
		"from":     from,
		"origin":   from,
		"slippage": strconv.FormatFloat(slippage, 'f', -1, 64),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Allowance reads the allowance granted to the aggregation router.
func (c *Client) Allowance(ctx context.Context, chainID uint64, tokenAddress, walletAddress string) (*domain.Allowance, error) {
	var allowance domain.Allowance
	err := c.get(ctx, fmt.Sprintf("%s/%d/approve/allowance", swapAPIVersion, chainID), map[string]string{
		"tokenAddress":  tokenAddress,
		"walletAddress": walletAddress,
	}, &allowance)
	if err != nil {
		return nil, err
	}
	return &allowance, nil
}

// ApprovalTransaction builds the approval calldata. Empty amount means
// unlimited approval.
func (c *Client) ApprovalTransaction(ctx context.Context, chainID uint64, tokenAddress, amount string) (*domain.ApprovalTransaction, error) {
	params := map[string]string{"tokenAddress": tokenAddress}
	if amount != "" {
		params["amount"] = amount
	}

	var approval domain.ApprovalTransaction
	err := c.get(ctx, fmt.Sprintf("%s/%d/approve/transaction", swapAPIVersion, chainID), params, &approval)
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

// Tokens fetches the tradable token list for a chain.
func (c *Client) Tokens(ctx context.Context, chainID uint64) (map[string]token.Token, error) {
	var response struct {
		Tokens map[string]struct {
			Address  string `json:"address"`
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Decimals int    `json:"decimals"`
		} `json:"tokens"`
	}
	err := c.get(ctx, fmt.Sprintf("%s/%d", tokenAPIVersion, chainID), nil, &response)
	if err != nil {
		return nil, err
	}

	tokens := make(map[string]token.Token, len(response.Tokens))
	for addr, t := range response.Tokens {
		tokens[strings.ToLower(addr)] = token.New(t.Address, t.Symbol, t.Name, t.Decimals)
	}
	return tokens, nil
}

// Prices fetches spot prices for the given addresses in the given currency.
func (c *Client) Prices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error) {
	prices := make(map[string]string)
	path := fmt.Sprintf("%s/%d/%s", priceAPIVersion, chainID, strings.Join(addresses, ","))
	err := c.get(ctx, path, map[string]string{"currency": currency}, &prices)
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// CreateLimitOrder places a resting limit order on the orderbook.
func (c *Client) CreateLimitOrder(ctx context.Context, chainID uint64, req domain.LimitOrderRequest) (json.RawMessage, error) {
	var result json.RawMessage
	err := c.post(ctx, fmt.Sprintf("%s/%d", orderbookAPIVersion, chainID), req, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LimitOrders lists resting limit orders matching the filter.
func (c *Client) LimitOrders(ctx context.Context, chainID uint64, filter domain.LimitOrderFilter) (json.RawMessage, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if filter.Statuses != "" {
		params["statuses"] = filter.Statuses
	}
	if filter.MakerAsset != "" {
		params["makerAsset"] = filter.MakerAsset
	}
	if filter.TakerAsset != "" {
		params["takerAsset"] = filter.TakerAsset
	}
	if filter.Maker != "" {
		params["maker"] = filter.Maker
	}

	var result json.RawMessage
	err := c.get(ctx, fmt.Sprintf("%s/%d/all", orderbookAPIVersion, chainID), params, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// aggregatorErrorHandler maps upstream error bodies into the error taxonomy,
// preserving the upstream description when present.
func aggregatorErrorHandler(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}

	var apiErr struct {
		Error       string `json:"error"`
		Description string `json:"description"`
	}
	detail := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		detail = apiErr.Description
		if detail == "" {
			detail = apiErr.Error
		}
	}
	if detail == "" {
		detail = string(body)
	}

	return apperror.New(apperror.CodeAggregatorAPIError,
		apperror.WithStatusCode(statusCode),
		apperror.WithContext(fmt.Sprintf("HTTP %d: %s", statusCode, detail)))
}
