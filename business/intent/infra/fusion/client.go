// Package fusion implements the same-chain intent protocol client. One
// Client per target chain, bound to that chain's endpoints, read provider,
// and credential.
package fusion

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/internal/httpclient"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

// SettlementContract is the settlement contract orders are bound to.
const SettlementContract = "0x2ad5004c60e16e54d5007c80ce329adde5b51ef5"

const (
	quoterPathFmt  = "fusion/quoter/v1.0/%d/quote/receive"
	relayerPathFmt = "fusion/relayer/v1.0/%d/order/submit"
	statusPathFmt  = "fusion/orders/v1.0/%d/order/status/%s"
)

var maxSalt = new(big.Int).Lsh(big.NewInt(1), 96)

// ClientConfig holds per-chain fusion client configuration.
type ClientConfig struct {
	ChainID uint64
	BaseURL string
	APIKey  string
	RPCURL  string
	Timeout time.Duration
}

// Client talks to the fusion quoter and relayer for one chain. The node
// client is dialed lazily; quotes do not need it.
type Client struct {
	chainID    uint64
	rpcURL     string
	http       httpclient.Client
	logger     logger.LoggerInterface
	settlement common.Address

	ethMu     sync.Mutex
	ethClient *ethclient.Client
}

// NewClient creates a fusion client for one chain.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if !token.ChainSupported(cfg.ChainID) {
		return nil, fmt.Errorf("unsupported chain %d", cfg.ChainID)
	}
	if cfg.APIKey == "" {
		log.Warn(context.Background(), "intent protocol credential not set, calls will fail with authorization errors",
			"chain_id", cfg.ChainID)
	}

	httpClient, err := httpclient.New(
		httpclient.WithProviderName(fmt.Sprintf("fusion-%d", cfg.ChainID)),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
			"Accept":        "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fusion http client: %w", err)
	}

	return &Client{
		chainID:    cfg.ChainID,
		rpcURL:     cfg.RPCURL,
		http:       httpClient,
		logger:     log,
		settlement: common.HexToAddress(SettlementContract),
	}, nil
}

func (c *Client) readProvider() (*ethclient.Client, error) {
	c.ethMu.Lock()
	defer c.ethMu.Unlock()
	if c.ethClient != nil {
		return c.ethClient, nil
	}
	if c.rpcURL == "" {
		return nil, fmt.Errorf("no rpc url configured for chain %d", c.chainID)
	}
	client, err := ethclient.Dial(c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing chain %d: %w", c.chainID, err)
	}
	c.ethClient = client
	return client, nil
}

// Quote fetches a preset-based quote. The destination amount is the
// recommended preset's auction start amount; there is no flat quote figure.
func (c *Client) Quote(ctx context.Context, params domain.QuoteParams) (*domain.Quote, error) {
	var resp quoteResponse
	_, err := c.http.NewRequest().
		SetQueryParams(map[string]string{
			"fromTokenAddress": params.FromTokenAddress,
			"toTokenAddress":   params.ToTokenAddress,
			"amount":           params.Amount,
			"walletAddress":    params.WalletAddress,
			"enableEstimate":   "true",
		}).
		SetResult(&resp).
		SetErrorHandler(fusionErrorHandler).
		Get(ctx, fmt.Sprintf(quoterPathFmt, c.chainID))
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		QuoteID:           resp.QuoteID,
		SrcToken:          token.New(resp.SrcToken.Address, resp.SrcToken.Symbol, resp.SrcToken.Name, resp.SrcToken.Decimals),
		DstToken:          token.New(resp.DstToken.Address, resp.DstToken.Symbol, resp.DstToken.Name, resp.DstToken.Decimals),
		Gas:               resp.Gas,
		Presets:           make(map[string]domain.Preset, len(resp.Presets)),
		RecommendedPreset: resp.RecommendedPreset,
	}
	for name, p := range resp.Presets {
		quote.Presets[name] = domain.Preset{
			AuctionDuration:    p.AuctionDuration,
			StartAuctionIn:     p.StartAuctionIn,
			AuctionStartAmount: p.AuctionStartAmount,
			AuctionEndAmount:   p.AuctionEndAmount,
			AllowPartialFills:  p.AllowPartialFills,
			AllowMultipleFills: p.AllowMultipleFills,
		}
	}

	recommended, ok := quote.Recommended()
	if !ok {
		return nil, fmt.Errorf("quote %s has no preset named %q", resp.QuoteID, resp.RecommendedPreset)
	}
	quote.DstAmount = recommended.AuctionStartAmount
	return quote, nil
}

// BuildOrder constructs a live order from a quote, bound to the settlement
// contract and the recommended preset's auction parameters.
func (c *Client) BuildOrder(ctx context.Context, params domain.OrderParams, quote *domain.Quote) (*domain.Order, error) {
	preset, ok := quote.Recommended()
	if !ok {
		return nil, fmt.Errorf("quote %s has no recommended preset", quote.QuoteID)
	}

	makingAmount, ok := new(big.Int).SetString(params.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid making amount %q", params.Amount)
	}
	takingAmount, ok := new(big.Int).SetString(preset.AuctionStartAmount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid auction start amount %q", preset.AuctionStartAmount)
	}
	endAmount, ok := new(big.Int).SetString(preset.AuctionEndAmount, 10)
	if !ok {
		endAmount = new(big.Int).Set(takingAmount)
	}

	salt, err := rand.Int(rand.Reader, maxSalt)
	if err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	maker := common.HexToAddress(params.WalletAddress)
	receiver := maker
	if params.Receiver != "" {
		receiver = common.HexToAddress(params.Receiver)
	}

	c.checkMakerBalance(ctx, maker)

	return domain.NewOrder(domain.OrderSpec{
		Salt:         salt,
		Maker:        maker,
		Receiver:     receiver,
		MakerAsset:   common.HexToAddress(params.FromTokenAddress),
		TakerAsset:   common.HexToAddress(params.ToTokenAddress),
		MakingAmount: makingAmount,
		TakingAmount: takingAmount,
		Settlement:   c.settlement,
		Auction: domain.AuctionDetails{
			StartAmount: takingAmount,
			EndAmount:   endAmount,
			Duration:    preset.AuctionDuration,
			StartDelay:  preset.StartAuctionIn,
		},
	}, preset.AllowPartialFills, preset.AllowMultipleFills), nil
}

// checkMakerBalance warns when the maker has no gas balance on the chain.
// The order is still buildable; resolvers pay gas, not the maker.
func (c *Client) checkMakerBalance(ctx context.Context, maker common.Address) {
	provider, err := c.readProvider()
	if err != nil {
		c.logger.Debug(ctx, "skipping maker balance check", "chain_id", c.chainID, "error", err)
		return
	}
	balance, err := provider.BalanceAt(ctx, maker, nil)
	if err != nil {
		c.logger.Debug(ctx, "maker balance read failed", "chain_id", c.chainID, "error", err)
		return
	}
	if balance.Sign() == 0 {
		c.logger.Warn(ctx, "maker has zero native balance", "chain_id", c.chainID, "maker", strings.ToLower(maker.Hex()))
	}
}

// Submit sends the order to the relayer. When the relayer acknowledges
// without a hash, the hash is computed locally from the live order.
func (c *Client) Submit(ctx context.Context, order *domain.Order, signature, quoteID string) (string, error) {
	var resp submitResponse
	_, err := c.http.NewRequest().
		SetBody(submitRequest{
			Order:     order,
			Signature: signature,
			QuoteID:   quoteID,
			Extension: "0x",
		}).
		SetResult(&resp).
		SetErrorHandler(fusionErrorHandler).
		Post(ctx, fmt.Sprintf(relayerPathFmt, c.chainID))
	if err != nil {
		return "", err
	}

	if resp.OrderHash != "" {
		return resp.OrderHash, nil
	}
	hash, err := order.Hash(c.chainID)
	if err != nil {
		return "", fmt.Errorf("relayer returned no hash and local hashing failed: %w", err)
	}
	return hash.Hex(), nil
}

// OrderStatus reads the lifecycle state of a submitted order.
func (c *Client) OrderStatus(ctx context.Context, orderHash string) (*domain.OrderStatus, error) {
	var resp statusResponse
	_, err := c.http.NewRequest().
		SetResult(&resp).
		SetErrorHandler(fusionErrorHandler).
		Get(ctx, fmt.Sprintf(statusPathFmt, c.chainID, orderHash))
	if err != nil {
		return nil, err
	}

	status := &domain.OrderStatus{
		Status:          resp.Status,
		OrderHash:       resp.OrderHash,
		TxHash:          resp.TxHash,
		AuctionDuration: resp.AuctionDuration,
	}
	if status.OrderHash == "" {
		status.OrderHash = orderHash
	}
	for _, f := range resp.Fills {
		status.Fills = append(status.Fills, domain.Fill{
			TxHash:                   f.TxHash,
			FilledMakerAmount:        f.FilledMakerAmount,
			FilledAuctionTakerAmount: f.FilledAuctionTakerAmount,
		})
	}
	return status, nil
}

// Close releases the node connection.
func (c *Client) Close() {
	c.ethMu.Lock()
	defer c.ethMu.Unlock()
	if c.ethClient != nil {
		c.ethClient.Close()
		c.ethClient = nil
	}
}

// fusionErrorHandler surfaces the upstream error description when present.
func fusionErrorHandler(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	var e apiError
	detail := ""
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Description != "":
			detail = e.Description
		case e.Message != "":
			detail = e.Message
		default:
			detail = e.Error
		}
	}
	if detail == "" {
		detail = string(body)
	}
	return fmt.Errorf("HTTP %d: %s", statusCode, detail)
}
