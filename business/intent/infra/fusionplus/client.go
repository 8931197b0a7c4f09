// Package fusionplus implements the cross-chain intent protocol client. It
// mirrors the same-chain fusion contract with a destination chain added;
// quotes it produces are annotated as cross-chain by the service layer.
package fusionplus

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/business/intent/infra/fusion"
	"github.com/nvidaurre/swaprouter/internal/httpclient"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

const (
	quoterPath    = "fusion-plus/quoter/v1.0/quote/receive"
	relayerPath   = "fusion-plus/relayer/v1.0/submit"
	statusPathFmt = "fusion-plus/orders/v1.0/order/status/%s"
)

var maxSalt = new(big.Int).Lsh(big.NewInt(1), 96)

// ClientConfig holds cross-chain client configuration. ChainID is the
// source chain the instance is bound to.
type ClientConfig struct {
	ChainID uint64
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the cross-chain quoter and relayer.
type Client struct {
	chainID    uint64
	http       httpclient.Client
	logger     logger.LoggerInterface
	settlement common.Address
}

// NewClient creates a cross-chain intent client bound to a source chain.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if !token.ChainSupported(cfg.ChainID) {
		return nil, fmt.Errorf("unsupported source chain %d", cfg.ChainID)
	}

	httpClient, err := httpclient.New(
		httpclient.WithProviderName(fmt.Sprintf("fusionplus-%d", cfg.ChainID)),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
			"Accept":        "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fusion-plus http client: %w", err)
	}

	return &Client{
		chainID:    cfg.ChainID,
		http:       httpClient,
		logger:     log,
		settlement: common.HexToAddress(fusion.SettlementContract),
	}, nil
}

type quoteResponse struct {
	QuoteID  string `json:"quoteId"`
	SrcToken struct {
		Address  string `json:"address"`
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals int    `json:"decimals"`
	} `json:"srcToken"`
	DstToken struct {
		Address  string `json:"address"`
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals int    `json:"decimals"`
	} `json:"dstToken"`
	Presets map[string]struct {
		AuctionDuration    int    `json:"auctionDuration"`
		StartAuctionIn     int    `json:"startAuctionIn"`
		AuctionStartAmount string `json:"auctionStartAmount"`
		AuctionEndAmount   string `json:"auctionEndAmount"`
		AllowPartialFills  bool   `json:"allowPartialFills"`
		AllowMultipleFills bool   `json:"allowMultipleFills"`
	} `json:"presets"`
	RecommendedPreset string `json:"recommendedPreset"`
}

// Quote fetches a cross-chain preset-based quote. DstChainID must differ
// from the source chain the client is bound to.
func (c *Client) Quote(ctx context.Context, params domain.QuoteParams) (*domain.Quote, error) {
	if !token.ChainSupported(params.DstChainID) {
		return nil, fmt.Errorf("unsupported destination chain %d", params.DstChainID)
	}

	var resp quoteResponse
	_, err := c.http.NewRequest().
		SetQueryParams(map[string]string{
			"srcChain":        strconv.FormatUint(c.chainID, 10),
			"dstChain":        strconv.FormatUint(params.DstChainID, 10),
			"srcTokenAddress": params.FromTokenAddress,
			"dstTokenAddress": params.ToTokenAddress,
			"amount":          params.Amount,
			"walletAddress":   params.WalletAddress,
			"enableEstimate":  "true",
		}).
		SetResult(&resp).
		SetErrorHandler(errorHandler).
		Get(ctx, quoterPath)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		QuoteID:           resp.QuoteID,
		SrcToken:          token.New(resp.SrcToken.Address, resp.SrcToken.Symbol, resp.SrcToken.Name, resp.SrcToken.Decimals),
		DstToken:          token.New(resp.DstToken.Address, resp.DstToken.Symbol, resp.DstToken.Name, resp.DstToken.Decimals),
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

// BuildOrder constructs a live cross-chain order from a quote.
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

// Submit sends the order to the cross-chain relayer.
func (c *Client) Submit(ctx context.Context, order *domain.Order, signature, quoteID string) (string, error) {
	var resp struct {
		OrderHash string `json:"orderHash"`
	}
	_, err := c.http.NewRequest().
		SetBody(map[string]any{
			"order":      order,
			"signature":  signature,
			"quoteId":    quoteID,
			"srcChainId": c.chainID,
			"extension":  "0x",
		}).
		SetResult(&resp).
		SetErrorHandler(errorHandler).
		Post(ctx, relayerPath)
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

// OrderStatus reads the lifecycle state of a submitted cross-chain order.
func (c *Client) OrderStatus(ctx context.Context, orderHash string) (*domain.OrderStatus, error) {
	var resp struct {
		Status    string `json:"status"`
		OrderHash string `json:"orderHash"`
		TxHash    string `json:"txHash"`
	}
	_, err := c.http.NewRequest().
		SetResult(&resp).
		SetErrorHandler(errorHandler).
		Get(ctx, fmt.Sprintf(statusPathFmt, orderHash))
	if err != nil {
		return nil, err
	}

	status := &domain.OrderStatus{
		Status:    resp.Status,
		OrderHash: resp.OrderHash,
		TxHash:    resp.TxHash,
	}
	if status.OrderHash == "" {
		status.OrderHash = orderHash
	}
	return status, nil
}

func errorHandler(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	var e struct {
		Description string `json:"description"`
		Message     string `json:"message"`
		Error       string `json:"error"`
	}
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
