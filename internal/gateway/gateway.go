// Package gateway exposes the protocol operations over HTTP. It is a thin
// pass-through: handlers parse parameters, call the owning service, and
// return either the service's JSON or an error body with a non-2xx status.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	portfoliodomain "github.com/nvidaurre/swaprouter/business/portfolio/domain"
	routerapp "github.com/nvidaurre/swaprouter/business/router/app"
	routerdomain "github.com/nvidaurre/swaprouter/business/router/domain"
	signingdomain "github.com/nvidaurre/swaprouter/business/signing/domain"
	swapdomain "github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

// SwapAPI is the classic swap surface the gateway exposes.
type SwapAPI interface {
	GetQuote(ctx context.Context, chainID uint64, src, dst, amount string) (*swapdomain.Quote, error)
	GetSwapTransaction(ctx context.Context, chainID uint64, src, dst, amount, from string, slippage float64) (*swapdomain.SwapResult, error)
	GetAllowance(ctx context.Context, chainID uint64, tokenAddress, walletAddress string) (*swapdomain.Allowance, error)
	GetApprovalTransaction(ctx context.Context, chainID uint64, tokenAddress, amount string) (*swapdomain.ApprovalTransaction, error)
	GetTokens(ctx context.Context, chainID uint64) (map[string]token.Token, error)
	GetPrices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error)
	CreateLimitOrder(ctx context.Context, chainID uint64, req swapdomain.LimitOrderRequest) (json.RawMessage, error)
	GetLimitOrders(ctx context.Context, chainID uint64, filter swapdomain.LimitOrderFilter) (json.RawMessage, error)
}

// IntentAPI is the intent order surface the gateway exposes.
type IntentAPI interface {
	GetQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error)
	GetCrossChainQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error)
	CreateOrder(ctx context.Context, params intentdomain.OrderParams) (*intentdomain.CreateOrderResult, error)
	SubmitSignedOrder(ctx context.Context, raw json.RawMessage, signature, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error)
	GetOrderStatus(ctx context.Context, orderHash string, chainID uint64) (*intentdomain.OrderStatus, error)
}

// SigningAPI is the signing surface the gateway exposes.
type SigningAPI interface {
	Flatten(raw json.RawMessage) (signingdomain.FlatOrder, error)
	RequestSignature(ctx context.Context, order signingdomain.FlatOrder, chainID uint64) (string, error)
	SignAndSubmit(ctx context.Context, raw json.RawMessage, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error)
}

// RouterAPI is the route comparison surface the gateway exposes.
type RouterAPI interface {
	CompareRoutes(ctx context.Context, req routerapp.RouteRequest) []routerdomain.Route
}

// PortfolioAPI is the portfolio surface the gateway exposes.
type PortfolioAPI interface {
	GetPortfolio(ctx context.Context, chainID uint64, holder string, tokenAddresses []string, currency string) (*portfoliodomain.Portfolio, error)
}

// Services groups everything the gateway serves.
type Services struct {
	Swap      SwapAPI
	Intent    IntentAPI
	Signing   SigningAPI
	Router    RouterAPI
	Portfolio PortfolioAPI
}

// Server is the HTTP gateway.
type Server struct {
	services Services
	logger   logger.LoggerInterface
	server   *http.Server
}

// NewServer creates the gateway on the configured port.
func NewServer(cfg config.ServerConfig, services Services, log logger.LoggerInterface) *Server {
	s := &Server{
		services: services,
		logger:   log,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/quote", s.handleQuote)
	mux.HandleFunc("GET /api/v1/swap", s.handleSwap)
	mux.HandleFunc("GET /api/v1/allowance", s.handleAllowance)
	mux.HandleFunc("GET /api/v1/approve", s.handleApprove)
	mux.HandleFunc("GET /api/v1/tokens", s.handleTokens)
	mux.HandleFunc("GET /api/v1/prices", s.handlePrices)
	mux.HandleFunc("POST /api/v1/orders/limit", s.handleCreateLimitOrder)
	mux.HandleFunc("GET /api/v1/orders/limit", s.handleLimitOrders)

	mux.HandleFunc("GET /api/v1/fusion/quote", s.handleIntentQuote)
	mux.HandleFunc("GET /api/v1/fusion/quote/cross", s.handleCrossChainQuote)
	mux.HandleFunc("POST /api/v1/fusion/order", s.handleCreateOrder)
	mux.HandleFunc("POST /api/v1/fusion/submit-signed", s.handleSubmitSigned)
	mux.HandleFunc("GET /api/v1/fusion/status", s.handleOrderStatus)

	mux.HandleFunc("POST /api/v1/sign", s.handleSign)
	mux.HandleFunc("GET /api/v1/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/v1/portfolio", s.handlePortfolio)

	return mux
}

// Start begins serving. Blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "gateway listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gateway server: %w", err)
	}
	return nil
}

// Stop shuts the gateway down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(context.Background(), "encoding gateway response", "error", err)
	}
}

// writeError maps service errors to the {"error": …} body. Raw transport
// errors never reach the client; anything outside the taxonomy becomes a
// generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status < 400 {
			status = http.StatusInternalServerError
		}
		s.writeJSON(w, status, map[string]string{"error": appErr.Message, "code": string(appErr.Code)})
		return
	}

	s.logger.Error(r.Context(), "unclassified gateway error", "path", r.URL.Path, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
