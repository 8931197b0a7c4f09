package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	routerapp "github.com/nvidaurre/swaprouter/business/router/app"
	swapdomain "github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/token"
)

func chainParam(r *http.Request) (uint64, error) {
	return chainIDQuery(r, "chainId", token.ChainIDEthereum)
}

func chainIDQuery(r *http.Request, name string, fallback uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.Validation(apperror.CodeInvalidInput, "malformed "+name+" query parameter")
	}
	return id, nil
}

func requireParams(r *http.Request, names ...string) error {
	for _, name := range names {
		if r.URL.Query().Get(name) == "" {
			return apperror.Validation(apperror.CodeRequiredField, "missing query parameter "+name)
		}
	}
	return nil
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "src", "dst", "amount"); err != nil {
		s.writeError(w, r, err)
		return
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	quote, err := s.services.Swap.GetQuote(r.Context(), chainID, q.Get("src"), q.Get("dst"), q.Get("amount"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "src", "dst", "amount", "from"); err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	slippage := 1.0
	if raw := q.Get("slippage"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			slippage = parsed
		}
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.services.Swap.GetSwapTransaction(r.Context(), chainID,
		q.Get("src"), q.Get("dst"), q.Get("amount"), q.Get("from"), slippage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "token", "wallet"); err != nil {
		s.writeError(w, r, err)
		return
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	allowance, err := s.services.Swap.GetAllowance(r.Context(), chainID, q.Get("token"), q.Get("wallet"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, allowance)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "token"); err != nil {
		s.writeError(w, r, err)
		return
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	tx, err := s.services.Swap.GetApprovalTransaction(r.Context(), chainID, q.Get("token"), q.Get("amount"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tokens, err := s.services.Swap.GetTokens(r.Context(), chainID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "addresses"); err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prices, err := s.services.Swap.GetPrices(r.Context(), chainID,
		strings.Split(q.Get("addresses"), ","), q.Get("currency"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, prices)
}

func (s *Server) handleCreateLimitOrder(w http.ResponseWriter, r *http.Request) {
	var req swapdomain.LimitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "malformed request body"))
		return
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw, err := s.services.Swap.CreateLimitOrder(r.Context(), chainID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, raw)
}

func (s *Server) handleLimitOrders(w http.ResponseWriter, r *http.Request) {
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	raw, err := s.services.Swap.GetLimitOrders(r.Context(), chainID, swapdomain.LimitOrderFilter{
		Maker:    q.Get("maker"),
		Statuses: q.Get("statuses"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, raw)
}

func intentQuoteParams(r *http.Request) (intentdomain.QuoteParams, error) {
	srcChainID, err := chainParam(r)
	if err != nil {
		return intentdomain.QuoteParams{}, err
	}
	dstChainID, err := chainIDQuery(r, "dstChainId", 0)
	if err != nil {
		return intentdomain.QuoteParams{}, err
	}

	q := r.URL.Query()
	return intentdomain.QuoteParams{
		FromTokenAddress: q.Get("src"),
		ToTokenAddress:   q.Get("dst"),
		Amount:           q.Get("amount"),
		WalletAddress:    q.Get("wallet"),
		SrcChainID:       srcChainID,
		DstChainID:       dstChainID,
	}, nil
}

func (s *Server) handleIntentQuote(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "src", "dst", "amount", "wallet"); err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := intentQuoteParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	quote, err := s.services.Intent.GetQuote(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleCrossChainQuote(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "src", "dst", "amount", "wallet", "dstChainId"); err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := intentQuoteParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	quote, err := s.services.Intent.GetCrossChainQuote(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

type createOrderRequest struct {
	Src           string `json:"src"`
	Dst           string `json:"dst"`
	Amount        string `json:"amount"`
	WalletAddress string `json:"walletAddress"`
	Receiver      string `json:"receiver"`
	Permit        string `json:"permit"`
	ChainID       uint64 `json:"chainId"`
	DstChainID    uint64 `json:"dstChainId"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "malformed request body"))
		return
	}

	result, err := s.services.Intent.CreateOrder(r.Context(), intentdomain.OrderParams{
		QuoteParams: intentdomain.QuoteParams{
			FromTokenAddress: req.Src,
			ToTokenAddress:   req.Dst,
			Amount:           req.Amount,
			WalletAddress:    req.WalletAddress,
			SrcChainID:       req.ChainID,
			DstChainID:       req.DstChainID,
		},
		Receiver: req.Receiver,
		Permit:   req.Permit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

type submitSignedRequest struct {
	Order     json.RawMessage `json:"order"`
	Signature string          `json:"signature"`
	QuoteID   string          `json:"quoteId"`
	ChainID   uint64          `json:"chainId"`
}

func (s *Server) handleSubmitSigned(w http.ResponseWriter, r *http.Request) {
	var req submitSignedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "malformed request body"))
		return
	}
	if req.Signature == "" || req.QuoteID == "" {
		s.writeError(w, r, apperror.Validation(apperror.CodeRequiredField, "signature and quoteId are required"))
		return
	}

	result, err := s.services.Intent.SubmitSignedOrder(r.Context(), req.Order, req.Signature, req.QuoteID, req.ChainID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "orderHash"); err != nil {
		s.writeError(w, r, err)
		return
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.services.Intent.GetOrderStatus(r.Context(), r.URL.Query().Get("orderHash"), chainID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

type signRequest struct {
	Order   json.RawMessage `json:"order"`
	QuoteID string          `json:"quoteId"`
	ChainID uint64          `json:"chainId"`
	Submit  bool            `json:"submit"`
}

// handleSign flattens and signs an order. With submit=true the signed order
// is forwarded to the relayer in the same call.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "malformed request body"))
		return
	}

	if req.Submit {
		result, err := s.services.Signing.SignAndSubmit(r.Context(), req.Order, req.QuoteID, req.ChainID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
		return
	}

	flat, err := s.services.Signing.Flatten(req.Order)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	signature, err := s.services.Signing.RequestSignature(r.Context(), flat, req.ChainID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"signature": signature})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "src", "dst", "amount"); err != nil {
		s.writeError(w, r, err)
		return
	}
	srcChainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dstChainID, err := chainIDQuery(r, "dstChainId", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	req := routerapp.RouteRequest{
		SrcToken:      q.Get("src"),
		DstToken:      q.Get("dst"),
		Amount:        q.Get("amount"),
		WalletAddress: q.Get("wallet"),
		SrcChainID:    srcChainID,
		DstChainID:    dstChainID,
	}

	routes := s.services.Router.CompareRoutes(r.Context(), req)
	s.writeJSON(w, http.StatusOK, map[string]any{"routes": routes})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := requireParams(r, "wallet", "tokens"); err != nil {
		s.writeError(w, r, err)
		return
	}
	chainID, err := chainParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	portfolio, err := s.services.Portfolio.GetPortfolio(r.Context(), chainID,
		q.Get("wallet"), strings.Split(q.Get("tokens"), ","), q.Get("currency"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, portfolio)
}
