package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	routerapp "github.com/nvidaurre/swaprouter/business/router/app"
	routerdomain "github.com/nvidaurre/swaprouter/business/router/domain"
	signingdomain "github.com/nvidaurre/swaprouter/business/signing/domain"
	swapdomain "github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

type fakeSwapAPI struct {
	quote      *swapdomain.Quote
	quoteErr   error
	quoteCalls int
}

func (f *fakeSwapAPI) GetQuote(ctx context.Context, chainID uint64, src, dst, amount string) (*swapdomain.Quote, error) {
	f.quoteCalls++
	return f.quote, f.quoteErr
}

func (f *fakeSwapAPI) GetSwapTransaction(ctx context.Context, chainID uint64, src, dst, amount, from string, slippage float64) (*swapdomain.SwapResult, error) {
	return &swapdomain.SwapResult{}, nil
}

func (f *fakeSwapAPI) GetAllowance(ctx context.Context, chainID uint64, tokenAddress, walletAddress string) (*swapdomain.Allowance, error) {
	return &swapdomain.Allowance{Allowance: "0"}, nil
}

func (f *fakeSwapAPI) GetApprovalTransaction(ctx context.Context, chainID uint64, tokenAddress, amount string) (*swapdomain.ApprovalTransaction, error) {
	return &swapdomain.ApprovalTransaction{}, nil
}

func (f *fakeSwapAPI) GetTokens(ctx context.Context, chainID uint64) (map[string]token.Token, error) {
	return map[string]token.Token{}, nil
}

func (f *fakeSwapAPI) GetPrices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeSwapAPI) CreateLimitOrder(ctx context.Context, chainID uint64, req swapdomain.LimitOrderRequest) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (f *fakeSwapAPI) GetLimitOrders(ctx context.Context, chainID uint64, filter swapdomain.LimitOrderFilter) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

type fakeIntentAPI struct {
	submitErr error
}

func (f *fakeIntentAPI) GetQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error) {
	return &intentdomain.Quote{QuoteID: "q-1", DstAmount: "100"}, nil
}

func (f *fakeIntentAPI) GetCrossChainQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error) {
	return &intentdomain.Quote{QuoteID: "q-1", IsCrossChain: true}, nil
}

func (f *fakeIntentAPI) CreateOrder(ctx context.Context, params intentdomain.OrderParams) (*intentdomain.CreateOrderResult, error) {
	return &intentdomain.CreateOrderResult{QuoteID: "q-1"}, nil
}

func (f *fakeIntentAPI) SubmitSignedOrder(ctx context.Context, raw json.RawMessage, signature, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &intentdomain.SubmitResult{OrderHash: "0xhash", Status: "submitted"}, nil
}

func (f *fakeIntentAPI) GetOrderStatus(ctx context.Context, orderHash string, chainID uint64) (*intentdomain.OrderStatus, error) {
	return &intentdomain.OrderStatus{Status: "pending", OrderHash: orderHash}, nil
}

type fakeSigningAPI struct{}

func (f *fakeSigningAPI) Flatten(raw json.RawMessage) (signingdomain.FlatOrder, error) {
	return signingdomain.FlatOrder{Salt: "1"}, nil
}

func (f *fakeSigningAPI) RequestSignature(ctx context.Context, order signingdomain.FlatOrder, chainID uint64) (string, error) {
	return "0xsignature", nil
}

func (f *fakeSigningAPI) SignAndSubmit(ctx context.Context, raw json.RawMessage, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error) {
	return &intentdomain.SubmitResult{OrderHash: "0xhash"}, nil
}

type fakeRouterAPI struct{}

func (f *fakeRouterAPI) CompareRoutes(ctx context.Context, req routerapp.RouteRequest) []routerdomain.Route {
	return []routerdomain.Route{{Protocol: routerdomain.ProtocolClassic, DstAmount: "100", Recommended: true}}
}

func testServer(swap SwapAPI, intent IntentAPI) http.Handler {
	s := &Server{
		services: Services{
			Swap:    swap,
			Intent:  intent,
			Signing: &fakeSigningAPI{},
			Router:  &fakeRouterAPI{},
		},
		logger: logger.Discard(),
	}
	return s.routes()
}

func TestQuotePassThrough(t *testing.T) {
	handler := testServer(&fakeSwapAPI{quote: &swapdomain.Quote{DstAmount: "3000000000", Gas: 210000}}, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/quote?src=0xaaa&dst=0xbbb&amount=1000&chainId=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body swapdomain.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.DstAmount != "3000000000" {
		t.Errorf("dstAmount = %q, want pass-through value", body.DstAmount)
	}
}

func TestQuoteMissingParams(t *testing.T) {
	handler := testServer(&fakeSwapAPI{}, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quote?src=0xaaa", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body should carry a message")
	}
}

func TestQuoteRejectsMalformedChainID(t *testing.T) {
	swap := &fakeSwapAPI{quote: &swapdomain.Quote{DstAmount: "100"}}
	handler := testServer(swap, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/quote?src=0xaaa&dst=0xbbb&amount=1000&chainId=not-a-number", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["code"] != string(apperror.CodeInvalidInput) {
		t.Errorf("code = %q, want %s", body["code"], apperror.CodeInvalidInput)
	}
	if swap.quoteCalls != 0 {
		t.Errorf("service called %d times for a malformed chain id, want 0", swap.quoteCalls)
	}
}

func TestRoutesRejectsMalformedDstChainID(t *testing.T) {
	handler := testServer(&fakeSwapAPI{}, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/routes?src=0xaaa&dst=0xbbb&amount=1000&dstChainId=bogus", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestQuoteServiceErrorStatus(t *testing.T) {
	swap := &fakeSwapAPI{quoteErr: apperror.New(apperror.CodeQuoteUnavailable, apperror.WithStatusCode(http.StatusBadGateway))}
	handler := testServer(swap, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/quote?src=0xaaa&dst=0xbbb&amount=1000", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["code"] != string(apperror.CodeQuoteUnavailable) {
		t.Errorf("code = %q, want %s", body["code"], apperror.CodeQuoteUnavailable)
	}
}

func TestQuoteUnclassifiedErrorHidden(t *testing.T) {
	swap := &fakeSwapAPI{quoteErr: fmt.Errorf("dial tcp 10.0.0.1:443: i/o timeout")}
	handler := testServer(swap, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/quote?src=0xaaa&dst=0xbbb&amount=1000", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "dial tcp") {
		t.Error("raw transport error leaked to the client")
	}
}

func TestSubmitSignedRequiresSignature(t *testing.T) {
	handler := testServer(&fakeSwapAPI{}, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/fusion/submit-signed", strings.NewReader(`{"order": {}, "quoteId": "q-1"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitSignedHappyPath(t *testing.T) {
	handler := testServer(&fakeSwapAPI{}, &fakeIntentAPI{})

	body := `{"order": {"salt": "1"}, "signature": "0xsig", "quoteId": "q-1", "chainId": 1}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/fusion/submit-signed", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result intentdomain.SubmitResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if result.OrderHash != "0xhash" {
		t.Errorf("orderHash = %q, want relayer hash", result.OrderHash)
	}
}

func TestRoutesEndpoint(t *testing.T) {
	handler := testServer(&fakeSwapAPI{}, &fakeIntentAPI{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/routes?src=0xaaa&dst=0xbbb&amount=1000", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Routes []routerdomain.Route `json:"routes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Routes) != 1 || !body.Routes[0].Recommended {
		t.Errorf("routes = %+v, want one recommended route", body.Routes)
	}
}
