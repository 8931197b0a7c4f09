package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

// timeoutErr implements net.Error so the retry policy treats it as transient.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type fakeAggregator struct {
	quoteCalls  int
	quoteErrs   []error
	quoteResult *domain.Quote

	allowanceCalls int
	swapCalls      int
}

func (f *fakeAggregator) Quote(ctx context.Context, chainID uint64, src, dst, amount string) (*domain.Quote, error) {
	f.quoteCalls++
	if f.quoteCalls <= len(f.quoteErrs) {
		return nil, f.quoteErrs[f.quoteCalls-1]
	}
	return f.quoteResult, nil
}

func (f *fakeAggregator) Swap(ctx context.Context, chainID uint64, src, dst, amount, from string, slippage float64) (*domain.SwapResult, error) {
	f.swapCalls++
	return nil, timeoutErr{}
}

func (f *fakeAggregator) Allowance(ctx context.Context, chainID uint64, tokenAddress, walletAddress string) (*domain.Allowance, error) {
	f.allowanceCalls++
	return &domain.Allowance{Allowance: "0"}, nil
}

func (f *fakeAggregator) ApprovalTransaction(ctx context.Context, chainID uint64, tokenAddress, amount string) (*domain.ApprovalTransaction, error) {
	return &domain.ApprovalTransaction{}, nil
}

func (f *fakeAggregator) Tokens(ctx context.Context, chainID uint64) (map[string]token.Token, error) {
	return map[string]token.Token{}, nil
}

func (f *fakeAggregator) Prices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeAggregator) CreateLimitOrder(ctx context.Context, chainID uint64, req domain.LimitOrderRequest) (json.RawMessage, error) {
	return nil, nil
}

func (f *fakeAggregator) LimitOrders(ctx context.Context, chainID uint64, filter domain.LimitOrderFilter) (json.RawMessage, error) {
	return nil, nil
}

func newTestService(api AggregatorAPI) *SwapService {
	return NewSwapService(api, logger.Discard())
}

func TestGetQuote_RetriesTransientThenSucceeds(t *testing.T) {
	fake := &fakeAggregator{
		quoteErrs:   []error{timeoutErr{}, timeoutErr{}},
		quoteResult: &domain.Quote{DstAmount: "1000000"},
	}
	svc := newTestService(fake)

	quote, err := svc.GetQuote(context.Background(), 1, "0xsrc", "0xdst", "1000000000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DstAmount != "1000000" {
		t.Errorf("expected dstAmount 1000000, got %s", quote.DstAmount)
	}
	if fake.quoteCalls != 3 {
		t.Errorf("expected exactly 3 underlying calls, got %d", fake.quoteCalls)
	}
}

func TestGetQuote_ExhaustedRetriesFailsWithQuoteUnavailable(t *testing.T) {
	fake := &fakeAggregator{
		quoteErrs: []error{timeoutErr{}, timeoutErr{}, timeoutErr{}},
	}
	svc := newTestService(fake)

	_, err := svc.GetQuote(context.Background(), 1, "0xsrc", "0xdst", "1")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !apperror.IsCode(err, apperror.CodeQuoteUnavailable) {
		t.Errorf("expected QUOTE_UNAVAILABLE, got %v", err)
	}
	if fake.quoteCalls != 3 {
		t.Errorf("expected exactly 3 underlying calls, got %d", fake.quoteCalls)
	}
}

func TestGetQuote_NonTransientFailsImmediately(t *testing.T) {
	fake := &fakeAggregator{
		quoteErrs: []error{
			apperror.New(apperror.CodeAggregatorAPIError, apperror.WithStatusCode(400)),
			timeoutErr{},
			timeoutErr{},
		},
	}
	svc := newTestService(fake)

	_, err := svc.GetQuote(context.Background(), 1, "0xsrc", "0xdst", "1")
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.quoteCalls != 1 {
		t.Errorf("expected a single underlying call for a 4xx, got %d", fake.quoteCalls)
	}
}

func TestGetSwapTransaction_NotRetried(t *testing.T) {
	fake := &fakeAggregator{}
	svc := newTestService(fake)

	_, err := svc.GetSwapTransaction(context.Background(), 1, "0xsrc", "0xdst", "1", "0xme", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if fake.swapCalls != 1 {
		t.Errorf("expected a single swap call, got %d", fake.swapCalls)
	}
}

func TestGetTokens_CachesResult(t *testing.T) {
	calls := 0
	fake := &countingTokens{fakeAggregator: &fakeAggregator{}, calls: &calls}
	svc := newTestService(fake)

	if _, err := svc.GetTokens(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetTokens(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single upstream call, got %d", calls)
	}
}

type countingTokens struct {
	*fakeAggregator
	calls *int
}

func (c *countingTokens) Tokens(ctx context.Context, chainID uint64) (map[string]token.Token, error) {
	*c.calls++
	return map[string]token.Token{
		"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": token.New("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", "USD Coin", 6),
	}, nil
}
