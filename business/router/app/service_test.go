package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/business/router/domain"
	swapdomain "github.com/nvidaurre/swaprouter/business/swap/domain"
	"github.com/nvidaurre/swaprouter/internal/logger"
)

type fakeClassic struct {
	quote *swapdomain.Quote
	err   error
}

func (f *fakeClassic) GetQuote(ctx context.Context, chainID uint64, src, dst, amount string) (*swapdomain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeIntent struct {
	quote    *intentdomain.Quote
	err      error
	crossErr error
}

func (f *fakeIntent) GetQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func (f *fakeIntent) GetCrossChainQuote(ctx context.Context, params intentdomain.QuoteParams) (*intentdomain.Quote, error) {
	if f.crossErr != nil {
		return nil, f.crossErr
	}
	return f.quote, nil
}

func sameChainRequest() RouteRequest {
	return RouteRequest{
		SrcToken:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		DstToken:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		Amount:     "1000000000000000000",
		SrcChainID: 1,
	}
}

func TestCompareRoutesRanksByDstAmount(t *testing.T) {
	classic := &fakeClassic{quote: &swapdomain.Quote{DstAmount: "3010000000", Gas: 210000}}
	intent := &fakeIntent{quote: &intentdomain.Quote{DstAmount: "3000000000"}}
	svc := NewRouterService(classic, intent, decimal.NewFromFloat(1.25), logger.Discard())

	routes := svc.CompareRoutes(context.Background(), sameChainRequest())
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}

	if routes[0].Protocol != domain.ProtocolClassic {
		t.Errorf("top route = %s, want classic with the larger amount", routes[0].Protocol)
	}
	if !routes[0].Recommended {
		t.Error("top route should carry the recommendation")
	}
	if routes[1].Recommended {
		t.Error("only one route may be recommended")
	}

	wantGas := decimal.NewFromInt(210000).Mul(decimal.NewFromFloat(1.25))
	if !routes[0].GasCost.Equal(wantGas) {
		t.Errorf("classic gas cost = %s, want %s", routes[0].GasCost, wantGas)
	}
	if !routes[1].Gasless || !routes[1].MEVProtected {
		t.Error("intent route should be gasless and MEV-protected")
	}
	if routes[0].Gasless || routes[0].MEVProtected {
		t.Error("classic route should be neither gasless nor MEV-protected")
	}
}

func TestCompareRoutesGaslessWinsExactTie(t *testing.T) {
	classic := &fakeClassic{quote: &swapdomain.Quote{DstAmount: "3000000000", Gas: 210000}}
	intent := &fakeIntent{quote: &intentdomain.Quote{DstAmount: "3000000000"}}
	svc := NewRouterService(classic, intent, decimal.New(1, 0), logger.Discard())

	routes := svc.CompareRoutes(context.Background(), sameChainRequest())
	if len(routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(routes))
	}
	if routes[0].Protocol != domain.ProtocolIntent {
		t.Errorf("top route = %s, want intent on an exact amount tie", routes[0].Protocol)
	}
}

func TestCompareRoutesAbsorbsPartialFailure(t *testing.T) {
	classic := &fakeClassic{err: fmt.Errorf("upstream 502")}
	intent := &fakeIntent{quote: &intentdomain.Quote{DstAmount: "3000000000"}}
	svc := NewRouterService(classic, intent, decimal.New(1, 0), logger.Discard())

	routes := svc.CompareRoutes(context.Background(), sameChainRequest())
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1 surviving route", len(routes))
	}
	if routes[0].Protocol != domain.ProtocolIntent {
		t.Errorf("surviving route = %s, want intent", routes[0].Protocol)
	}
	if !routes[0].Recommended {
		t.Error("sole surviving route should be recommended")
	}
}

func TestCompareRoutesAllSourcesFail(t *testing.T) {
	classic := &fakeClassic{err: fmt.Errorf("upstream 502")}
	intent := &fakeIntent{err: fmt.Errorf("quoter offline")}
	svc := NewRouterService(classic, intent, decimal.New(1, 0), logger.Discard())

	routes := svc.CompareRoutes(context.Background(), sameChainRequest())
	if routes == nil {
		t.Fatal("route set should be empty, not nil")
	}
	if len(routes) != 0 {
		t.Fatalf("got %d routes, want 0", len(routes))
	}
}

func TestCompareRoutesCrossChainPathOnly(t *testing.T) {
	classic := &fakeClassic{quote: &swapdomain.Quote{DstAmount: "9999999999", Gas: 210000}}
	intent := &fakeIntent{quote: &intentdomain.Quote{DstAmount: "3000000000", IsCrossChain: true}}
	svc := NewRouterService(classic, intent, decimal.New(1, 0), logger.Discard())

	req := sameChainRequest()
	req.DstChainID = 8453
	routes := svc.CompareRoutes(context.Background(), req)
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want only the cross-chain route", len(routes))
	}
	if routes[0].Protocol != domain.ProtocolIntentCrossChain {
		t.Errorf("route = %s, want intent-cross-chain", routes[0].Protocol)
	}
	if !routes[0].CrossChain {
		t.Error("route should be flagged cross-chain")
	}
	if routes[0].Estimate != domain.EstimateCrossChain {
		t.Errorf("estimate = %s, want %s", routes[0].Estimate, domain.EstimateCrossChain)
	}
}
