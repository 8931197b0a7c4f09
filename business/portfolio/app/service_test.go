package app

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

const (
	holderAddr = "0x1111111111111111111111111111111111111111"
	usdcAddr   = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	wethAddr   = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
)

type fakeChainReader struct {
	native    *big.Int
	nativeErr error
	balances  map[string]*big.Int
	errs      map[string]error
}

func (f *fakeChainReader) NativeBalance(ctx context.Context, chainID uint64, holder string) (*big.Int, error) {
	return f.native, f.nativeErr
}

func (f *fakeChainReader) TokenBalance(ctx context.Context, chainID uint64, tokenAddress, holder string) (*big.Int, error) {
	if err := f.errs[tokenAddress]; err != nil {
		return nil, err
	}
	return f.balances[tokenAddress], nil
}

type fakePriceSource struct {
	tokens map[string]token.Token
	prices map[string]string
}

func (f *fakePriceSource) GetTokens(ctx context.Context, chainID uint64) (map[string]token.Token, error) {
	return f.tokens, nil
}

func (f *fakePriceSource) GetPrices(ctx context.Context, chainID uint64, addresses []string, currency string) (map[string]string, error) {
	return f.prices, nil
}

func TestGetPortfolioPricesNonZeroPositions(t *testing.T) {
	reader := &fakeChainReader{
		native: big.NewInt(2000000000000000000),
		balances: map[string]*big.Int{
			usdcAddr: big.NewInt(150000000),
			wethAddr: big.NewInt(0),
		},
	}
	prices := &fakePriceSource{
		tokens: map[string]token.Token{
			usdcAddr:            token.New(usdcAddr, "USDC", "USD Coin", 6),
			token.NativeAddress: token.New(token.NativeAddress, "ETH", "Ether", 18),
		},
		prices: map[string]string{
			usdcAddr:            "1.00",
			token.NativeAddress: "3000",
		},
	}
	svc := NewPortfolioService(reader, prices, logger.Discard())

	portfolio, err := svc.GetPortfolio(context.Background(), 1,
		holderAddr, []string{token.NativeAddress, usdcAddr, wethAddr}, "USD")
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}

	if len(portfolio.Holdings) != 2 {
		t.Fatalf("got %d holdings, want 2 (zero balance omitted)", len(portfolio.Holdings))
	}

	byAddr := map[string]string{}
	for _, h := range portfolio.Holdings {
		byAddr[h.Token.Address] = h.Value
	}
	if got := byAddr[usdcAddr]; got != "150.00" {
		t.Errorf("usdc value = %q, want 150.00", got)
	}
	if got := byAddr[token.NativeAddress]; got != "6000.00" {
		t.Errorf("native value = %q, want 6000.00", got)
	}
}

func TestGetPortfolioAbsorbsBalanceFailures(t *testing.T) {
	reader := &fakeChainReader{
		nativeErr: fmt.Errorf("node unreachable"),
		balances:  map[string]*big.Int{usdcAddr: big.NewInt(150000000)},
	}
	prices := &fakePriceSource{
		tokens: map[string]token.Token{usdcAddr: token.New(usdcAddr, "USDC", "USD Coin", 6)},
		prices: map[string]string{usdcAddr: "1.00"},
	}
	svc := NewPortfolioService(reader, prices, logger.Discard())

	portfolio, err := svc.GetPortfolio(context.Background(), 1,
		holderAddr, []string{token.NativeAddress, usdcAddr}, "USD")
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if len(portfolio.Holdings) != 1 {
		t.Fatalf("got %d holdings, want the surviving position only", len(portfolio.Holdings))
	}
	if portfolio.Holdings[0].Token.Symbol != "USDC" {
		t.Errorf("surviving holding = %s, want USDC", portfolio.Holdings[0].Token.Symbol)
	}
}

func TestGetPortfolioRequiresHolder(t *testing.T) {
	svc := NewPortfolioService(&fakeChainReader{}, &fakePriceSource{}, logger.Discard())

	if _, err := svc.GetPortfolio(context.Background(), 1, "", nil, "USD"); err == nil {
		t.Fatal("GetPortfolio should fail without a wallet address")
	}
}
