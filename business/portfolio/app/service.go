package app

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nvidaurre/swaprouter/business/portfolio/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

// PortfolioService assembles a wallet's holdings from on-chain balance
// reads and aggregator price data. Individual balance or price failures
// degrade the view instead of failing it.
type PortfolioService struct {
	chains ChainReader
	prices PriceSource
	logger logger.LoggerInterface
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(chains ChainReader, prices PriceSource, log logger.LoggerInterface) *PortfolioService {
	return &PortfolioService{
		chains: chains,
		prices: prices,
		logger: log,
	}
}

// GetPortfolio reads balances for the given token addresses concurrently
// and prices the non-zero positions. The native sentinel address reads the
// chain's native balance. Zero balances are omitted.
func (s *PortfolioService) GetPortfolio(ctx context.Context, chainID uint64, holder string, tokenAddresses []string, currency string) (*domain.Portfolio, error) {
	if holder == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "wallet address is required")
	}
	if chainID == 0 {
		chainID = token.ChainIDEthereum
	}
	if currency == "" {
		currency = "USD"
	}

	known, err := s.prices.GetTokens(ctx, chainID)
	if err != nil {
		s.logger.Warn(ctx, "token metadata unavailable, symbols will be incomplete", "chain_id", chainID, "error", err)
		known = map[string]token.Token{}
	}

	type position struct {
		addr    string
		balance *big.Int
	}

	var mu sync.Mutex
	var positions []position

	var wg sync.WaitGroup
	for _, addr := range tokenAddresses {
		wg.Add(1)
		go func(addr string) {
			defer wg.Done()

			var balance *big.Int
			var err error
			if token.IsNativeAddress(addr) {
				balance, err = s.chains.NativeBalance(ctx, chainID, holder)
			} else {
				balance, err = s.chains.TokenBalance(ctx, chainID, addr, holder)
			}
			if err != nil {
				s.logger.Debug(ctx, "balance read omitted from portfolio",
					"chain_id", chainID, "token", addr, "error", err)
				return
			}
			if balance == nil || balance.Sign() == 0 {
				return
			}

			mu.Lock()
			positions = append(positions, position{addr: strings.ToLower(addr), balance: balance})
			mu.Unlock()
		}(addr)
	}
	wg.Wait()

	sort.Slice(positions, func(i, j int) bool { return positions[i].addr < positions[j].addr })

	addrs := make([]string, len(positions))
	for i, p := range positions {
		addrs[i] = p.addr
	}

	priceByAddr := map[string]string{}
	if len(addrs) > 0 {
		priceByAddr, err = s.prices.GetPrices(ctx, chainID, addrs, currency)
		if err != nil {
			s.logger.Warn(ctx, "prices unavailable, returning balances only", "chain_id", chainID, "error", err)
			priceByAddr = map[string]string{}
		}
	}

	portfolio := &domain.Portfolio{
		Address:  strings.ToLower(holder),
		ChainID:  chainID,
		Currency: currency,
		Holdings: make([]domain.Holding, 0, len(positions)),
	}
	for _, p := range positions {
		holding := domain.Holding{
			Token:   s.lookupToken(known, p.addr, chainID),
			Balance: p.balance.String(),
		}
		if price, ok := priceByAddr[p.addr]; ok {
			holding.Price = price
			holding.Value = positionValue(p.balance, holding.Token.Decimals, price)
		}
		portfolio.Holdings = append(portfolio.Holdings, holding)
	}
	return portfolio, nil
}

func (s *PortfolioService) lookupToken(known map[string]token.Token, addr string, chainID uint64) token.Token {
	if t, ok := known[addr]; ok {
		return t
	}
	if token.IsNativeAddress(addr) {
		return token.New(addr, "NATIVE", "Native Asset", 18)
	}
	// Unknown token: assume the common decimal count, flag via empty symbol.
	return token.New(addr, "", "", 18)
}

// positionValue converts a base-unit balance into display currency.
func positionValue(balance *big.Int, decimals int, price string) string {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return ""
	}
	units := decimal.NewFromBigInt(balance, -int32(decimals))
	return units.Mul(p).StringFixed(2)
}
