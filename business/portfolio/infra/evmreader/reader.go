// Package evmreader reads balances straight from chain nodes.
package evmreader

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/nvidaurre/swaprouter/internal/monolith"
)

// erc20 balanceOf(address) selector.
var balanceOfSelector = common.Hex2Bytes("70a08231")

// Reader implements balance reads over the monolith's shared chain clients.
type Reader struct {
	clients *monolith.ChainClients
}

// New creates a Reader.
func New(clients *monolith.ChainClients) *Reader {
	return &Reader{clients: clients}
}

// NativeBalance reads the holder's native asset balance.
func (r *Reader) NativeBalance(ctx context.Context, chainID uint64, holder string) (*big.Int, error) {
	client, err := r.clients.Client(chainID)
	if err != nil {
		return nil, err
	}
	balance, err := client.BalanceAt(ctx, common.HexToAddress(holder), nil)
	if err != nil {
		return nil, fmt.Errorf("reading native balance on chain %d: %w", chainID, err)
	}
	return balance, nil
}

// TokenBalance calls balanceOf on the token contract.
func (r *Reader) TokenBalance(ctx context.Context, chainID uint64, tokenAddress, holder string) (*big.Int, error) {
	client, err := r.clients.Client(chainID)
	if err != nil {
		return nil, err
	}

	contract := common.HexToAddress(tokenAddress)
	data := append(append([]byte{}, balanceOfSelector...), common.LeftPadBytes(common.HexToAddress(holder).Bytes(), 32)...)

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling balanceOf on %s chain %d: %w", tokenAddress, chainID, err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty balanceOf response from %s on chain %d", tokenAddress, chainID)
	}
	return new(big.Int).SetBytes(result), nil
}
