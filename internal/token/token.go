// Package token provides the token model shared by every protocol client and
// the decimal/base-unit amount codec. The core keeps amounts as base-unit
// integer strings backed by big.Int; decimal.Decimal appears only at display
// boundaries.
package token

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAddress is the sentinel address the aggregator uses for a chain's
// native asset. Protocol clients must recognize it and, where the protocol
// cannot settle native assets, substitute the wrapped equivalent.
const NativeAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// Chain IDs supported by the intent protocol.
const (
	ChainIDEthereum = 1
	ChainIDOptimism = 10
	ChainIDBSC      = 56
	ChainIDPolygon  = 137
	ChainIDBase     = 8453
	ChainIDArbitrum = 42161
)

// Token describes an asset on a specific chain. Immutable once constructed.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// New creates a Token with a normalized (lowercased) address.
func New(address, symbol, name string, decimals int) Token {
	if decimals < 0 {
		panic("token: negative decimals")
	}
	return Token{
		Address:  strings.ToLower(address),
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
	}
}

// IsNative reports whether the token address is the native-asset sentinel.
func (t Token) IsNative() bool {
	return IsNativeAddress(t.Address)
}

// AddressHex returns the token address as a checksummed common.Address.
func (t Token) AddressHex() common.Address {
	return common.HexToAddress(t.Address)
}

// IsNativeAddress reports whether addr is the native-asset sentinel,
// case-insensitively.
func IsNativeAddress(addr string) bool {
	return strings.EqualFold(addr, NativeAddress)
}

// wrappedNative maps chain id to the wrapped-native token contract. The
// intent protocol's settlement contract cannot hold native assets, so quote
// and order requests substitute these addresses for the sentinel.
var wrappedNative = map[uint64]string{
	ChainIDEthereum: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
	ChainIDOptimism: "0x4200000000000000000000000000000000000006", // WETH
	ChainIDBSC:      "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", // WBNB
	ChainIDPolygon:  "0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270", // WMATIC
	ChainIDBase:     "0x4200000000000000000000000000000000000006", // WETH
	ChainIDArbitrum: "0x82af49447d8a07e3bd95bd0d56f35241523fbab1", // WETH
}

// WrappedNative returns the wrapped-native token address for a chain.
func WrappedNative(chainID uint64) (string, bool) {
	addr, ok := wrappedNative[chainID]
	return addr, ok
}

// SubstituteNative returns addr unchanged unless it is the native sentinel,
// in which case the chain's wrapped-native address is returned. The second
// result is false when the chain has no wrapped-native mapping.
func SubstituteNative(addr string, chainID uint64) (string, bool) {
	if !IsNativeAddress(addr) {
		return addr, true
	}
	return WrappedNative(chainID)
}

// SupportedChains lists the chains the intent protocol can settle on, in
// ascending chain-id order.
func SupportedChains() []uint64 {
	return []uint64{
		ChainIDEthereum,
		ChainIDOptimism,
		ChainIDBSC,
		ChainIDPolygon,
		ChainIDBase,
		ChainIDArbitrum,
	}
}

// ChainSupported reports whether the intent protocol supports chainID.
func ChainSupported(chainID uint64) bool {
	_, ok := wrappedNative[chainID]
	return ok
}
