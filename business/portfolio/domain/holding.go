// Package domain contains the portfolio view types.
package domain

import (
	"github.com/nvidaurre/swaprouter/internal/token"
)

// Holding is one asset position: base-unit balance plus its display-currency
// price and value. Price and Value are empty when no price was available.
type Holding struct {
	Token   token.Token `json:"token"`
	Balance string      `json:"balance"`
	Price   string      `json:"price,omitempty"`
	Value   string      `json:"value,omitempty"`
}

// Portfolio is a wallet's holdings on one chain at read time. Derived,
// never persisted.
type Portfolio struct {
	Address  string    `json:"address"`
	ChainID  uint64    `json:"chainId"`
	Currency string    `json:"currency"`
	Holdings []Holding `json:"holdings"`
}
