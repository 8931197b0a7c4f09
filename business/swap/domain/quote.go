// Package domain contains the classic swap context's core types.
package domain

import (
	"github.com/nvidaurre/swaprouter/internal/token"
)

// Venue is one liquidity source used by a quote, with its share of the fill.
type Venue struct {
	Name             string  `json:"name"`
	Part             float64 `json:"part"`
	FromTokenAddress string  `json:"fromTokenAddress"`
	ToTokenAddress   string  `json:"toTokenAddress"`
}

// Quote is an aggregated price for swapping src into dst. Amounts are
// base-unit integer strings. Quotes are short-lived; validity is enforced
// upstream, not here.
type Quote struct {
	SrcToken  token.Token `json:"srcToken"`
	DstToken  token.Token `json:"dstToken"`
	DstAmount string      `json:"dstAmount"`
	Gas       int64       `json:"gas"`
	Venues    [][][]Venue `json:"protocols"`
}

// VenueNames returns the distinct venue names across all route segments.
func (q *Quote) VenueNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, hop := range q.Venues {
		for _, split := range hop {
			for _, v := range split {
				if !seen[v.Name] {
					seen[v.Name] = true
					names = append(names, v.Name)
				}
			}
		}
	}
	return names
}

// SwapTransaction is a ready-to-sign on-chain transaction descriptor.
type SwapTransaction struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      string `json:"gas"`
	GasPrice string `json:"gasPrice"`
}

// SwapResult is a quote together with the transaction that executes it.
type SwapResult struct {
	Quote
	Tx SwapTransaction `json:"tx"`
}

// Allowance is the spender allowance currently granted to the router.
type Allowance struct {
	Allowance string `json:"allowance"`
}

// ApprovalTransaction is the calldata granting the router an allowance.
type ApprovalTransaction struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	GasPrice string `json:"gasPrice"`
}

// LimitOrderRequest are the parameters for placing a resting limit order.
type LimitOrderRequest struct {
	MakerAsset   string `json:"makerAsset"`
	TakerAsset   string `json:"takerAsset"`
	MakingAmount string `json:"makingAmount"`
	TakingAmount string `json:"takingAmount"`
	Maker        string `json:"maker"`
	Receiver     string `json:"receiver,omitempty"`
	Salt         string `json:"salt,omitempty"`
	Extension    string `json:"extension,omitempty"`
}

// LimitOrderFilter narrows a limit-order listing.
type LimitOrderFilter struct {
	Page       int
	Limit      int
	Statuses   string
	MakerAsset string
	TakerAsset string
	Maker      string
}
