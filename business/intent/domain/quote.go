// Package domain contains the intent order context's core types.
package domain

import (
	"github.com/nvidaurre/swaprouter/internal/token"
)

// QuoteParams are the inputs for an intent quote. Amount is a base-unit
// integer string. DstChainID zero means same chain as SrcChainID.
type QuoteParams struct {
	FromTokenAddress string
	ToTokenAddress   string
	Amount           string
	WalletAddress    string
	SrcChainID       uint64
	DstChainID       uint64
}

// CrossChain reports whether the params name a destination chain different
// from the source chain.
func (p QuoteParams) CrossChain() bool {
	return p.DstChainID != 0 && p.DstChainID != p.SrcChainID
}

// OrderParams are the inputs for order creation: quote params plus optional
// receiver and permit. These are the values the order cache retains for
// regeneration.
type OrderParams struct {
	QuoteParams
	Receiver string
	Permit   string
}

// Preset is one named set of auction parameters offered with a quote.
// AuctionStartAmount is the effective destination amount for the preset.
type Preset struct {
	AuctionDuration    int    `json:"auctionDuration"`
	StartAuctionIn     int    `json:"startAuctionIn"`
	AuctionStartAmount string `json:"auctionStartAmount"`
	AuctionEndAmount   string `json:"auctionEndAmount"`
	AllowPartialFills  bool   `json:"allowPartialFills"`
	AllowMultipleFills bool   `json:"allowMultipleFills"`
}

// Quote is an intent protocol quote. DstAmount is read from the recommended
// preset's auction start amount, not from a flat quote figure.
type Quote struct {
	QuoteID           string
	SrcToken          token.Token
	DstToken          token.Token
	DstAmount         string
	Gas               int64
	Presets           map[string]Preset
	RecommendedPreset string
	IsCrossChain      bool
}

// Recommended returns the preset flagged as recommended by the quoter.
func (q *Quote) Recommended() (Preset, bool) {
	p, ok := q.Presets[q.RecommendedPreset]
	return p, ok
}

// OrderStatus is the lifecycle state of a submitted order.
type OrderStatus struct {
	Status          string `json:"status"`
	OrderHash       string `json:"orderHash"`
	TxHash          string `json:"txHash,omitempty"`
	Fills           []Fill `json:"fills,omitempty"`
	AuctionDuration int64  `json:"auctionDuration,omitempty"`
}

// Fill is one partial or full fill of an order.
type Fill struct {
	TxHash                   string `json:"txHash"`
	FilledMakerAmount        string `json:"filledMakerAmount"`
	FilledAuctionTakerAmount string `json:"filledAuctionTakerAmount"`
}

// OrderEvent is one entry from the order event stream.
type OrderEvent struct {
	EventType string `json:"eventType"`
	OrderHash string `json:"orderHash"`
	Data      []byte `json:"-"`
}

// CreateOrderResult is returned by order creation. OrderHash is an empty
// placeholder; the true hash is only known after successful submission.
type CreateOrderResult struct {
	OrderHash string `json:"orderHash"`
	Order     *Order `json:"order"`
	QuoteID   string `json:"quoteId"`
}

// SubmitResult is returned by order submission.
type SubmitResult struct {
	OrderHash string `json:"orderHash"`
	Status    string `json:"status"`
}
