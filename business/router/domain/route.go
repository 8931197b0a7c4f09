// Package domain contains the route comparison types.
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Protocol identifies the execution path a route settles through.
type Protocol string

const (
	ProtocolClassic          Protocol = "classic"
	ProtocolIntent           Protocol = "intent"
	ProtocolIntentCrossChain Protocol = "intent-cross-chain"
)

// Typical time from signature to settlement per protocol. Classic swaps
// confirm in one block; intent auctions run for up to their auction
// duration; cross-chain settlement adds the destination leg.
const (
	EstimateClassic    = 15 * time.Second
	EstimateIntent     = 30 * time.Second
	EstimateCrossChain = 60 * time.Second
)

// Route is one executable path for a swap, derived from a protocol quote.
// Recomputed on every quote refresh, never persisted.
type Route struct {
	Protocol     Protocol        `json:"protocol"`
	DstAmount    string          `json:"dstAmount"`
	GasCost      decimal.Decimal `json:"gasCost"`
	Estimate     time.Duration   `json:"estimateSeconds"`
	MEVProtected bool            `json:"mevProtected"`
	Gasless      bool            `json:"gasless"`
	CrossChain   bool            `json:"crossChain"`
	Recommended  bool            `json:"recommended"`
	Confidence   float64         `json:"confidence"`
	Venues       []string        `json:"venues,omitempty"`
}

// dstAmountDecimal parses the base-unit amount, treating malformed values
// as zero so a single bad quote cannot break the comparison.
func (r Route) dstAmountDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(r.DstAmount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Rank marks the recommendation and orders routes for display: the
// recommended route first, then descending destination amount, stable on
// ties. The recommendation is the route with the highest destination
// amount; a gasless route wins an exact tie.
func Rank(routes []Route) []Route {
	if len(routes) == 0 {
		return routes
	}

	best := 0
	for i := 1; i < len(routes); i++ {
		cmp := routes[i].dstAmountDecimal().Cmp(routes[best].dstAmountDecimal())
		if cmp > 0 || (cmp == 0 && routes[i].Gasless && !routes[best].Gasless) {
			best = i
		}
	}
	for i := range routes {
		routes[i].Recommended = i == best
	}

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Recommended != routes[j].Recommended {
			return routes[i].Recommended
		}
		return routes[i].dstAmountDecimal().GreaterThan(routes[j].dstAmountDecimal())
	})
	return routes
}
