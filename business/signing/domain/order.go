// Package domain holds the canonical flat order form used for signing.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// SettlementContract is the verifying contract signatures are bound to.
const SettlementContract = "0x2ad5004c60e16e54d5007c80ce329adde5b51ef5"

// FlatOrder is the canonical eight-field order form. Everything downstream
// of FlattenOrder works on this shape only.
type FlatOrder struct {
	Salt         string `json:"salt"`
	Maker        string `json:"maker"`
	Receiver     string `json:"receiver"`
	MakerAsset   string `json:"makerAsset"`
	TakerAsset   string `json:"takerAsset"`
	MakingAmount string `json:"makingAmount"`
	TakingAmount string `json:"takingAmount"`
	MakerTraits  string `json:"makerTraits"`
}

// Validate reports whether all eight fields are populated.
func (o FlatOrder) Validate() error {
	fields := map[string]string{
		"salt":         o.Salt,
		"maker":        o.Maker,
		"receiver":     o.Receiver,
		"makerAsset":   o.MakerAsset,
		"takerAsset":   o.TakerAsset,
		"makingAmount": o.MakingAmount,
		"takingAmount": o.TakingAmount,
		"makerTraits":  o.MakerTraits,
	}
	for name, v := range fields {
		if v == "" {
			return fmt.Errorf("order field %s is empty", name)
		}
	}
	return nil
}

// FlattenOrder normalizes an order payload into the canonical flat form.
// Freshly created orders arrive nested: the fields may sit under an "inner"
// sub-object, addresses may be wrapped as {"val": "0x…"}, and makerTraits
// may be wrapped as {"value": {"value": "…"}}. Orders that went through a
// JSON round-trip arrive already flat. Both shapes are handled here, once,
// at the boundary.
func FlattenOrder(raw json.RawMessage) (FlatOrder, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return FlatOrder{}, fmt.Errorf("order payload is not an object: %w", err)
	}

	if inner, ok := fields["inner"]; ok {
		if err := json.Unmarshal(inner, &fields); err != nil {
			return FlatOrder{}, fmt.Errorf("inner order is not an object: %w", err)
		}
	}

	order := FlatOrder{}
	for name, dst := range map[string]*string{
		"salt":         &order.Salt,
		"maker":        &order.Maker,
		"receiver":     &order.Receiver,
		"makerAsset":   &order.MakerAsset,
		"takerAsset":   &order.TakerAsset,
		"makingAmount": &order.MakingAmount,
		"takingAmount": &order.TakingAmount,
		"makerTraits":  &order.MakerTraits,
	} {
		value, ok := fields[name]
		if !ok {
			return FlatOrder{}, fmt.Errorf("order payload missing field %s", name)
		}
		s, err := unwrapString(value)
		if err != nil {
			return FlatOrder{}, fmt.Errorf("order field %s: %w", name, err)
		}
		*dst = s
	}

	order.Maker = strings.ToLower(order.Maker)
	order.Receiver = strings.ToLower(order.Receiver)
	order.MakerAsset = strings.ToLower(order.MakerAsset)
	order.TakerAsset = strings.ToLower(order.TakerAsset)
	return order, nil
}

// unwrapString extracts the scalar from a bare string, a bare number, a
// {"val": …} wrapper, or a nested {"value": {"value": …}} wrapper.
func unwrapString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	var wrapper struct {
		Val   json.RawMessage `json:"val"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return "", fmt.Errorf("unrecognized value shape %s", string(raw))
	}
	if wrapper.Val != nil {
		return unwrapString(wrapper.Val)
	}
	if wrapper.Value != nil {
		return unwrapString(wrapper.Value)
	}
	return "", fmt.Errorf("unrecognized value shape %s", string(raw))
}

// TypedData builds the EIP-712 payload for the flat order, bound to the
// settlement contract on the given chain.
func (o FlatOrder) TypedData(chainID uint64) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": {
				{Name: "salt", Type: "uint256"},
				{Name: "maker", Type: "address"},
				{Name: "receiver", Type: "address"},
				{Name: "makerAsset", Type: "address"},
				{Name: "takerAsset", Type: "address"},
				{Name: "makingAmount", Type: "uint256"},
				{Name: "takingAmount", Type: "uint256"},
				{Name: "makerTraits", Type: "uint256"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              "1inch Fusion",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: SettlementContract,
		},
		Message: apitypes.TypedDataMessage{
			"salt":         o.Salt,
			"maker":        o.Maker,
			"receiver":     o.Receiver,
			"makerAsset":   o.MakerAsset,
			"takerAsset":   o.TakerAsset,
			"makingAmount": o.MakingAmount,
			"takingAmount": o.TakingAmount,
			"makerTraits":  o.MakerTraits,
		},
	}
}
