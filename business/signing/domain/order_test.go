package domain

import (
	"encoding/json"
	"testing"
)

func TestFlattenOrderShapes(t *testing.T) {
	want := FlatOrder{
		Salt:         "42",
		Maker:        "0x1111111111111111111111111111111111111111",
		Receiver:     "0x1111111111111111111111111111111111111111",
		MakerAsset:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		TakerAsset:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		MakingAmount: "1000000000000000000",
		TakingAmount: "3000000000",
		MakerTraits:  "0",
	}

	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "flat_round_tripped",
			raw: `{
				"salt": "42",
				"maker": "0x1111111111111111111111111111111111111111",
				"receiver": "0x1111111111111111111111111111111111111111",
				"makerAsset": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				"takerAsset": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				"makingAmount": "1000000000000000000",
				"takingAmount": "3000000000",
				"makerTraits": "0"
			}`,
		},
		{
			name: "nested_inner_with_wrappers",
			raw: `{"inner": {
				"salt": "42",
				"maker": {"val": "0x1111111111111111111111111111111111111111"},
				"receiver": {"val": "0x1111111111111111111111111111111111111111"},
				"makerAsset": {"val": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},
				"takerAsset": {"val": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"},
				"makingAmount": "1000000000000000000",
				"takingAmount": "3000000000",
				"makerTraits": {"value": {"value": "0"}}
			}}`,
		},
		{
			name: "numeric_scalars",
			raw: `{
				"salt": 42,
				"maker": "0x1111111111111111111111111111111111111111",
				"receiver": "0x1111111111111111111111111111111111111111",
				"makerAsset": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				"takerAsset": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				"makingAmount": "1000000000000000000",
				"takingAmount": 3000000000,
				"makerTraits": 0
			}`,
		},
		{
			name: "checksummed_addresses_lowercased",
			raw: `{
				"salt": "42",
				"maker": "0x1111111111111111111111111111111111111111",
				"receiver": "0x1111111111111111111111111111111111111111",
				"makerAsset": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
				"takerAsset": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
				"makingAmount": "1000000000000000000",
				"takingAmount": "3000000000",
				"makerTraits": "0"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlattenOrder(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("FlattenOrder: %v", err)
			}
			if got != want {
				t.Errorf("FlattenOrder = %+v, want %+v", got, want)
			}
		})
	}
}

func TestFlattenOrderErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not_an_object", raw: `"just a string"`},
		{
			name: "missing_field",
			raw: `{
				"salt": "42",
				"maker": "0x1111111111111111111111111111111111111111",
				"receiver": "0x1111111111111111111111111111111111111111",
				"makerAsset": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				"takerAsset": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				"makingAmount": "1000000000000000000",
				"takingAmount": "3000000000"
			}`,
		},
		{
			name: "unrecognized_wrapper",
			raw: `{
				"salt": "42",
				"maker": {"address": "0x1111111111111111111111111111111111111111"},
				"receiver": "0x1111111111111111111111111111111111111111",
				"makerAsset": "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				"takerAsset": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
				"makingAmount": "1000000000000000000",
				"takingAmount": "3000000000",
				"makerTraits": "0"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FlattenOrder(json.RawMessage(tt.raw)); err == nil {
				t.Error("FlattenOrder should fail")
			}
		})
	}
}

func TestFlatOrderTypedData(t *testing.T) {
	order := FlatOrder{
		Salt:         "42",
		Maker:        "0x1111111111111111111111111111111111111111",
		Receiver:     "0x1111111111111111111111111111111111111111",
		MakerAsset:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		TakerAsset:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		MakingAmount: "1000000000000000000",
		TakingAmount: "3000000000",
		MakerTraits:  "0",
	}

	td := order.TypedData(1)
	if td.PrimaryType != "Order" {
		t.Errorf("primary type = %q, want Order", td.PrimaryType)
	}
	if td.Domain.Name != "1inch Fusion" || td.Domain.Version != "1" {
		t.Errorf("domain = %s/%s, want 1inch Fusion/1", td.Domain.Name, td.Domain.Version)
	}
	if td.Domain.VerifyingContract != SettlementContract {
		t.Errorf("verifying contract = %q, want %q", td.Domain.VerifyingContract, SettlementContract)
	}
	if td.Message["makerTraits"] != "0" {
		t.Errorf("makerTraits = %v, want 0", td.Message["makerTraits"])
	}
}
