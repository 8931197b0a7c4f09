package localwallet

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/nvidaurre/swaprouter/business/signing/domain"
)

// Well-known test key; never fund this account.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testTypedData() apitypes.TypedData {
	return domain.FlatOrder{
		Salt:         "42",
		Maker:        "0x1111111111111111111111111111111111111111",
		Receiver:     "0x1111111111111111111111111111111111111111",
		MakerAsset:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		TakerAsset:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		MakingAmount: "1000000000000000000",
		TakingAmount: "3000000000",
		MakerTraits:  "0",
	}.TypedData(1)
}

func TestNewDerivesAddress(t *testing.T) {
	tests := []struct {
		name    string
		keyHex  string
		wantErr bool
	}{
		{name: "bare_hex", keyHex: testKey},
		{name: "with_prefix", keyHex: "0x" + testKey},
		{name: "empty", keyHex: "", wantErr: true},
		{name: "garbage", keyHex: "not-a-key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet, err := New(Config{PrivateKeyHex: tt.keyHex, ChainID: 1})
			if tt.wantErr {
				if err == nil {
					t.Fatal("New should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			want := "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
			if got := strings.ToLower(wallet.Address().Hex()); got != want {
				t.Errorf("Address() = %s, want %s", got, want)
			}
		})
	}
}

func TestSignTypedDataRecoversToSigner(t *testing.T) {
	wallet, err := New(Config{PrivateKeyHex: testKey, ChainID: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sig, err := wallet.SignTypedData(context.Background(), testTypedData())
	if err != nil {
		t.Fatalf("SignTypedData: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+65*2 {
		t.Fatalf("signature %q is not 65 hex bytes", sig)
	}

	raw, err := hex.DecodeString(sig[2:])
	if err != nil {
		t.Fatalf("decoding signature: %v", err)
	}
	if raw[64] != 27 && raw[64] != 28 {
		t.Fatalf("recovery id = %d, want 27 or 28", raw[64])
	}

	digest, _, err := apitypes.TypedDataAndHash(testTypedData())
	if err != nil {
		t.Fatalf("hashing typed data: %v", err)
	}
	raw[64] -= 27
	pub, err := crypto.SigToPub(digest, raw)
	if err != nil {
		t.Fatalf("recovering signer: %v", err)
	}
	if got := crypto.PubkeyToAddress(*pub); got != wallet.Address() {
		t.Errorf("recovered signer %s, want %s", got.Hex(), wallet.Address().Hex())
	}
}

func TestSignTypedDataDeterministicPerChain(t *testing.T) {
	wallet, err := New(Config{PrivateKeyHex: testKey, ChainID: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	order := domain.FlatOrder{
		Salt:         "42",
		Maker:        "0x1111111111111111111111111111111111111111",
		Receiver:     "0x1111111111111111111111111111111111111111",
		MakerAsset:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		TakerAsset:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		MakingAmount: "1000000000000000000",
		TakingAmount: "3000000000",
		MakerTraits:  "0",
	}

	mainnet, err := wallet.SignTypedData(context.Background(), order.TypedData(1))
	if err != nil {
		t.Fatalf("sign chain 1: %v", err)
	}
	polygon, err := wallet.SignTypedData(context.Background(), order.TypedData(137))
	if err != nil {
		t.Fatalf("sign chain 137: %v", err)
	}
	if mainnet == polygon {
		t.Error("signatures should differ across chains")
	}

	again, err := wallet.SignTypedData(context.Background(), order.TypedData(1))
	if err != nil {
		t.Fatalf("re-sign chain 1: %v", err)
	}
	if mainnet != again {
		t.Error("signature should be deterministic for the same chain")
	}
}
