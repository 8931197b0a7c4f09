package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Maker traits flag bits, transported as a single uint256 bitfield.
const (
	noPartialFillsBit     = 255
	allowMultipleFillsBit = 254
)

// AuctionDetails are the Dutch auction parameters an order settles under.
type AuctionDetails struct {
	StartAmount *big.Int
	EndAmount   *big.Int
	Duration    int
	StartDelay  int
}

// Order is a live intent order produced by order creation. Beyond the eight
// signable fields it carries the settlement contract address and auction
// details, which are required to hash, produce typed data for, and submit
// the order. Those do not survive JSON serialization: an Order that has been
// marshaled and unmarshaled is a plain data shell and must not be submitted.
type Order struct {
	salt         *big.Int
	maker        common.Address
	receiver     common.Address
	makerAsset   common.Address
	takerAsset   common.Address
	makingAmount *big.Int
	takingAmount *big.Int
	makerTraits  *big.Int

	settlement common.Address
	auction    *AuctionDetails
}

// OrderSpec carries the field values for constructing a live Order.
type OrderSpec struct {
	Salt         *big.Int
	Maker        common.Address
	Receiver     common.Address
	MakerAsset   common.Address
	TakerAsset   common.Address
	MakingAmount *big.Int
	TakingAmount *big.Int
	Settlement   common.Address
	Auction      AuctionDetails
}

// NewOrder constructs a live order. Maker traits are derived from the
// auction preset's fill flags.
func NewOrder(spec OrderSpec, allowPartialFills, allowMultipleFills bool) *Order {
	traits := new(big.Int)
	if !allowPartialFills {
		traits.SetBit(traits, noPartialFillsBit, 1)
	}
	if allowMultipleFills {
		traits.SetBit(traits, allowMultipleFillsBit, 1)
	}

	auction := spec.Auction
	return &Order{
		salt:         spec.Salt,
		maker:        spec.Maker,
		receiver:     spec.Receiver,
		makerAsset:   spec.MakerAsset,
		takerAsset:   spec.TakerAsset,
		makingAmount: spec.MakingAmount,
		takingAmount: spec.TakingAmount,
		makerTraits:  traits,
		settlement:   spec.Settlement,
		auction:      &auction,
	}
}

// Maker returns the order's maker address.
func (o *Order) Maker() common.Address { return o.maker }

// Settlement returns the settlement contract the order is bound to, or the
// zero address for a deserialized shell.
func (o *Order) Settlement() common.Address { return o.settlement }

// Auction returns the auction details, or nil for a deserialized shell.
func (o *Order) Auction() *AuctionDetails { return o.auction }

// Submittable reports whether the order still carries the behavior needed
// for hashing, typed-data construction, and submission. False after a JSON
// round-trip.
func (o *Order) Submittable() bool {
	return o != nil &&
		o.settlement != (common.Address{}) &&
		o.auction != nil &&
		o.salt != nil &&
		o.makingAmount != nil &&
		o.takingAmount != nil
}

// typedData builds the EIP-712 payload over the fixed eight-field Order
// schema, bound to the order's settlement contract and the given chain.
func (o *Order) typedData(chainID uint64) apitypes.TypedData {
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
			VerifyingContract: strings.ToLower(o.settlement.Hex()),
		},
		Message: apitypes.TypedDataMessage{
			"salt":         o.salt.String(),
			"maker":        strings.ToLower(o.maker.Hex()),
			"receiver":     strings.ToLower(o.receiver.Hex()),
			"makerAsset":   strings.ToLower(o.makerAsset.Hex()),
			"takerAsset":   strings.ToLower(o.takerAsset.Hex()),
			"makingAmount": o.makingAmount.String(),
			"takingAmount": o.takingAmount.String(),
			"makerTraits":  o.makerTraits.String(),
		},
	}
}

// TypedData returns the EIP-712 payload for wallet signing. Fails on a
// deserialized shell.
func (o *Order) TypedData(chainID uint64) (apitypes.TypedData, error) {
	if !o.Submittable() {
		return apitypes.TypedData{}, fmt.Errorf("order lost its settlement binding, cannot build typed data")
	}
	return o.typedData(chainID), nil
}

// Hash computes the EIP-712 digest the maker signs.
func (o *Order) Hash(chainID uint64) (common.Hash, error) {
	if !o.Submittable() {
		return common.Hash{}, fmt.Errorf("order lost its settlement binding, cannot hash")
	}
	td := o.typedData(chainID)
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hashing order: %w", err)
	}
	return common.BytesToHash(digest), nil
}

// wireOrder is the flat serialized form: the eight signable fields only.
type wireOrder struct {
	Salt         string `json:"salt"`
	Maker        string `json:"maker"`
	Receiver     string `json:"receiver"`
	MakerAsset   string `json:"makerAsset"`
	TakerAsset   string `json:"takerAsset"`
	MakingAmount string `json:"makingAmount"`
	TakingAmount string `json:"takingAmount"`
	MakerTraits  string `json:"makerTraits"`
}

// MarshalJSON serializes the eight signable fields. The settlement binding
// and auction details are intentionally dropped; see Submittable.
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOrder{
		Salt:         bigString(o.salt),
		Maker:        strings.ToLower(o.maker.Hex()),
		Receiver:     strings.ToLower(o.receiver.Hex()),
		MakerAsset:   strings.ToLower(o.makerAsset.Hex()),
		TakerAsset:   strings.ToLower(o.takerAsset.Hex()),
		MakingAmount: bigString(o.makingAmount),
		TakingAmount: bigString(o.takingAmount),
		MakerTraits:  bigString(o.makerTraits),
	})
}

// UnmarshalJSON restores only the signable fields, producing a shell for
// which Submittable reports false.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var ok bool
	if o.salt, ok = new(big.Int).SetString(w.Salt, 10); !ok {
		return fmt.Errorf("invalid salt %q", w.Salt)
	}
	if o.makingAmount, ok = new(big.Int).SetString(w.MakingAmount, 10); !ok {
		return fmt.Errorf("invalid makingAmount %q", w.MakingAmount)
	}
	if o.takingAmount, ok = new(big.Int).SetString(w.TakingAmount, 10); !ok {
		return fmt.Errorf("invalid takingAmount %q", w.TakingAmount)
	}
	if o.makerTraits, ok = new(big.Int).SetString(w.MakerTraits, 10); !ok {
		return fmt.Errorf("invalid makerTraits %q", w.MakerTraits)
	}
	o.maker = common.HexToAddress(w.Maker)
	o.receiver = common.HexToAddress(w.Receiver)
	o.makerAsset = common.HexToAddress(w.MakerAsset)
	o.takerAsset = common.HexToAddress(w.TakerAsset)
	o.settlement = common.Address{}
	o.auction = nil
	return nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
