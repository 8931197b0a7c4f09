package app

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
)

// Wallet abstracts the maker's signing wallet.
type Wallet interface {
	// Address returns the wallet's account address.
	Address() common.Address

	// ChainID returns the chain the wallet is connected to.
	ChainID(ctx context.Context) (uint64, error)

	// Balance reads the native balance of the wallet's account.
	Balance(ctx context.Context) (*big.Int, error)

	// SignTypedData signs an EIP-712 payload and returns the hex signature.
	SignTypedData(ctx context.Context, td apitypes.TypedData) (string, error)
}

// OrderSubmitter forwards a signed order to the relayer.
type OrderSubmitter interface {
	SubmitSignedOrder(ctx context.Context, raw json.RawMessage, signature, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error)
}
