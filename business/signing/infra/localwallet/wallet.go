// Package localwallet signs typed data with a locally held private key.
// Intended for the CLI and tests; production makers sign in their own
// wallet out of band.
package localwallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Config holds local wallet configuration. RPCURL is optional; without it
// balance and chain id reads fail but signing still works.
type Config struct {
	PrivateKeyHex string
	ChainID       uint64
	RPCURL        string
}

// Wallet signs EIP-712 payloads with an in-memory private key.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID uint64
	rpcURL  string

	ethMu     sync.Mutex
	ethClient *ethclient.Client
}

// New creates a wallet from a hex-encoded private key.
func New(cfg Config) (*Wallet, error) {
	keyHex := strings.TrimPrefix(cfg.PrivateKeyHex, "0x")
	if keyHex == "" {
		return nil, fmt.Errorf("private key not set")
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: cfg.ChainID,
		rpcURL:  cfg.RPCURL,
	}, nil
}

// Address returns the account derived from the private key.
func (w *Wallet) Address() common.Address {
	return w.address
}

// ChainID returns the configured chain, or reads it from the node when not
// configured.
func (w *Wallet) ChainID(ctx context.Context) (uint64, error) {
	if w.chainID != 0 {
		return w.chainID, nil
	}
	client, err := w.provider()
	if err != nil {
		return 0, err
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading chain id: %w", err)
	}
	return id.Uint64(), nil
}

// Balance reads the account's native balance.
func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	client, err := w.provider()
	if err != nil {
		return nil, err
	}
	return client.BalanceAt(ctx, w.address, nil)
}

// SignTypedData signs the EIP-712 digest of the payload. The recovery id
// is shifted to 27/28 as on-chain verifiers expect.
func (w *Wallet) SignTypedData(ctx context.Context, td apitypes.TypedData) (string, error) {
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return "", fmt.Errorf("hashing typed data: %w", err)
	}

	signature, err := crypto.Sign(digest, w.key)
	if err != nil {
		return "", fmt.Errorf("signing digest: %w", err)
	}
	signature[64] += 27

	return "0x" + hex.EncodeToString(signature), nil
}

func (w *Wallet) provider() (*ethclient.Client, error) {
	w.ethMu.Lock()
	defer w.ethMu.Unlock()
	if w.ethClient != nil {
		return w.ethClient, nil
	}
	if w.rpcURL == "" {
		return nil, fmt.Errorf("no rpc url configured")
	}
	client, err := ethclient.Dial(w.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing node: %w", err)
	}
	w.ethClient = client
	return client, nil
}

// Close releases the node connection.
func (w *Wallet) Close() {
	w.ethMu.Lock()
	defer w.ethMu.Unlock()
	if w.ethClient != nil {
		w.ethClient.Close()
		w.ethClient = nil
	}
}
