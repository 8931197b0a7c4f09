package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/business/signing/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/logger"
)

type fakeWallet struct {
	signErr   error
	signCalls int
	lastTD    apitypes.TypedData
}

func (f *fakeWallet) Address() common.Address {
	return common.HexToAddress("0x1111111111111111111111111111111111111111")
}

func (f *fakeWallet) ChainID(ctx context.Context) (uint64, error) { return 1, nil }

func (f *fakeWallet) Balance(ctx context.Context) (*big.Int, error) { return big.NewInt(0), nil }

func (f *fakeWallet) SignTypedData(ctx context.Context, td apitypes.TypedData) (string, error) {
	f.signCalls++
	f.lastTD = td
	if f.signErr != nil {
		return "", f.signErr
	}
	return "0xsignature", nil
}

type fakeSubmitter struct {
	err      error
	lastSig  string
	lastQID  string
	lastCID  uint64
	lastCall int
}

func (f *fakeSubmitter) SubmitSignedOrder(ctx context.Context, raw json.RawMessage, signature, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error) {
	f.lastCall++
	f.lastSig = signature
	f.lastQID = quoteID
	f.lastCID = chainID
	if f.err != nil {
		return nil, f.err
	}
	return &intentdomain.SubmitResult{OrderHash: "0xhash", Status: "submitted"}, nil
}

func validOrder() domain.FlatOrder {
	return domain.FlatOrder{
		Salt:         "42",
		Maker:        "0x1111111111111111111111111111111111111111",
		Receiver:     "0x1111111111111111111111111111111111111111",
		MakerAsset:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		TakerAsset:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		MakingAmount: "1000000000000000000",
		TakingAmount: "3000000000",
		MakerTraits:  "0",
	}
}

func validRawOrder() json.RawMessage {
	data, _ := json.Marshal(validOrder())
	return data
}

func TestRequestSignatureBindsChain(t *testing.T) {
	wallet := &fakeWallet{}
	svc := NewSigningService(wallet, &fakeSubmitter{}, logger.Discard())

	sig, err := svc.RequestSignature(context.Background(), validOrder(), 137)
	if err != nil {
		t.Fatalf("RequestSignature: %v", err)
	}
	if sig != "0xsignature" {
		t.Errorf("signature = %q, want wallet signature", sig)
	}
	if got := (*big.Int)(wallet.lastTD.Domain.ChainId).Int64(); got != 137 {
		t.Errorf("typed data chain id = %d, want 137", got)
	}
	if wallet.lastTD.Domain.VerifyingContract != domain.SettlementContract {
		t.Errorf("verifying contract = %q, want settlement", wallet.lastTD.Domain.VerifyingContract)
	}
}

func TestRequestSignatureRefusal(t *testing.T) {
	wallet := &fakeWallet{signErr: fmt.Errorf("user denied")}
	svc := NewSigningService(wallet, &fakeSubmitter{}, logger.Discard())

	_, err := svc.RequestSignature(context.Background(), validOrder(), 1)
	if !apperror.IsCode(err, apperror.CodeSigningRejected) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeSigningRejected)
	}
}

func TestRequestSignatureWithoutWallet(t *testing.T) {
	svc := NewSigningService(nil, &fakeSubmitter{}, logger.Discard())

	_, err := svc.RequestSignature(context.Background(), validOrder(), 1)
	if !apperror.IsCode(err, apperror.CodeWalletUnavailable) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeWalletUnavailable)
	}
}

func TestRequestSignatureIncompleteOrder(t *testing.T) {
	wallet := &fakeWallet{}
	svc := NewSigningService(wallet, &fakeSubmitter{}, logger.Discard())

	order := validOrder()
	order.MakerTraits = ""
	_, err := svc.RequestSignature(context.Background(), order, 1)
	if !apperror.IsCode(err, apperror.CodeInvalidOrderObject) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeInvalidOrderObject)
	}
	if wallet.signCalls != 0 {
		t.Errorf("wallet signed %d times for an invalid order, want 0", wallet.signCalls)
	}
}

func TestSignAndSubmit(t *testing.T) {
	wallet := &fakeWallet{}
	submitter := &fakeSubmitter{}
	svc := NewSigningService(wallet, submitter, logger.Discard())

	result, err := svc.SignAndSubmit(context.Background(), validRawOrder(), "q-1", 1)
	if err != nil {
		t.Fatalf("SignAndSubmit: %v", err)
	}
	if result.OrderHash != "0xhash" {
		t.Errorf("OrderHash = %q, want relayer hash", result.OrderHash)
	}
	if submitter.lastSig != "0xsignature" {
		t.Errorf("submitter saw signature %q, want wallet signature", submitter.lastSig)
	}
	if submitter.lastQID != "q-1" || submitter.lastCID != 1 {
		t.Errorf("submitter saw quote %q chain %d, want q-1 on chain 1", submitter.lastQID, submitter.lastCID)
	}
}

func TestSubmitSignedFailureMapsToSubmissionError(t *testing.T) {
	submitter := &fakeSubmitter{err: fmt.Errorf("relayer unavailable")}
	svc := NewSigningService(&fakeWallet{}, submitter, logger.Discard())

	_, err := svc.SubmitSigned(context.Background(), validRawOrder(), "0xsig", "q-1", 1)
	if !apperror.IsCode(err, apperror.CodeOrderSubmissionFailed) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeOrderSubmissionFailed)
	}
}

func TestSubmitSignedPreservesNotReconstructable(t *testing.T) {
	submitter := &fakeSubmitter{err: apperror.New(apperror.CodeOrderNotReconstructable)}
	svc := NewSigningService(&fakeWallet{}, submitter, logger.Discard())

	_, err := svc.SubmitSigned(context.Background(), validRawOrder(), "0xsig", "q-1", 1)
	if !apperror.IsCode(err, apperror.CodeOrderNotReconstructable) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeOrderNotReconstructable)
	}
}
