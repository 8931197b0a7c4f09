package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/business/signing/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/logger"
)

// SigningService bridges order objects to the maker's wallet. It flattens
// whatever order shape the caller holds, obtains an EIP-712 signature, and
// forwards the signed order for submission.
type SigningService struct {
	wallet    Wallet
	submitter OrderSubmitter
	logger    logger.LoggerInterface
}

// NewSigningService creates a SigningService.
func NewSigningService(wallet Wallet, submitter OrderSubmitter, log logger.LoggerInterface) *SigningService {
	return &SigningService{
		wallet:    wallet,
		submitter: submitter,
		logger:    log,
	}
}

// Flatten normalizes an order payload into the canonical flat form.
func (s *SigningService) Flatten(raw json.RawMessage) (domain.FlatOrder, error) {
	order, err := domain.FlattenOrder(raw)
	if err != nil {
		return domain.FlatOrder{}, apperror.New(apperror.CodeInvalidOrderObject, apperror.WithCause(err))
	}
	if err := order.Validate(); err != nil {
		return domain.FlatOrder{}, apperror.New(apperror.CodeInvalidOrderObject, apperror.WithCause(err))
	}
	return order, nil
}

// RequestSignature asks the wallet to sign the order's typed data. A wallet
// refusal surfaces as SIGNING_REJECTED; the order is untouched either way.
func (s *SigningService) RequestSignature(ctx context.Context, order domain.FlatOrder, chainID uint64) (string, error) {
	if err := order.Validate(); err != nil {
		return "", apperror.New(apperror.CodeInvalidOrderObject, apperror.WithCause(err))
	}
	if s.wallet == nil {
		return "", apperror.New(apperror.CodeWalletUnavailable,
			apperror.WithContext("no signing wallet configured"))
	}

	signature, err := s.wallet.SignTypedData(ctx, order.TypedData(chainID))
	if err != nil {
		s.logger.Warn(ctx, "wallet declined to sign order", "chain_id", chainID, "error", err)
		return "", apperror.New(apperror.CodeSigningRejected,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("chain %d", chainID)))
	}

	s.logger.Debug(ctx, "order signed", "chain_id", chainID, "maker", order.Maker)
	return signature, nil
}

// SignAndSubmit flattens, signs, and submits an order in one step.
func (s *SigningService) SignAndSubmit(ctx context.Context, raw json.RawMessage, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error) {
	order, err := s.Flatten(raw)
	if err != nil {
		return nil, err
	}

	signature, err := s.RequestSignature(ctx, order, chainID)
	if err != nil {
		return nil, err
	}

	return s.SubmitSigned(ctx, raw, signature, quoteID, chainID)
}

// SubmitSigned forwards a signed order for submission.
func (s *SigningService) SubmitSigned(ctx context.Context, raw json.RawMessage, signature, quoteID string, chainID uint64) (*intentdomain.SubmitResult, error) {
	result, err := s.submitter.SubmitSignedOrder(ctx, raw, signature, quoteID, chainID)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeOrderNotReconstructable) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.CodeOrderSubmissionFailed,
			fmt.Sprintf("quote %s on chain %d", quoteID, chainID))
	}
	return result, nil
}

// WalletAddress returns the configured wallet's address as a lowercase hex
// string, or "" when no wallet is configured.
func (s *SigningService) WalletAddress() string {
	if s.wallet == nil {
		return ""
	}
	return strings.ToLower(s.wallet.Address().Hex())
}
