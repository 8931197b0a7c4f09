package apperror

// Code represents a unique error code for the application.
type Code string

// General error codes
const (
	CodeRequiredField Code = "REQUIRED_FIELD"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidFormat Code = "INVALID_FORMAT"
	CodeNotFound      Code = "NOT_FOUND"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized         Code = "UNAUTHORIZED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Swap orchestration error codes
const (
	// Amount codec
	CodeInvalidAmountFormat Code = "INVALID_AMOUNT_FORMAT"

	// Quote fetching
	CodeQuoteUnavailable      Code = "QUOTE_UNAVAILABLE"
	CodeCrossChainUnsupported Code = "CROSS_CHAIN_UNSUPPORTED"
	CodeUnsupportedChain      Code = "UNSUPPORTED_CHAIN"

	// Order lifecycle
	CodeOrderSubmissionFailed   Code = "ORDER_SUBMISSION_FAILED"
	CodeOrderNotReconstructable Code = "ORDER_NOT_RECONSTRUCTABLE"
	CodeInvalidOrderObject      Code = "INVALID_ORDER_OBJECT"
	CodeSigningRejected         Code = "SIGNING_REJECTED"
	CodeStatusUnavailable       Code = "STATUS_UNAVAILABLE"

	// Upstream aggregator transport
	CodeAggregatorAPIError     Code = "AGGREGATOR_API_ERROR"
	CodeAggregatorRateLimited  Code = "AGGREGATOR_RATE_LIMITED"
	CodeAllowanceFetchFailed   Code = "ALLOWANCE_FETCH_FAILED"
	CodeTransactionBuildFailed Code = "TRANSACTION_BUILD_FAILED"

	// Wallet / signing infrastructure
	CodeWalletUnavailable Code = "WALLET_UNAVAILABLE"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
