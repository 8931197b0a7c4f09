package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField: "Required field is missing",
	CodeInvalidInput:  "Invalid input provided",
	CodeInvalidFormat: "Invalid data format",
	CodeNotFound:      "Resource not found",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",
	CodeUnauthorized:         "Missing or invalid API credential",

	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Amount codec
	CodeInvalidAmountFormat: "Invalid amount format",

	// Quote fetching
	CodeQuoteUnavailable:      "Unable to get swap quote. Please check your token selection and amount.",
	CodeCrossChainUnsupported: "Cross-chain swaps are not supported on this path",
	CodeUnsupportedChain:      "Unsupported chain ID",

	// Order lifecycle
	CodeOrderSubmissionFailed:   "Failed to submit order",
	CodeOrderNotReconstructable: "Order cannot be reconstructed for submission",
	CodeInvalidOrderObject:      "Order object is missing required behavior",
	CodeSigningRejected:         "Wallet declined to sign the order",
	CodeStatusUnavailable:       "Failed to fetch order status",

	// Upstream aggregator transport
	CodeAggregatorAPIError:     "Aggregator API error",
	CodeAggregatorRateLimited:  "Aggregator rate limit exceeded",
	CodeAllowanceFetchFailed:   "Failed to fetch token allowance",
	CodeTransactionBuildFailed: "Failed to build transaction",

	// Wallet / signing infrastructure
	CodeWalletUnavailable: "Wallet provider unavailable",

	// Circuit breaker
	CodeCircuitOpen: "Circuit breaker is open",
}
