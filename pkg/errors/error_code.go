package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound ErrorCode = 200
	ErrCodeUnknownAsset ErrorCode = 206

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodeAcquisitionFailed     ErrorCode = 710
	ErrCodeStreamFailed          ErrorCode = 711
	ErrCodeMalformedTick         ErrorCode = 712

	// Store errors (800-849)
	ErrCodeStoreClosed           ErrorCode = 800
	ErrCodeInvalidModeTransition ErrorCode = 801

	// Insight errors (900-999)
	ErrCodeModelNotConfigured    ErrorCode = 900
	ErrCodeModelInvocationFailed ErrorCode = 901
	ErrCodeModelDecodeFailed     ErrorCode = 902
)

// String returns a short, stable name for the code. Used as a log field.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnknown:
		return "unknown"
	case ErrCodeInvalidParameter:
		return "invalid_parameter"
	case ErrCodeInvalidConfiguration:
		return "invalid_configuration"
	case ErrCodeMissingParameter:
		return "missing_parameter"
	case ErrCodeInvalidVersion:
		return "invalid_version"
	case ErrCodeDataNotFound:
		return "data_not_found"
	case ErrCodeUnknownAsset:
		return "unknown_asset"
	case ErrCodeMarketDataFetchFailed:
		return "market_data_fetch_failed"
	case ErrCodeMarketDataParseFailed:
		return "market_data_parse_failed"
	case ErrCodeInvalidProvider:
		return "invalid_provider"
	case ErrCodeAcquisitionFailed:
		return "acquisition_failed"
	case ErrCodeStreamFailed:
		return "stream_failed"
	case ErrCodeMalformedTick:
		return "malformed_tick"
	case ErrCodeStoreClosed:
		return "store_closed"
	case ErrCodeInvalidModeTransition:
		return "invalid_mode_transition"
	case ErrCodeModelNotConfigured:
		return "model_not_configured"
	case ErrCodeModelInvocationFailed:
		return "model_invocation_failed"
	case ErrCodeModelDecodeFailed:
		return "model_decode_failed"
	default:
		return "unknown"
	}
}
