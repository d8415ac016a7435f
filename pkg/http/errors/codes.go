package errors

// Error codes for standardized error responses
const (
	// Input errors
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeInvalidJSON   = "invalid_json"
	ErrCodeUnprocessable = "unprocessable"

	// Resource errors
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
