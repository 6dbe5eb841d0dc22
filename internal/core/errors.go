package core

// Error codes for domain errors.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeStorageFailure  = "storage_failure"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeSessionReplaced = "session_replaced"
	ErrCodeInvalidMessage  = "invalid_message"
)

// CoreError wraps a code and human-readable message. It is delivered to a
// single client as an error event, never propagated across connections.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
