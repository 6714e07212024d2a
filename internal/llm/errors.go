package llm

import "fmt"

// Code classifies a generation failure. The set is closed: every provider
// outcome maps onto one of these rather than leaking provider-specific
// error types to callers.
type Code string

const (
	// CodeMissingAPIKey means no credential is configured; the call is
	// never attempted.
	CodeMissingAPIKey Code = "MISSING_API_KEY"

	// CodeInvalidAPIKey means the provider rejected the credential.
	CodeInvalidAPIKey Code = "INVALID_API_KEY"

	// CodeRateLimit means the provider throttled the request.
	CodeRateLimit Code = "RATE_LIMIT"

	// CodeServiceUnavailable means a 5xx-class provider failure.
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"

	// CodeEmptyResponse means the provider returned no usable content.
	CodeEmptyResponse Code = "EMPTY_RESPONSE"

	// CodeTimeout means the provider call exceeded its deadline.
	CodeTimeout Code = "TIMEOUT"

	// CodeAPIError covers any other provider-reported failure.
	CodeAPIError Code = "API_ERROR"
)

// Error is a typed generation failure with a suggested HTTP status.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("llm: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, message string, status int, err error) *Error {
	return &Error{Code: code, Message: message, Status: status, Err: err}
}
