package errors

import "fmt"

// ErrorCode is the closed set of application error codes. Controllers map
// these onto HTTP statuses; services never deal with HTTP directly.
type ErrorCode string

const (
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"

	// ErrInvalidRequestData marks malformed request payloads (bad JSON,
	// unparseable IDs), as opposed to ErrInvalidInput which marks inputs
	// that parse but violate a business rule.
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"

	// ErrInvalidState marks an entity that is not in the status the
	// operation requires (e.g. answering an already-answered swap request).
	ErrInvalidState ErrorCode = "INVALID_STATE"

	// ErrConflict marks a lost concurrency race on a conditional status
	// transition. The caller may resubmit; the server never retries.
	ErrConflict ErrorCode = "CONFLICT"

	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
)

// AppError carries an application error code alongside a user-facing
// message and the wrapped cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the application code from an error, defaulting to
// ErrInternalServer for anything that is not an *AppError.
func CodeOf(err error) ErrorCode {
	if ae, ok := err.(*AppError); ok && ae != nil {
		return ae.Code
	}
	return ErrInternalServer
}
