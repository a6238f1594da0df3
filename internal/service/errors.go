package service

import "github.com/pkg/errors"

type ErrorCode string

const (
	ErrorCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrorCodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrorCodeInvalidBody        ErrorCode = "INVALID_BODY"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrorCodeRegistrationClosed ErrorCode = "REGISTRATION_CLOSED"
	ErrorCodeStageMismatch      ErrorCode = "STAGE_MISMATCH"
	ErrorCodeTeamInactive       ErrorCode = "TEAM_INACTIVE"
	ErrorCodePaymentRequired    ErrorCode = "PAYMENT_REQUIRED"
	ErrorCodeAlreadyPaid        ErrorCode = "ALREADY_PAID"
	ErrorCodeNoFee              ErrorCode = "NO_FEE"
	ErrorCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrorCodeInvalidCallback    ErrorCode = "INVALID_CALLBACK"
	ErrorCodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
	ErrorCodeUpstream           ErrorCode = "UPSTREAM"
	ErrorCodeUnspecified        ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// asServiceError extracts the *Error returned from a transaction function.
// Failures of the transaction itself become UNSPECIFIED.
func asServiceError(err error) *Error {
	if err == nil {
		return nil
	}

	var res *Error
	if errors.As(err, &res) {
		return res
	}
	return NewError(ErrorCodeUnspecified, "internal error")
}
