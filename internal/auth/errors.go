package auth

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes for auth flow failures.
const (
	CodeValidation = "VALIDATION"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
	CodeAuth       = "AUTH"
	CodeInternal   = "INTERNAL"
)

// User-facing messages. Clients match on some of these, keep them stable.
const (
	MsgFieldsRequired      = "All fields are required"
	MsgEmailRequired       = "Email is required"
	MsgResetFieldsRequired = "Email, OTP and Password are required"
	MsgUserExists          = "User already exists"
	MsgUserMissing         = "User does not exist"
	MsgUserNotFound        = "User not found"
	MsgIncorrectPassword   = "Incorrect password"
	MsgAlreadyVerified     = "User already verified"
	MsgInvalidOTP          = "Invalid OTP"
	MsgOTPExpired          = "OTP expired"
	MsgInternal            = "Internal server error"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	// ErrDuplicateEmail is returned by a Store when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

func ErrValidation(msg string) error {
	return oops.Code(CodeValidation).With("message", msg).Errorf("%s", msg)
}

func ErrConflict(msg string) error {
	return oops.Code(CodeConflict).With("message", msg).Errorf("%s", msg)
}

func ErrNotFound(msg string) error {
	return oops.Code(CodeNotFound).With("message", msg).Errorf("%s", msg)
}

func ErrAuth(msg string) error {
	return oops.Code(CodeAuth).With("message", msg).Errorf("%s", msg)
}

// ErrInternal wraps a store, mailer or signing failure.
func ErrInternal(operation string, cause error) error {
	b := oops.Code(CodeInternal).With("operation", operation)
	if cause == nil {
		return b.Errorf("%s failed", operation)
	}
	return b.Wrap(cause)
}

// Code returns the failure class of err. Errors that did not come from
// this package count as internal.
func Code(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return CodeInternal
	}
	code, _ := oopsErr.Code().(string)
	switch code {
	case CodeValidation, CodeConflict, CodeNotFound, CodeAuth:
		return code
	default:
		return CodeInternal
	}
}

// PublicMessage extracts the message safe to show the caller. Internal
// failures never leak their cause.
func PublicMessage(err error) string {
	if Code(err) == CodeInternal {
		return MsgInternal
	}
	oopsErr, _ := oops.AsOops(err)
	if msg, ok := oopsErr.Context()["message"].(string); ok && msg != "" {
		return msg
	}
	return MsgInternal
}
