package service

import (
	"errors"
	"fmt"
)

// Deny reasons. The strings double as API error codes.
var (
	ErrNotFound         = errors.New("not_found")
	ErrMethodMismatch   = errors.New("method_mismatch")
	ErrValidationFailed = errors.New("validation_failed")
	ErrNotRegistered    = errors.New("pin_not_registered")
	ErrTransient        = errors.New("transient")

	// ErrInvalidPIN is a ValidationFailed for the PIN gate.
	ErrInvalidPIN = fmt.Errorf("%w: invalid_pin", ErrValidationFailed)
)

// Sign-up and verification errors.
var (
	ErrInvalidInput        = errors.New("invalid_request")
	ErrAlreadyRegistered   = errors.New("already_registered")
	ErrVerificationMissing = errors.New("verification_not_found")
	ErrVerificationExpired = errors.New("verification_expired")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrTooManyAttempts     = errors.New("too_many_attempts")
	ErrNotVerified         = errors.New("phone_not_verified")
)

// User-facing messages.
const (
	MsgAccountNotFound  = "Account not found. Please sign up first."
	MsgMethodMismatch   = "This account was not created with %s sign-in. Please use the appropriate sign-in method."
	MsgEmailValidation  = "Email validation failed. Please sign up first."
	MsgEmailPassword    = "Invalid email or password"
	MsgPhonePassword    = "Invalid phone number or password"
	MsgFederatedFailed  = "Google sign-in failed. Please try again."
	MsgTransient        = "Something went wrong. Please try again."
	MsgPINNotRegistered = "No PIN has been set for this account."
	MsgInvalidPIN       = "Invalid PIN."
	MsgPhoneRegistered  = "This phone number is already registered. Please use a different number or try logging in."
	MsgEmailRegistered  = "An account with this email already exists. Please sign in instead."
)

// UserError attaches a message that is safe to show the user.
type UserError struct {
	Err error
	Msg string
}

func (e *UserError) Error() string { return e.Err.Error() + ": " + e.Msg }
func (e *UserError) Unwrap() error { return e.Err }

func withMessage(err error, msg string) error { return &UserError{Err: err, Msg: msg} }

func invalidInput(msg string) error { return withMessage(ErrInvalidInput, msg) }

// Message returns the user-facing text for a service error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Msg
	}

	switch {
	case errors.Is(err, ErrInvalidPIN):
		return MsgInvalidPIN
	case errors.Is(err, ErrNotRegistered):
		return MsgPINNotRegistered
	case errors.Is(err, ErrNotFound):
		return MsgAccountNotFound
	case errors.Is(err, ErrAlreadyRegistered):
		return "This account is already registered. Please sign in instead."
	case errors.Is(err, ErrVerificationMissing):
		return "Verification not found. Please request a new code."
	case errors.Is(err, ErrVerificationExpired):
		return "The verification code has expired. Please request a new code."
	case errors.Is(err, ErrInvalidCode):
		return "Invalid verification code."
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many attempts. Please request a new code."
	case errors.Is(err, ErrNotVerified):
		return "Please verify your phone number first."
	case errors.Is(err, ErrInvalidInput):
		return "The request is invalid."
	case errors.Is(err, ErrAttemptBusy):
		return "A PIN attempt is already in progress."
	default:
		return MsgTransient
	}
}
