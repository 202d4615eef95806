package pisignage

import (
	"errors"
	"fmt"
)

// AuthError means the server rejected the credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "pisignage: authentication failed"
	}
	return fmt.Sprintf("pisignage: authentication failed: %s", e.Message)
}

// OTPRequiredError means the account has two-factor auth enabled and the
// login must be repeated with a one-time password.
type OTPRequiredError struct {
}

func (e *OTPRequiredError) Error() string {
	return "pisignage: one-time password required"
}

// OTPInvalidError means the supplied one-time password was rejected. Kept
// distinct from AuthError so callers can re-prompt for the OTP only.
type OTPInvalidError struct {
	Message string
}

func (e *OTPInvalidError) Error() string {
	if e.Message == "" {
		return "pisignage: invalid one-time password"
	}
	return fmt.Sprintf("pisignage: invalid one-time password: %s", e.Message)
}

// ConnectError means the server could not be reached at all.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("pisignage: connection failed: %s", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// TimeoutError means the server did not answer within the request timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pisignage: request timed out: %s", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// APIError is a request the server understood but refused: non-2xx status
// or an envelope with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pisignage: api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("pisignage: api error (status %d)", e.StatusCode)
}

func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsOTPRequired(err error) bool {
	var oe *OTPRequiredError
	return errors.As(err, &oe)
}

func IsOTPInvalid(err error) bool {
	var oe *OTPInvalidError
	return errors.As(err, &oe)
}

func IsConnectError(err error) bool {
	var ce *ConnectError
	return errors.As(err, &ce)
}

func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
