package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both unknown email and wrong password
	// so callers cannot tell which part failed.
	ErrInvalidCredentials       = errors.New("incorrect email or password")
	ErrEmailTaken               = errors.New("email already registered")
	ErrUsernameTaken            = errors.New("username already taken")
	ErrUserInactive             = errors.New("account is inactive")
	ErrAccountNotActivated      = errors.New("account is not activated")
	ErrAccountAlreadyActivated  = errors.New("account is already activated")
	ErrPasswordLoginUnavailable = errors.New("this account uses Google sign-in")
	ErrGoogleTokenInvalid       = errors.New("invalid Google token")
)

// Activation / password reset errors
var (
	ErrActivationTokenInvalid = errors.New("invalid activation token")
	ErrResetTokenInvalid      = errors.New("invalid or expired reset token")
	ErrResetTokenExpired      = errors.New("reset token has expired")
	ErrWeakPassword           = errors.New("password does not meet strength requirements")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("no valid otp found")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPMaxAttempts = errors.New("too many otp attempts")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPThrottled   = errors.New("otp resend limit exceeded")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Device errors
var (
	ErrDeviceNotFound = errors.New("trusted device not found")
)

// OTPInvalidError reports a failed code comparison along with how many
// attempts remain before the challenge exhausts. errors.Is matches it
// against ErrOTPInvalid.
type OTPInvalidError struct {
	Remaining int
}

func (e *OTPInvalidError) Error() string {
	return fmt.Sprintf("invalid otp code, %d attempts remaining", e.Remaining)
}

func (e *OTPInvalidError) Is(target error) bool {
	return target == ErrOTPInvalid
}

// PasswordPolicyError carries the first strength rule a password failed.
// errors.Is matches it against ErrWeakPassword.
type PasswordPolicyError struct {
	Reason string
}

func (e *PasswordPolicyError) Error() string {
	return e.Reason
}

func (e *PasswordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}
