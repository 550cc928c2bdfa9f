package devbackend

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrAccountNotFound      = errors.New("no admin account found for this email")
	ErrAccountExists        = errors.New("an admin account with this email already exists")
	ErrEmailNotVerified     = errors.New("email address is not verified")
	ErrAlreadyVerified      = errors.New("email address is already verified")
	ErrCodeNotFound         = errors.New("code expired or was not requested")
	ErrTooManyAttempts      = errors.New("too many attempts, request a new code")
	ErrTokenInvalid         = errors.New("invalid or expired token")
	ErrNoPendingSecret      = errors.New("no two-factor secret was generated")
	ErrTwoFactorNotEnrolled = errors.New("two-factor authentication is not set up")
	ErrTwoFactorEnrolled    = errors.New("two-factor authentication is already set up")
	ErrLoginNotVerified     = errors.New("sign-in code was not verified")
)

type VerifyFailError struct {
	AttemptsLeft int
}

func (e *VerifyFailError) Error() string {
	if e.AttemptsLeft == 1 {
		return "invalid code, 1 attempt left"
	}
	return fmt.Sprintf("invalid code, %d attempts left", e.AttemptsLeft)
}

func NewVerifyFailError(attemptsLeft int) *VerifyFailError {
	return &VerifyFailError{
		AttemptsLeft: attemptsLeft,
	}
}
