package auth

import (
	"errors"

	"github.com/khanghh/admin-portal/internal/authapi"
)

const (
	FieldEmail        = "email"
	FieldFullName     = "fullName"
	FieldTerms        = "agreeToTerms"
	FieldCode         = "code"
	FieldRecoveryCode = "recoveryCode"
	FieldForm         = "form"
)

var (
	MsgEmailRequired        = "Email is required."
	MsgEmailInvalid         = "Please enter a valid email address."
	MsgFullNameRequired     = "Full name is required."
	MsgTermsRequired        = "You must agree to the terms and conditions."
	MsgCodeIncomplete       = "Please enter the complete 6-digit code."
	MsgRecoveryCodeRequired = "Please enter a recovery code."
	MsgGenericFailure       = "Something went wrong. Please try again."
)

var (
	ErrCodeNotRequested = errors.New("login code has not been requested")
	ErrNoSecret         = errors.New("two-factor secret has not been issued")
	ErrWrongStep        = errors.New("action not allowed at the current step")
	ErrAlreadyVerified  = errors.New("email already verified")
)

// ValidationError is a local, field scoped failure raised before any
// backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BackendRejection is a failed round trip to the auth backend. Message is
// safe to show to the user.
type BackendRejection struct {
	Field   string
	Message string
	Err     error
}

func (e *BackendRejection) Error() string {
	return e.Message
}

func (e *BackendRejection) Unwrap() error {
	return e.Err
}

func newBackendRejection(field string, err error) *BackendRejection {
	msg, ok := authapi.Message(err)
	if !ok {
		msg = MsgGenericFailure
	}
	return &BackendRejection{Field: field, Message: msg, Err: err}
}

// FieldErrors flattens err into a field to message map for rendering.
func FieldErrors(err error) map[string]string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return map[string]string{validationErr.Field: validationErr.Message}
	}
	var rejection *BackendRejection
	if errors.As(err, &rejection) {
		field := rejection.Field
		if field == "" {
			field = FieldForm
		}
		return map[string]string{field: rejection.Message}
	}
	return map[string]string{FieldForm: MsgGenericFailure}
}
