package auth

import (
	"context"
	"strings"

	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/params"
)

type RegisterAPI interface {
	RegisterAdmin(ctx context.Context, req authapi.RegisterRequest) error
}

type RegistrationForm struct {
	FullName     string
	Email        string
	Organization string
	AgreeToTerms bool
}

// Validate runs the checks in display order and returns the first failure.
func (f *RegistrationForm) Validate() error {
	if f.FullName == "" {
		return &ValidationError{Field: FieldFullName, Message: MsgFullNameRequired}
	}
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if !f.AgreeToTerms {
		return &ValidationError{Field: FieldTerms, Message: MsgTermsRequired}
	}
	return nil
}

func (f *RegistrationForm) trim() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Organization = strings.TrimSpace(f.Organization)
}

type RegistrationController struct {
	api RegisterAPI
}

// Validate checks form without contacting the backend.
func (c *RegistrationController) Validate(form RegistrationForm) error {
	form.trim()
	return form.Validate()
}

// Submit registers a new admin account. The returned form is the trimmed
// input that the flow carries into email verification.
func (c *RegistrationController) Submit(ctx context.Context, form RegistrationForm) (*RegistrationForm, error) {
	form.trim()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	err := c.api.RegisterAdmin(ctx, authapi.RegisterRequest{
		FullName: form.FullName,
		Email:    form.Email,
		Company:  form.Organization,
		Role:     params.AdminRole,
	})
	if err != nil {
		return nil, newBackendRejection(FieldForm, err)
	}
	return &form, nil
}

func NewRegistrationController(api RegisterAPI) *RegistrationController {
	return &RegistrationController{api: api}
}
