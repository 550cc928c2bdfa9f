package auth

import (
	"context"
	"testing"

	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		form  RegistrationForm
		field string
		msg   string
	}{
		{"all empty", RegistrationForm{}, FieldFullName, MsgFullNameRequired},
		{"no email", RegistrationForm{FullName: "Ada"}, FieldEmail, MsgEmailRequired},
		{"bad email", RegistrationForm{FullName: "Ada", Email: "ada"}, FieldEmail, MsgEmailInvalid},
		{"no terms", RegistrationForm{FullName: "Ada Lovelace", Email: "ada@x.com"}, FieldTerms, MsgTermsRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c := NewRegistrationController(api)
			_, err := c.Submit(context.Background(), tt.form)
			assert.Equal(t, map[string]string{tt.field: tt.msg}, FieldErrors(err))
			assert.Empty(t, api.calls)
		})
	}
}

func TestRegistrationSubmit(t *testing.T) {
	api := &fakeAPI{}
	c := NewRegistrationController(api)
	form, err := c.Submit(context.Background(), RegistrationForm{
		FullName:     "  Ada Lovelace ",
		Email:        "ada@x.com ",
		Organization: "Analytical Engines",
		AgreeToTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", form.FullName)
	assert.Equal(t, "ada@x.com", form.Email)
	assert.Equal(t, []string{"RegisterAdmin:admin"}, api.calls)
}

func TestRegistrationRejectedVerbatim(t *testing.T) {
	api := &fakeAPI{registerErr: &authapi.APIError{StatusCode: 409, Message: "Email already registered"}}
	c := NewRegistrationController(api)
	_, err := c.Submit(context.Background(), RegistrationForm{FullName: "Ada", Email: "ada@x.com", AgreeToTerms: true})
	assert.Equal(t, map[string]string{FieldForm: "Email already registered"}, FieldErrors(err))
}
