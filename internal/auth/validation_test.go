package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.com", "admin@example.co.uk", " ada@x.com "}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	err := ValidateEmail("")
	assert.Equal(t, map[string]string{FieldEmail: MsgEmailRequired}, FieldErrors(err))

	invalid := []string{"a", "a@b", "@b.com", "a b@c.com", "a@b c.com", "a@@b"}
	for _, email := range invalid {
		err := ValidateEmail(email)
		assert.Equal(t, map[string]string{FieldEmail: MsgEmailInvalid}, FieldErrors(err), email)
	}
}

func TestDigitCode(t *testing.T) {
	assert.True(t, IsCompleteCode("123456"))
	assert.False(t, IsCompleteCode("12345"))
	assert.False(t, IsCompleteCode("1234567"))
	assert.False(t, IsCompleteCode("12345a"))
	assert.False(t, IsCompleteCode("１２３４５６"))

	assert.Equal(t, "123456", NormalizeDigitCode("12-34 56 78"))
	assert.Equal(t, "", NormalizeDigitCode("abc"))
}

func TestNormalizeRecoveryCode(t *testing.T) {
	assert.Equal(t, "AAAA-1111-XX", NormalizeRecoveryCode("  aaaa-1111-xx "))
	assert.Equal(t, "", NormalizeRecoveryCode("   "))
}
