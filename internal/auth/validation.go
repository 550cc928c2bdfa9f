package auth

import (
	"regexp"
	"strings"

	"github.com/khanghh/admin-portal/params"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: FieldEmail, Message: MsgEmailRequired}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: FieldEmail, Message: MsgEmailInvalid}
	}
	return nil
}

// ValidateEmail checks the local@domain.tld shape of an email address.
func ValidateEmail(email string) error {
	return validateEmail(strings.TrimSpace(email))
}

// NormalizeDigitCode keeps only ASCII digits and truncates to the code length.
func NormalizeDigitCode(input string) string {
	var b strings.Builder
	for i := 0; i < len(input) && b.Len() < params.DigitCodeLength; i++ {
		if isDigit(input[i]) {
			b.WriteByte(input[i])
		}
	}
	return b.String()
}

// IsCompleteCode reports whether code is exactly six ASCII digits.
func IsCompleteCode(code string) bool {
	if len(code) != params.DigitCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !isDigit(code[i]) {
			return false
		}
	}
	return true
}

func validateDigitCode(code string) error {
	if !IsCompleteCode(code) {
		return &ValidationError{Field: FieldCode, Message: MsgCodeIncomplete}
	}
	return nil
}

func NormalizeRecoveryCode(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
