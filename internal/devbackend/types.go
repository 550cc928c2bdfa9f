package devbackend

import (
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
)

// Account is an admin account as stored by the dev backend.
type Account struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	TOTPSecret    string    `json:"totpSecret"`
	PendingSecret string    `json:"pendingSecret"`
	RecoveryCodes []string  `json:"recoveryCodes"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (a *Account) User() authapi.User {
	return authapi.User{
		ID:       a.ID,
		Email:    a.Email,
		FullName: a.FullName,
		Company:  a.Company,
		Role:     a.Role,
	}
}

type codePurpose string

const (
	purposeLogin     codePurpose = "login"
	purposeVerify    codePurpose = "verify"
	purposeTwoFactor codePurpose = "2fa"
)

// CodeRecord is an issued one-time code. Only its hash is kept.
type CodeRecord struct {
	Hash      string    `json:"hash"`
	Attempts  int       `json:"attempts"`
	Serial    int64     `json:"serial"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type emailCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type errorResponse struct {
	Message string `json:"message"`
}
