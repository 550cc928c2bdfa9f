package handlers

import (
	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/authapi"
)

// BackendAPI is the part of the auth backend the flow talks to.
type BackendAPI interface {
	auth.LoginAPI
	auth.RegisterAPI
	auth.VerificationAPI
	auth.EnrollmentAPI
	auth.ChallengeAPI
}

type CredentialStore interface {
	Save(sessionID string, session authapi.Session) error
	Load(sessionID string) (*authapi.Session, error)
	Delete(sessionID string) error
}
