package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
)

type LoginAPI interface {
	RequestLoginCode(ctx context.Context, email string, rememberMe bool) error
	CheckRememberedSession(ctx context.Context, email string, deviceToken string) (*authapi.RememberedSession, error)
	VerifyLoginCode(ctx context.Context, req authapi.VerifyLoginRequest) (*authapi.LoginResult, error)
}

// LoginSession is the per attempt state of the login view.
type LoginSession struct {
	Email         string
	RememberMe    bool
	CodeRequested bool
	RequestedAt   time.Time
	Probed        bool
}

type LoginStep string

const (
	LoginStepTwoFactorSetup     LoginStep = "2fa-setup"
	LoginStepTwoFactorChallenge LoginStep = "2fa-login"
)

type LoginOutcome struct {
	Next       LoginStep
	Email      string
	RememberMe bool
	SetupToken string
}

// LoginController requests and verifies one time login codes.
type LoginController struct {
	api      LoginAPI
	cooldown time.Duration
	now      func() time.Time
}

func (c *LoginController) Cooldown(s *LoginSession) Cooldown {
	if !s.CodeRequested {
		return Cooldown{Duration: c.cooldown}
	}
	return Cooldown{StartedAt: s.RequestedAt, Duration: c.cooldown}
}

// ResendCountdown returns the seconds left before a new code may be requested.
func (c *LoginController) ResendCountdown(s *LoginSession) int {
	return c.Cooldown(s).Remaining(c.now())
}

func (c *LoginController) RequestCode(ctx context.Context, s *LoginSession, email string, rememberMe bool) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := c.api.RequestLoginCode(ctx, email, rememberMe); err != nil {
		slog.Debug("Request login code failed", "email", email, "error", err)
		return newBackendRejection(FieldEmail, err)
	}
	s.Email = email
	s.RememberMe = rememberMe
	s.CodeRequested = true
	s.RequestedAt = c.now()
	return nil
}

// ResendCode requests a fresh code for the current email. It does nothing
// and returns false while the resend cooldown is running.
func (c *LoginController) ResendCode(ctx context.Context, s *LoginSession, rememberMe bool) (bool, error) {
	if !s.CodeRequested {
		return false, ErrCodeNotRequested
	}
	if c.Cooldown(s).Active(c.now()) {
		return false, nil
	}
	if err := c.RequestCode(ctx, s, s.Email, rememberMe); err != nil {
		return false, err
	}
	return true, nil
}

func (c *LoginController) VerifyCode(ctx context.Context, s *LoginSession, code string, rememberMe bool) (*LoginOutcome, error) {
	if !s.CodeRequested {
		return nil, ErrCodeNotRequested
	}
	if err := validateDigitCode(code); err != nil {
		return nil, err
	}
	result, err := c.api.VerifyLoginCode(ctx, authapi.VerifyLoginRequest{
		Email:      s.Email,
		Code:       code,
		RememberMe: rememberMe,
	})
	if err != nil {
		return nil, newBackendRejection(FieldCode, err)
	}

	outcome := &LoginOutcome{
		Next:       LoginStepTwoFactorChallenge,
		Email:      s.Email,
		RememberMe: rememberMe,
	}
	// an admin is never signed in by a login code alone
	if result.RequiresTwoFactorSetup {
		outcome.Next = LoginStepTwoFactorSetup
		outcome.SetupToken = result.SetupToken
	}
	return outcome, nil
}

// CheckRememberedSession asks the backend whether a remembered device may
// sign in without a code. Every failure is swallowed.
func (c *LoginController) CheckRememberedSession(ctx context.Context, s *LoginSession, email string, deviceToken string) (*authapi.Session, bool) {
	s.Probed = true
	if email == "" || deviceToken == "" {
		return nil, false
	}
	result, err := c.api.CheckRememberedSession(ctx, email, deviceToken)
	if err != nil {
		slog.Debug("Remembered session probe failed", "email", email, "error", err)
		return nil, false
	}
	if !result.Success || !result.AutoLogin || result.Token == "" || result.User == nil {
		return nil, false
	}
	return &authapi.Session{Token: result.Token, User: *result.User}, true
}

func NewLoginController(api LoginAPI, cooldown time.Duration) *LoginController {
	return &LoginController{
		api:      api,
		cooldown: cooldown,
		now:      time.Now,
	}
}
