package auth

import (
	"context"
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
)

type VerificationAPI interface {
	VerifyEmail(ctx context.Context, email string, code string) (*authapi.EmailVerification, error)
	ResendVerificationCode(ctx context.Context, email string) error
}

type VerificationStatus string

const (
	StatusEnteringCode VerificationStatus = "entering-code"
	StatusVerifying    VerificationStatus = "verifying"
	StatusVerified     VerificationStatus = "verified"
)

// VerificationState is the email verification view state of one pending
// registration.
type VerificationState struct {
	Email      string
	Boxes      DigitBoxes
	SentAt     time.Time
	Status     VerificationStatus
	VerifiedAt time.Time
	SetupToken string
	// Resumed is set when the user came back from two-factor setup. The
	// email is already verified, so no code is asked for and the view waits
	// for Continue instead of advancing on its own.
	Resumed bool
}

func NewVerificationState(email string, sentAt time.Time) *VerificationState {
	return &VerificationState{
		Email:  email,
		SentAt: sentAt,
		Status: StatusEnteringCode,
	}
}

// NewResumedVerificationState is the view state for an email that was
// verified earlier in the same flow.
func NewResumedVerificationState(email string, setupToken string) *VerificationState {
	return &VerificationState{
		Email:      email,
		Status:     StatusVerified,
		SetupToken: setupToken,
		Resumed:    true,
	}
}

type EmailVerificationController struct {
	api           VerificationAPI
	cooldown      time.Duration
	verifiedDelay time.Duration
	now           func() time.Time
}

func (c *EmailVerificationController) ResendCountdown(s *VerificationState) int {
	return Cooldown{StartedAt: s.SentAt, Duration: c.cooldown}.Remaining(c.now())
}

// Verify submits the code currently held in the digit boxes. Any backend
// failure clears every box and moves focus back to the first one.
func (c *EmailVerificationController) Verify(ctx context.Context, s *VerificationState) error {
	if s.Status == StatusVerified {
		return ErrAlreadyVerified
	}
	code := s.Boxes.Code()
	if err := validateDigitCode(code); err != nil {
		return err
	}

	s.Status = StatusVerifying
	result, err := c.api.VerifyEmail(ctx, s.Email, code)
	if err != nil {
		s.Status = StatusEnteringCode
		s.Boxes.Clear()
		return newBackendRejection(FieldCode, err)
	}
	s.Status = StatusVerified
	s.VerifiedAt = c.now()
	s.SetupToken = result.SetupToken
	return nil
}

// Resend asks for a new verification code. It returns false without calling
// the backend while the cooldown is running.
func (c *EmailVerificationController) Resend(ctx context.Context, s *VerificationState) (bool, error) {
	if s.Status == StatusVerified {
		return false, ErrAlreadyVerified
	}
	if c.ResendCountdown(s) > 0 {
		return false, nil
	}
	if err := c.api.ResendVerificationCode(ctx, s.Email); err != nil {
		return false, newBackendRejection(FieldCode, err)
	}
	s.SentAt = c.now()
	s.Boxes.Clear()
	return true, nil
}

// ReadyToComplete reports whether the verified celebration has been shown
// for long enough to hand over to two-factor enrollment.
func (c *EmailVerificationController) ReadyToComplete(s *VerificationState) bool {
	if s.Status != StatusVerified || s.Resumed {
		return false
	}
	return !c.now().Before(s.VerifiedAt.Add(c.verifiedDelay))
}

// Continue returns the setup token of a verified email so enrollment can be
// entered again.
func (c *EmailVerificationController) Continue(s *VerificationState) (string, error) {
	if s.Status != StatusVerified {
		return "", ErrWrongStep
	}
	return s.SetupToken, nil
}

func (c *EmailVerificationController) VerifiedDelay() time.Duration {
	return c.verifiedDelay
}

func NewEmailVerificationController(api VerificationAPI, cooldown, verifiedDelay time.Duration) *EmailVerificationController {
	return &EmailVerificationController{
		api:           api,
		cooldown:      cooldown,
		verifiedDelay: verifiedDelay,
		now:           time.Now,
	}
}
