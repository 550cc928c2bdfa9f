package auth

import (
	"bytes"
	"context"

	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/params"
)

type EnrollmentAPI interface {
	GenerateTwoFactorSecret(ctx context.Context, setupToken string) (*authapi.TwoFactorSecret, error)
	VerifyTwoFactorSetup(ctx context.Context, setupToken string, code string) (*authapi.TwoFactorSetupResult, error)
}

type EnrollmentStep int

const (
	StepIntro EnrollmentStep = iota + 1
	StepProvisioning
	StepRecovery
)

// EnrollmentState is the two-factor setup wizard state. Secret and QRCode
// are only held while the wizard is on the provisioning step.
type EnrollmentState struct {
	Step          EnrollmentStep
	Secret        string
	QRCode        string
	RecoveryCodes []string
	Session       *authapi.Session
}

func NewEnrollmentState() *EnrollmentState {
	return &EnrollmentState{Step: StepIntro}
}

type TwoFactorEnrollmentController struct {
	api EnrollmentAPI
}

// Begin requests a new secret and moves to the provisioning step. Any
// secret issued before is dropped first and never reused.
func (c *TwoFactorEnrollmentController) Begin(ctx context.Context, s *EnrollmentState, setupToken string) error {
	if s.Step == StepRecovery {
		return ErrWrongStep
	}
	s.Secret = ""
	s.QRCode = ""
	s.Step = StepIntro

	secret, err := c.api.GenerateTwoFactorSecret(ctx, setupToken)
	if err != nil {
		return newBackendRejection(FieldForm, err)
	}
	s.Secret = secret.Secret
	s.QRCode = secret.QRCode
	s.Step = StepProvisioning
	return nil
}

// Verify confirms the authenticator app is set up. On failure the secret
// stays live so the user can retry without requesting a new one.
func (c *TwoFactorEnrollmentController) Verify(ctx context.Context, s *EnrollmentState, setupToken string, code string) error {
	if s.Step != StepProvisioning {
		return ErrWrongStep
	}
	if s.Secret == "" {
		return ErrNoSecret
	}
	if err := validateDigitCode(code); err != nil {
		return err
	}
	result, err := c.api.VerifyTwoFactorSetup(ctx, setupToken, code)
	if err != nil {
		return newBackendRejection(FieldCode, err)
	}

	s.Step = StepRecovery
	s.Secret = ""
	s.QRCode = ""
	s.RecoveryCodes = result.RecoveryCodes
	if result.Token != "" && result.User != nil {
		s.Session = &authapi.Session{Token: result.Token, User: *result.User}
	}
	return nil
}

// Finish is the explicit acknowledgement that the recovery codes were saved.
func (c *TwoFactorEnrollmentController) Finish(s *EnrollmentState) ([]string, error) {
	if s.Step != StepRecovery {
		return nil, ErrWrongStep
	}
	return s.RecoveryCodes, nil
}

// RecoveryCodesFile renders the plain text download of codes.
func RecoveryCodesFile(codes []string) (string, []byte) {
	var buf bytes.Buffer
	buf.WriteString(params.RecoveryCodesHeader)
	buf.WriteString("\n\n")
	for _, code := range codes {
		buf.WriteString(code)
		buf.WriteByte('\n')
	}
	return params.RecoveryCodesFilename, buf.Bytes()
}

func NewTwoFactorEnrollmentController(api EnrollmentAPI) *TwoFactorEnrollmentController {
	return &TwoFactorEnrollmentController{api: api}
}
