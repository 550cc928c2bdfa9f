package auth

import (
	"context"

	"github.com/khanghh/admin-portal/internal/authapi"
)

type ChallengeAPI interface {
	VerifyTwoFactorLogin(ctx context.Context, req authapi.TwoFactorLoginRequest) (*authapi.TwoFactorLoginResult, error)
}

type ChallengeMode string

const (
	ModeAuthenticator ChallengeMode = "authenticator"
	ModeRecovery      ChallengeMode = "recovery"
)

func (m ChallengeMode) Valid() bool {
	return m == ModeAuthenticator || m == ModeRecovery
}

// ChallengeState is the two-factor login view state. The selected mode
// survives failed attempts.
type ChallengeState struct {
	Mode ChallengeMode
}

func NewChallengeState() *ChallengeState {
	return &ChallengeState{Mode: ModeAuthenticator}
}

type ChallengeInput struct {
	Code         string
	RecoveryCode string
}

type TwoFactorChallengeController struct {
	api ChallengeAPI
}

func (c *TwoFactorChallengeController) SetMode(s *ChallengeState, mode ChallengeMode) {
	if mode.Valid() {
		s.Mode = mode
	}
}

func (c *TwoFactorChallengeController) CanSubmit(s *ChallengeState, in ChallengeInput) bool {
	if s.Mode == ModeRecovery {
		return NormalizeRecoveryCode(in.RecoveryCode) != ""
	}
	return IsCompleteCode(in.Code)
}

// Submit sends the value of the active mode only. The inactive field is
// never serialized.
func (c *TwoFactorChallengeController) Submit(ctx context.Context, s *ChallengeState, email string, rememberMe bool, in ChallengeInput) (*authapi.TwoFactorLoginResult, error) {
	req := authapi.TwoFactorLoginRequest{
		Email:      email,
		RememberMe: rememberMe,
	}
	field := FieldCode
	switch s.Mode {
	case ModeRecovery:
		field = FieldRecoveryCode
		req.RecoveryCode = NormalizeRecoveryCode(in.RecoveryCode)
		if req.RecoveryCode == "" {
			return nil, &ValidationError{Field: FieldRecoveryCode, Message: MsgRecoveryCodeRequired}
		}
	default:
		if err := validateDigitCode(in.Code); err != nil {
			return nil, err
		}
		req.Code = in.Code
	}

	result, err := c.api.VerifyTwoFactorLogin(ctx, req)
	if err != nil {
		return nil, newBackendRejection(field, err)
	}
	return result, nil
}

func NewTwoFactorChallengeController(api ChallengeAPI) *TwoFactorChallengeController {
	return &TwoFactorChallengeController{api: api}
}
