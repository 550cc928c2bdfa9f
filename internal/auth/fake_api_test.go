package auth

import (
	"context"
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
)

type fakeAPI struct {
	calls []string

	requestCodeErr error
	remembered     *authapi.RememberedSession
	rememberedErr  error
	loginCode      string
	loginResult    authapi.LoginResult
	registerErr    error
	emailCode      string
	setupToken     string
	secrets        []string
	setupCode      string
	recoveryCodes  []string
	twoFactorReqs  []authapi.TwoFactorLoginRequest
	twoFactorErr   error
}

func (f *fakeAPI) RequestLoginCode(ctx context.Context, email string, rememberMe bool) error {
	f.calls = append(f.calls, "RequestLoginCode")
	return f.requestCodeErr
}

func (f *fakeAPI) CheckRememberedSession(ctx context.Context, email string, deviceToken string) (*authapi.RememberedSession, error) {
	f.calls = append(f.calls, "CheckRememberedSession")
	if f.rememberedErr != nil {
		return nil, f.rememberedErr
	}
	return f.remembered, nil
}

func (f *fakeAPI) VerifyLoginCode(ctx context.Context, req authapi.VerifyLoginRequest) (*authapi.LoginResult, error) {
	f.calls = append(f.calls, "VerifyLoginCode")
	if req.Code != f.loginCode {
		return nil, &authapi.APIError{StatusCode: 400, Message: "Invalid or expired code"}
	}
	result := f.loginResult
	return &result, nil
}

func (f *fakeAPI) RegisterAdmin(ctx context.Context, req authapi.RegisterRequest) error {
	f.calls = append(f.calls, "RegisterAdmin:"+req.Role)
	return f.registerErr
}

func (f *fakeAPI) VerifyEmail(ctx context.Context, email string, code string) (*authapi.EmailVerification, error) {
	f.calls = append(f.calls, "VerifyEmail")
	if code != f.emailCode {
		return nil, &authapi.APIError{StatusCode: 400, Message: "Invalid verification code"}
	}
	return &authapi.EmailVerification{SetupToken: f.setupToken}, nil
}

func (f *fakeAPI) ResendVerificationCode(ctx context.Context, email string) error {
	f.calls = append(f.calls, "ResendVerificationCode")
	return nil
}

func (f *fakeAPI) GenerateTwoFactorSecret(ctx context.Context, setupToken string) (*authapi.TwoFactorSecret, error) {
	f.calls = append(f.calls, "GenerateTwoFactorSecret")
	if len(f.secrets) == 0 {
		return nil, &authapi.TransportError{Op: "/auth/2fa/setup", Err: context.DeadlineExceeded}
	}
	secret := f.secrets[0]
	f.secrets = f.secrets[1:]
	return &authapi.TwoFactorSecret{Secret: secret, QRCode: "data:image/png;base64,AAAA"}, nil
}

func (f *fakeAPI) VerifyTwoFactorSetup(ctx context.Context, setupToken string, code string) (*authapi.TwoFactorSetupResult, error) {
	f.calls = append(f.calls, "VerifyTwoFactorSetup")
	if code != f.setupCode {
		return nil, &authapi.APIError{StatusCode: 400, Message: "Invalid code"}
	}
	return &authapi.TwoFactorSetupResult{RecoveryCodes: f.recoveryCodes}, nil
}

func (f *fakeAPI) VerifyTwoFactorLogin(ctx context.Context, req authapi.TwoFactorLoginRequest) (*authapi.TwoFactorLoginResult, error) {
	f.calls = append(f.calls, "VerifyTwoFactorLogin")
	f.twoFactorReqs = append(f.twoFactorReqs, req)
	if f.twoFactorErr != nil {
		return nil, f.twoFactorErr
	}
	return &authapi.TwoFactorLoginResult{
		Session: authapi.Session{Token: "tok", User: authapi.User{ID: "1", Email: req.Email, Role: "admin"}},
	}, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}
