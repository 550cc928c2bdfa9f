package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoginController(api *fakeAPI, clock *fakeClock) *LoginController {
	c := NewLoginController(api, 60*time.Second)
	c.now = clock.Now
	return c
}

func TestRequestCodeInvalidEmailMakesNoCalls(t *testing.T) {
	api := &fakeAPI{}
	c := newTestLoginController(api, newFakeClock())
	for _, email := range []string{"", "   ", "a", "a@b", "a@b.", "no spaces@x.com"} {
		var s LoginSession
		err := c.RequestCode(context.Background(), &s, email, false)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, email)
		assert.Equal(t, FieldEmail, validationErr.Field)
		assert.False(t, s.CodeRequested)
	}
	assert.Empty(t, api.calls)
}

func TestRequestCodeRejection(t *testing.T) {
	api := &fakeAPI{requestCodeErr: &authapi.APIError{StatusCode: 404, Message: "No admin account for this email"}}
	c := newTestLoginController(api, newFakeClock())

	var s LoginSession
	err := c.RequestCode(context.Background(), &s, "a@b.com", false)
	assert.Equal(t, map[string]string{FieldEmail: "No admin account for this email"}, FieldErrors(err))
	assert.False(t, s.CodeRequested)
}

func TestRequestCodeTransportFailureUsesGenericMessage(t *testing.T) {
	api := &fakeAPI{requestCodeErr: &authapi.TransportError{Op: "request", Err: errors.New("connection refused")}}
	c := newTestLoginController(api, newFakeClock())

	var s LoginSession
	err := c.RequestCode(context.Background(), &s, "a@b.com", false)
	assert.Equal(t, map[string]string{FieldEmail: MsgGenericFailure}, FieldErrors(err))
}

func TestResendCooldown(t *testing.T) {
	api := &fakeAPI{}
	clock := newFakeClock()
	c := newTestLoginController(api, clock)

	var s LoginSession
	require.NoError(t, c.RequestCode(context.Background(), &s, "a@b.com", false))
	assert.Equal(t, 60, c.ResendCountdown(&s))

	clock.Advance(59 * time.Second)
	assert.Equal(t, 1, c.ResendCountdown(&s))
	sent, err := c.ResendCode(context.Background(), &s, false)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, []string{"RequestLoginCode"}, api.calls)

	clock.Advance(time.Second)
	sent, err = c.ResendCode(context.Background(), &s, false)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, 60, c.ResendCountdown(&s))
	assert.Len(t, api.calls, 2)
}

func TestResendWithoutRequest(t *testing.T) {
	c := newTestLoginController(&fakeAPI{}, newFakeClock())
	_, err := c.ResendCode(context.Background(), &LoginSession{}, false)
	assert.ErrorIs(t, err, ErrCodeNotRequested)
}

func TestVerifyCodeShape(t *testing.T) {
	api := &fakeAPI{loginCode: "123456"}
	c := newTestLoginController(api, newFakeClock())
	s := LoginSession{Email: "a@b.com", CodeRequested: true}

	for _, code := range []string{"12345", "1234567", "12a456", ""} {
		_, err := c.VerifyCode(context.Background(), &s, code, false)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr, code)
	}
	assert.Empty(t, api.calls)
}

// wrong code, then the right one, with the email kept throughout
func TestLoginScenario(t *testing.T) {
	api := &fakeAPI{
		loginCode:   "482913",
		loginResult: authapi.LoginResult{RequiresTwoFactor: true},
	}
	c := newTestLoginController(api, newFakeClock())

	var s LoginSession
	require.NoError(t, c.RequestCode(context.Background(), &s, "a@b.com", true))

	_, err := c.VerifyCode(context.Background(), &s, "000000", true)
	assert.Equal(t, map[string]string{FieldCode: "Invalid or expired code"}, FieldErrors(err))
	assert.Equal(t, "a@b.com", s.Email)
	assert.True(t, s.CodeRequested)

	outcome, err := c.VerifyCode(context.Background(), &s, "482913", true)
	require.NoError(t, err)
	assert.Equal(t, LoginStepTwoFactorChallenge, outcome.Next)
	assert.Equal(t, "a@b.com", outcome.Email)
	assert.True(t, outcome.RememberMe)
}

func TestVerifyCodeBranches(t *testing.T) {
	tests := []struct {
		name   string
		result authapi.LoginResult
		want   LoginStep
		token  string
	}{
		{"setup", authapi.LoginResult{RequiresTwoFactorSetup: true, SetupToken: "st"}, LoginStepTwoFactorSetup, "st"},
		{"challenge", authapi.LoginResult{RequiresTwoFactor: true}, LoginStepTwoFactorChallenge, ""},
		{"token only", authapi.LoginResult{Token: "t", User: &authapi.User{ID: "1"}}, LoginStepTwoFactorChallenge, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{loginCode: "111111", loginResult: tt.result}
			c := newTestLoginController(api, newFakeClock())
			s := LoginSession{Email: "a@b.com", CodeRequested: true}
			outcome, err := c.VerifyCode(context.Background(), &s, "111111", false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Next)
			assert.Equal(t, tt.token, outcome.SetupToken)
		})
	}
}

func TestCheckRememberedSession(t *testing.T) {
	user := &authapi.User{ID: "7", Email: "a@b.com"}

	api := &fakeAPI{remembered: &authapi.RememberedSession{Success: true, AutoLogin: true, Token: "t", User: user}}
	c := newTestLoginController(api, newFakeClock())
	var s LoginSession
	session, ok := c.CheckRememberedSession(context.Background(), &s, "a@b.com", "device")
	require.True(t, ok)
	assert.Equal(t, "t", session.Token)
	assert.Equal(t, "7", session.User.ID)
	assert.True(t, s.Probed)

	api = &fakeAPI{remembered: &authapi.RememberedSession{Success: true}}
	c = newTestLoginController(api, newFakeClock())
	_, ok = c.CheckRememberedSession(context.Background(), &LoginSession{}, "a@b.com", "device")
	assert.False(t, ok)

	api = &fakeAPI{rememberedErr: &authapi.APIError{StatusCode: 401, Message: "no token"}}
	c = newTestLoginController(api, newFakeClock())
	_, ok = c.CheckRememberedSession(context.Background(), &LoginSession{}, "a@b.com", "device")
	assert.False(t, ok)

	api = &fakeAPI{}
	c = newTestLoginController(api, newFakeClock())
	_, ok = c.CheckRememberedSession(context.Background(), &LoginSession{}, "a@b.com", "")
	assert.False(t, ok)
	assert.Empty(t, api.calls)
}
