package flow

import (
	"testing"
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func mustReduce(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	var err error
	for _, a := range actions {
		s, err = Reduce(s, a, testNow)
		require.NoError(t, err, "%T", a)
	}
	return s
}

func TestOpen(t *testing.T) {
	s := mustReduce(t, State{}, Open{Mode: ViewRegister})
	assert.Equal(t, ViewRegister, s.View)
	assert.Equal(t, ViewRegister, s.InitialMode)

	s = mustReduce(t, State{}, Open{Mode: "bogus"})
	assert.Equal(t, ViewLogin, s.View)

	_, err := Reduce(State{}, SwitchMode{Mode: ViewRegister}, testNow)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSwitchModeOnlyFromEntryViews(t *testing.T) {
	s := mustReduce(t, State{}, Open{Mode: ViewLogin}, SwitchMode{Mode: ViewRegister})
	assert.Equal(t, ViewRegister, s.View)

	s = mustReduce(t, s, RegisterSucceeded{Email: "ada@x.com", FullName: "Ada"})
	_, err := Reduce(s, SwitchMode{Mode: ViewLogin}, testNow)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

// email verification always leads to enrollment
func TestEmailVerifiedAlwaysEnrolls(t *testing.T) {
	s := mustReduce(t, State{},
		Open{Mode: ViewRegister},
		RegisterSucceeded{Email: "ada@x.com", FullName: "Ada Lovelace"},
	)
	s.Session = &authapi.Session{Token: "stale"}
	s = mustReduce(t, s, EmailVerified{SetupToken: "st"})
	assert.Equal(t, ViewTwoFactorSet, s.View)
	assert.Equal(t, "st", s.SetupToken)
}

func TestSuccessOnlyAfterSecondFactor(t *testing.T) {
	views := []State{
		mustReduce(t, State{}, Open{Mode: ViewLogin}),
		mustReduce(t, State{}, Open{Mode: ViewRegister}),
		mustReduce(t, State{}, Open{Mode: ViewRegister}, RegisterSucceeded{Email: "a@b.com", FullName: "A"}),
	}
	for _, s := range views {
		_, err := Reduce(s, SetupCompleted{}, testNow)
		assert.ErrorIs(t, err, ErrIllegalTransition, s.View)
	}

	s := mustReduce(t, State{}, Open{Mode: ViewLogin}, LoginNeedsChallenge{Email: "a@b.com", RememberMe: true})
	assert.Equal(t, ViewTwoFactor, s.View)
	assert.True(t, s.RememberMe)
	_, err := Reduce(s, SetupCompleted{}, testNow)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	s = mustReduce(t, s, TwoFactorLoginSucceeded{Session: authapi.Session{Token: "t"}, DeviceToken: "d"})
	assert.Equal(t, ViewSuccess, s.View)
	assert.Equal(t, "t", s.Session.Token)
	assert.Equal(t, "d", s.DeviceToken)
	assert.Equal(t, testNow, s.SuccessAt)
	assert.False(t, s.View.CanGoBack())

	_, err = Reduce(s, Back{}, testNow)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestBack(t *testing.T) {
	reg := mustReduce(t, State{}, Open{Mode: ViewRegister}, RegisterSucceeded{Email: "ada@x.com", FullName: "Ada"})
	assert.Equal(t, ViewRegister, mustReduce(t, reg, Back{}).View)

	setup := mustReduce(t, reg, EmailVerified{})
	back := mustReduce(t, setup, Back{})
	assert.Equal(t, ViewVerification, back.View)
	assert.Equal(t, "ada@x.com", back.Pending.Email)

	login := mustReduce(t, State{}, Open{Mode: ViewLogin}, LoginNeedsSetup{Email: "a@b.com", SetupToken: "st"})
	assert.Equal(t, ViewTwoFactorSet, login.View)
	assert.Equal(t, ViewLogin, mustReduce(t, login, Back{}).View)

	challenge := mustReduce(t, State{}, Open{Mode: ViewLogin}, LoginNeedsChallenge{Email: "a@b.com"})
	assert.Equal(t, ViewLogin, mustReduce(t, challenge, Back{}).View)

	for _, mode := range []View{ViewLogin, ViewRegister} {
		_, err := Reduce(mustReduce(t, State{}, Open{Mode: mode}), Back{}, testNow)
		assert.ErrorIs(t, err, ErrIllegalTransition)
	}
}

func TestNoBackOnceRecoveryCodesShown(t *testing.T) {
	for _, start := range []State{
		mustReduce(t, State{}, Open{Mode: ViewLogin}, LoginNeedsSetup{Email: "a@b.com", SetupToken: "st"}),
		mustReduce(t, State{}, Open{Mode: ViewRegister}, RegisterSucceeded{Email: "ada@x.com", FullName: "Ada"}, EmailVerified{SetupToken: "st"}),
	} {
		assert.True(t, start.CanGoBack())

		locked := mustReduce(t, start, SetupVerified{})
		assert.True(t, locked.SetupLocked)
		assert.False(t, locked.CanGoBack())

		_, err := Reduce(locked, Back{}, testNow)
		assert.ErrorIs(t, err, ErrIllegalTransition)

		done := mustReduce(t, locked, SetupCompleted{})
		assert.Equal(t, ViewSuccess, done.View)
		assert.False(t, done.SetupLocked)

		assert.Equal(t, State{}, mustReduce(t, locked, Close{}))
	}

	_, err := Reduce(mustReduce(t, State{}, Open{Mode: ViewLogin}), SetupVerified{}, testNow)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCloseResets(t *testing.T) {
	s := mustReduce(t, State{}, Open{Mode: ViewLogin}, LoginNeedsSetup{Email: "a@b.com", RememberMe: true, SetupToken: "st"}, Close{})
	assert.Equal(t, State{}, s)
	assert.False(t, s.Open)
}

func TestSuccessDue(t *testing.T) {
	s := mustReduce(t, State{}, Open{Mode: ViewLogin}, LoginNeedsSetup{Email: "a@b.com"}, SetupCompleted{})
	assert.False(t, s.SuccessDue(testNow.Add(time.Second), 2*time.Second))
	assert.True(t, s.SuccessDue(testNow.Add(2*time.Second), 2*time.Second))
}

func TestTitles(t *testing.T) {
	for _, v := range []View{ViewLogin, ViewRegister, ViewVerification, ViewTwoFactorSet, ViewTwoFactor, ViewSuccess} {
		assert.True(t, v.Valid())
		assert.NotEmpty(t, v.Title())
	}
	assert.False(t, View("other").Valid())
}
