package flow

import (
	"errors"
	"time"

	"github.com/khanghh/admin-portal/internal/authapi"
)

var ErrIllegalTransition = errors.New("illegal flow transition")

type View string

const (
	ViewLogin        View = "login"
	ViewRegister     View = "register"
	ViewVerification View = "verification"
	ViewTwoFactorSet View = "2fa-setup"
	ViewTwoFactor    View = "2fa-login"
	ViewSuccess      View = "success"
)

func (v View) Valid() bool {
	switch v {
	case ViewLogin, ViewRegister, ViewVerification, ViewTwoFactorSet, ViewTwoFactor, ViewSuccess:
		return true
	}
	return false
}

// Title is the modal header text of each view.
func (v View) Title() string {
	switch v {
	case ViewLogin:
		return "Admin Login"
	case ViewRegister:
		return "Create Admin Account"
	case ViewVerification:
		return "Verify Your Email"
	case ViewTwoFactorSet:
		return "Set Up Two-Factor Authentication"
	case ViewTwoFactor:
		return "Two-Factor Authentication"
	case ViewSuccess:
		return "Welcome"
	}
	return ""
}

func (v View) CanGoBack() bool {
	switch v {
	case ViewVerification, ViewTwoFactorSet, ViewTwoFactor:
		return true
	}
	return false
}

type PendingUser struct {
	Email        string
	FullName     string
	Organization string
}

// State is everything that survives from one step of the flow to the next.
// Only Reduce produces new states.
type State struct {
	Open        bool
	View        View
	InitialMode View
	Pending     PendingUser
	RememberMe  bool
	SetupToken  string
	Session     *authapi.Session
	DeviceToken string
	SuccessAt   time.Time
	// SetupLocked is set once two-factor is enabled on the backend and the
	// recovery codes are on screen. The setup view can then only be left
	// through SetupCompleted or Close.
	SetupLocked bool
}

// CanGoBack reports whether Back is accepted in the current state.
func (s State) CanGoBack() bool {
	if s.View == ViewTwoFactorSet && s.SetupLocked {
		return false
	}
	return s.View.CanGoBack()
}

// SuccessDue reports whether the success view has been shown for delay.
func (s State) SuccessDue(now time.Time, delay time.Duration) bool {
	return s.View == ViewSuccess && !now.Before(s.SuccessAt.Add(delay))
}

type Action interface {
	action()
}

type (
	Open struct {
		Mode View
	}
	SwitchMode struct {
		Mode View
	}
	RegisterSucceeded struct {
		Email        string
		FullName     string
		Organization string
	}
	LoginNeedsSetup struct {
		Email      string
		RememberMe bool
		SetupToken string
	}
	LoginNeedsChallenge struct {
		Email      string
		RememberMe bool
	}
	EmailVerified struct {
		SetupToken string
	}
	SetupVerified  struct{}
	SetupCompleted struct {
		Session *authapi.Session
	}
	TwoFactorLoginSucceeded struct {
		Session     authapi.Session
		DeviceToken string
	}
	Back  struct{}
	Close struct{}
)

func (Open) action()                    {}
func (SwitchMode) action()              {}
func (RegisterSucceeded) action()       {}
func (LoginNeedsSetup) action()         {}
func (LoginNeedsChallenge) action()     {}
func (EmailVerified) action()           {}
func (SetupVerified) action()           {}
func (SetupCompleted) action()          {}
func (TwoFactorLoginSucceeded) action() {}
func (Back) action()                    {}
func (Close) action()                   {}

func initialMode(mode View) View {
	if mode == ViewRegister {
		return ViewRegister
	}
	return ViewLogin
}

// Reduce applies a to s. The success view can only be entered after a
// completed two-factor enrollment or challenge.
func Reduce(s State, a Action, now time.Time) (State, error) {
	switch a := a.(type) {
	case Open:
		mode := initialMode(a.Mode)
		if s.Open {
			return s, nil
		}
		return State{Open: true, View: mode, InitialMode: mode}, nil

	case Close:
		return State{}, nil
	}

	if !s.Open {
		return s, ErrIllegalTransition
	}

	switch a := a.(type) {
	case SwitchMode:
		if s.View != ViewLogin && s.View != ViewRegister {
			return s, ErrIllegalTransition
		}
		s.View = initialMode(a.Mode)
		return s, nil

	case RegisterSucceeded:
		if s.View != ViewRegister {
			return s, ErrIllegalTransition
		}
		s.Pending = PendingUser{Email: a.Email, FullName: a.FullName, Organization: a.Organization}
		s.View = ViewVerification
		return s, nil

	case LoginNeedsSetup:
		if s.View != ViewLogin {
			return s, ErrIllegalTransition
		}
		s.Pending = PendingUser{Email: a.Email}
		s.RememberMe = a.RememberMe
		s.SetupToken = a.SetupToken
		s.View = ViewTwoFactorSet
		return s, nil

	case LoginNeedsChallenge:
		if s.View != ViewLogin {
			return s, ErrIllegalTransition
		}
		s.Pending = PendingUser{Email: a.Email}
		s.RememberMe = a.RememberMe
		s.View = ViewTwoFactor
		return s, nil

	case EmailVerified:
		if s.View != ViewVerification {
			return s, ErrIllegalTransition
		}
		s.SetupToken = a.SetupToken
		s.View = ViewTwoFactorSet
		return s, nil

	case SetupVerified:
		if s.View != ViewTwoFactorSet {
			return s, ErrIllegalTransition
		}
		s.SetupLocked = true
		return s, nil

	case SetupCompleted:
		if s.View != ViewTwoFactorSet {
			return s, ErrIllegalTransition
		}
		s.Session = a.Session
		s.SetupToken = ""
		s.SetupLocked = false
		s.View = ViewSuccess
		s.SuccessAt = now
		return s, nil

	case TwoFactorLoginSucceeded:
		if s.View != ViewTwoFactor && s.View != ViewLogin {
			return s, ErrIllegalTransition
		}
		session := a.Session
		s.Session = &session
		s.DeviceToken = a.DeviceToken
		s.View = ViewSuccess
		s.SuccessAt = now
		return s, nil

	case Back:
		if !s.CanGoBack() {
			return s, ErrIllegalTransition
		}
		switch s.View {
		case ViewVerification:
			s.View = s.InitialMode
		case ViewTwoFactorSet:
			if s.Pending.FullName != "" {
				s.View = ViewVerification
			} else {
				s.View = ViewLogin
			}
		case ViewTwoFactor:
			s.View = ViewLogin
		default:
			return s, ErrIllegalTransition
		}
		return s, nil
	}
	return s, ErrIllegalTransition
}
