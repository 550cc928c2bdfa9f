package handlers

import (
	"encoding/gob"

	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
)

const (
	flowStateKey      = "flow"
	loginStateKey     = "login"
	verifyStateKey    = "verification"
	enrollStateKey    = "enrollment"
	challengeStateKey = "challenge"
	flashKey          = "flash"
)

// Flash carries the outcome of a POST to the GET that follows it.
type Flash struct {
	Errors map[string]string
	Notice string
	Form   map[string]string
}

func init() {
	gob.Register(flow.State{})
	gob.Register(auth.LoginSession{})
	gob.Register(auth.VerificationState{})
	gob.Register(auth.EnrollmentState{})
	gob.Register(auth.ChallengeState{})
	gob.Register(Flash{})
}

func getFlow(session *sessions.Session) flow.State {
	return sessions.ValueOr(session, flowStateKey, flow.State{})
}

func getLogin(session *sessions.Session) auth.LoginSession {
	return sessions.ValueOr(session, loginStateKey, auth.LoginSession{})
}

func getVerification(session *sessions.Session) auth.VerificationState {
	return sessions.ValueOr(session, verifyStateKey, auth.VerificationState{Status: auth.StatusEnteringCode})
}

func getEnrollment(session *sessions.Session) auth.EnrollmentState {
	return sessions.ValueOr(session, enrollStateKey, *auth.NewEnrollmentState())
}

func getChallenge(session *sessions.Session) auth.ChallengeState {
	return sessions.ValueOr(session, challengeStateKey, *auth.NewChallengeState())
}

func setFlash(session *sessions.Session, flash Flash) {
	session.Set(flashKey, flash)
}

func popFlash(session *sessions.Session) Flash {
	flash := sessions.ValueOr(session, flashKey, Flash{})
	session.Delete(flashKey)
	return flash
}

func clearFlowState(session *sessions.Session) {
	for _, key := range []string{flowStateKey, loginStateKey, verifyStateKey, enrollStateKey, challengeStateKey, flashKey} {
		session.Delete(key)
	}
}
