package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
)

// probeRememberedSession runs once per visit of the login view. A device
// token minted by an earlier two-factor login lets the admin skip the code.
func (h *AuthHandler) probeRememberedSession(ctx *fiber.Ctx, session *sessions.Session) error {
	login := getLogin(session)
	if login.Probed || login.CodeRequested {
		return nil
	}
	email := login.Email
	if email == "" {
		email = ctx.Cookies(rememberedEmailCookie)
	}
	deviceToken := ctx.Cookies(deviceTokenCookie)
	remembered, ok := h.login.CheckRememberedSession(ctx.Context(), &login, email, deviceToken)
	session.Set(loginStateKey, login)
	if !ok {
		return nil
	}
	// The device token was issued by a completed second factor, so this is
	// the one path to success without a two-factor step in this flow.
	return h.dispatch(session, flow.TwoFactorLoginSucceeded{Session: *remembered, DeviceToken: deviceToken})
}

func (h *AuthHandler) PostRequestCode(ctx *fiber.Ctx) error {
	email := ctx.FormValue("email")
	rememberMe := formBool(ctx, "rememberMe")

	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewLogin {
		return redirectAuth(ctx)
	}
	login := getLogin(session)
	login.RememberMe = rememberMe
	err := h.login.RequestCode(ctx.Context(), &login, email, rememberMe)
	session.Set(loginStateKey, login)
	if err != nil {
		return h.handleError(ctx, err, map[string]string{"email": email})
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostResendCode(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewLogin {
		return redirectAuth(ctx)
	}
	login := getLogin(session)
	sent, err := h.login.ResendCode(ctx.Context(), &login, login.RememberMe)
	session.Set(loginStateKey, login)
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	if sent {
		setFlash(session, Flash{Notice: MsgCodeResent})
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostVerifyCode(ctx *fiber.Ctx) error {
	code := ctx.FormValue("code")
	rememberMe := formBool(ctx, "rememberMe")

	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewLogin {
		return redirectAuth(ctx)
	}
	login := getLogin(session)
	login.RememberMe = rememberMe
	session.Set(loginStateKey, login)

	outcome, err := h.login.VerifyCode(ctx.Context(), &login, code, rememberMe)
	if err != nil {
		return h.handleError(ctx, err, nil)
	}

	var action flow.Action = flow.LoginNeedsChallenge{Email: outcome.Email, RememberMe: outcome.RememberMe}
	if outcome.Next == auth.LoginStepTwoFactorSetup {
		action = flow.LoginNeedsSetup{Email: outcome.Email, RememberMe: outcome.RememberMe, SetupToken: outcome.SetupToken}
	}
	if err := h.dispatch(session, action); err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}

// PostChangeEmail goes back to the email step keeping what was typed.
func (h *AuthHandler) PostChangeEmail(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewLogin {
		return redirectAuth(ctx)
	}
	login := getLogin(session)
	session.Set(loginStateKey, auth.LoginSession{Email: login.Email, RememberMe: login.RememberMe, Probed: true})
	return redirectAuth(ctx)
}
