package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/captcha"
	"github.com/khanghh/admin-portal/internal/middlewares/csrf"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
	"github.com/khanghh/admin-portal/internal/render"
	"github.com/khanghh/admin-portal/internal/store"
	"github.com/khanghh/admin-portal/params"
)

const (
	rememberedEmailCookie = "admin_email"
	deviceTokenCookie     = "admin_device"
)

type FlowOptions struct {
	SuccessRedirectURL   string
	SuccessRedirectDelay time.Duration
	EmailVerifiedDelay   time.Duration
	ResendCooldown       time.Duration
	TurnstileSiteKey     string
	CookieSecure         bool
}

// AuthHandler drives the admin sign in modal. All flow state lives in the
// session; every POST redirects back to GET /auth.
type AuthHandler struct {
	login       *auth.LoginController
	register    *auth.RegistrationController
	verify      *auth.EmailVerificationController
	enroll      *auth.TwoFactorEnrollmentController
	challenge   *auth.TwoFactorChallengeController
	credentials CredentialStore
	captcha     captcha.Verifier
	opts        FlowOptions
	now         func() time.Time

	setupSecrets store.Store[authapi.TwoFactorSecret]
}

func NewAuthHandler(api BackendAPI, credentials CredentialStore, verifier captcha.Verifier, opts FlowOptions) *AuthHandler {
	return &AuthHandler{
		login:       auth.NewLoginController(api, opts.ResendCooldown),
		register:    auth.NewRegistrationController(api),
		verify:      auth.NewEmailVerificationController(api, opts.ResendCooldown, opts.EmailVerifiedDelay),
		enroll:      auth.NewTwoFactorEnrollmentController(api),
		challenge:   auth.NewTwoFactorChallengeController(api),
		credentials: credentials,
		captcha:     verifier,
		opts:        opts,
		now:         time.Now,

		setupSecrets: store.NewMemoryStore[authapi.TwoFactorSecret](),
	}
}

// dispatch applies an action to the session's flow state and prepares the
// local state of the view being entered.
func (h *AuthHandler) dispatch(session *sessions.Session, action flow.Action) error {
	prev := getFlow(session)
	next, err := flow.Reduce(prev, action, h.now())
	if err != nil {
		return err
	}
	if prev.View == flow.ViewTwoFactorSet && (next.View != prev.View || !next.Open) {
		h.dropSetupSecret(context.Background(), session)
	}
	if !next.Open {
		clearFlowState(session)
		return nil
	}
	session.Set(flowStateKey, next)
	if prev.View != next.View {
		h.enterView(session, prev, next)
	}
	return nil
}

func (h *AuthHandler) enterView(session *sessions.Session, prev, next flow.State) {
	switch next.View {
	case flow.ViewLogin:
		login := getLogin(session)
		session.Set(loginStateKey, auth.LoginSession{Email: login.Email, RememberMe: login.RememberMe})
	case flow.ViewVerification:
		if prev.View == flow.ViewTwoFactorSet && next.SetupToken != "" {
			session.Set(verifyStateKey, *auth.NewResumedVerificationState(next.Pending.Email, next.SetupToken))
			break
		}
		var sentAt time.Time
		if prev.View == flow.ViewRegister {
			sentAt = h.now()
		}
		session.Set(verifyStateKey, *auth.NewVerificationState(next.Pending.Email, sentAt))
	case flow.ViewTwoFactorSet:
		session.Set(enrollStateKey, *auth.NewEnrollmentState())
	case flow.ViewTwoFactor:
		session.Set(challengeStateKey, *auth.NewChallengeState())
	}
}

// handleError turns user facing failures into a flash on the next GET.
// Stale or out of order submissions just show the current view again.
func (h *AuthHandler) handleError(ctx *fiber.Ctx, err error, form map[string]string) error {
	var validationErr *auth.ValidationError
	var rejection *auth.BackendRejection
	switch {
	case errors.As(err, &validationErr), errors.As(err, &rejection):
		setFlash(sessions.Get(ctx), Flash{Errors: auth.FieldErrors(err), Form: form})
		return redirectAuth(ctx)
	case errors.Is(err, flow.ErrIllegalTransition),
		errors.Is(err, auth.ErrWrongStep),
		errors.Is(err, auth.ErrCodeNotRequested),
		errors.Is(err, auth.ErrNoSecret),
		errors.Is(err, auth.ErrAlreadyVerified):
		slog.Debug("Ignored out of order request", "path", ctx.Path(), "error", err)
		return redirectAuth(ctx)
	}
	return err
}

func (h *AuthHandler) GetAuth(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	state := getFlow(session)
	mode := flow.View(ctx.Query("mode"))
	if !state.Open {
		if err := h.dispatch(session, flow.Open{Mode: mode}); err != nil {
			return err
		}
	} else if mode != "" && mode != state.View && (state.View == flow.ViewLogin || state.View == flow.ViewRegister) {
		if err := h.dispatch(session, flow.SwitchMode{Mode: mode}); err != nil {
			return err
		}
	}

	state = getFlow(session)
	switch state.View {
	case flow.ViewLogin:
		if err := h.probeRememberedSession(ctx, session); err != nil {
			return err
		}
	case flow.ViewVerification:
		verification := getVerification(session)
		if h.verify.ReadyToComplete(&verification) {
			if err := h.dispatch(session, flow.EmailVerified{SetupToken: verification.SetupToken}); err != nil {
				return err
			}
			session.Delete(verifyStateKey)
		}
	case flow.ViewSuccess:
		if state.SuccessDue(h.now(), h.opts.SuccessRedirectDelay) {
			return h.finalize(ctx, session, state)
		}
	}
	return h.renderAuth(ctx, session)
}

func (h *AuthHandler) PostSwitch(ctx *fiber.Ctx) error {
	mode := flow.View(ctx.FormValue("mode"))
	if err := h.dispatch(sessions.Get(ctx), flow.SwitchMode{Mode: mode}); err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostBack(ctx *fiber.Ctx) error {
	if err := h.dispatch(sessions.Get(ctx), flow.Back{}); err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}

// PostClose discards everything the flow has collected, including recovery
// codes that were not saved yet.
func (h *AuthHandler) PostClose(ctx *fiber.Ctx) error {
	if err := h.dispatch(sessions.Get(ctx), flow.Close{}); err != nil {
		return err
	}
	return redirect(ctx, "/")
}

// finalize is the only place credentials are written. It runs once the
// success view has been shown for the configured delay.
func (h *AuthHandler) finalize(ctx *fiber.Ctx, session *sessions.Session, state flow.State) error {
	if err := sessions.Regenerate(ctx); err != nil {
		return err
	}
	clearFlowState(session)

	if state.Session == nil {
		slog.Info("Two-factor setup finished without a session, sign in required", "email", state.Pending.Email)
		setFlash(session, Flash{Notice: MsgSignInAfterSetup})
		return redirect(ctx, "/auth", "mode", string(flow.ViewLogin))
	}

	if err := h.credentials.Save(session.ID(), *state.Session); err != nil {
		return err
	}
	if state.RememberMe {
		h.setCookie(ctx, rememberedEmailCookie, state.Session.User.Email)
		if state.DeviceToken != "" {
			h.setCookie(ctx, deviceTokenCookie, state.DeviceToken)
		}
	}
	slog.Info("Admin signed in", "userID", state.Session.User.ID, "email", state.Session.User.Email)
	return redirect(ctx, h.opts.SuccessRedirectURL)
}

func (h *AuthHandler) setCookie(ctx *fiber.Ctx, name, value string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  h.now().Add(params.RememberDeviceMaxAge),
		HTTPOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int((d + time.Second - 1) / time.Second)
}

func (h *AuthHandler) renderAuth(ctx *fiber.Ctx, session *sessions.Session) error {
	state := getFlow(session)
	flash := popFlash(session)
	data := render.AuthPageData{
		CSRFToken: csrf.Get(session).Token,
		View:      string(state.View),
		Title:     state.View.Title(),
		CanGoBack: state.CanGoBack(),
		Errors:    flash.Errors,
		Notice:    flash.Notice,
	}

	now := h.now()
	switch state.View {
	case flow.ViewLogin:
		login := getLogin(session)
		data.Email = login.Email
		if data.Email == "" {
			data.Email = flash.Form["email"]
		}
		if data.Email == "" {
			data.Email = ctx.Cookies(rememberedEmailCookie)
		}
		data.RememberMe = login.RememberMe
		data.CodeRequested = login.CodeRequested
		data.ResendIn = h.login.ResendCountdown(&login)
	case flow.ViewRegister:
		data.FullName = flash.Form["fullName"]
		data.Email = flash.Form["email"]
		data.Organization = flash.Form["organization"]
		data.AgreeToTerms = flash.Form["agreeToTerms"] == "true"
		data.TurnstileSiteKey = h.opts.TurnstileSiteKey
	case flow.ViewVerification:
		verification := getVerification(session)
		data.Email = verification.Email
		data.Digits = verification.Boxes.Digits[:]
		data.Focus = verification.Boxes.Focus
		data.Verified = verification.Status == auth.StatusVerified
		data.Resumed = verification.Resumed
		data.ResendIn = h.verify.ResendCountdown(&verification)
		if data.Verified && !data.Resumed {
			data.RefreshAfter = ceilSeconds(verification.VerifiedAt.Add(h.verify.VerifiedDelay()).Sub(now))
		}
	case flow.ViewTwoFactorSet:
		enrollment := h.loadEnrollment(ctx.Context(), session)
		data.SetupStep = int(enrollment.Step)
		data.Secret = enrollment.Secret
		data.QRCode = enrollment.QRCode
		data.RecoveryCodes = enrollment.RecoveryCodes
	case flow.ViewTwoFactor:
		data.Email = state.Pending.Email
		data.Mode = string(getChallenge(session).Mode)
	case flow.ViewSuccess:
		data.RefreshAfter = ceilSeconds(state.SuccessAt.Add(h.opts.SuccessRedirectDelay).Sub(now))
	}

	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return render.RenderAuth(ctx, data)
}
