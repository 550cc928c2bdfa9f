package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
	"github.com/khanghh/admin-portal/params"
)

// loadEnrollment returns the wizard state with the authenticator secret
// filled in. The secret is kept out of the session, which may live in shared
// storage. Only this process holds it, and only during provisioning.
func (h *AuthHandler) loadEnrollment(ctx context.Context, session *sessions.Session) auth.EnrollmentState {
	enrollment := getEnrollment(session)
	if enrollment.Step != auth.StepProvisioning {
		return enrollment
	}
	secret, err := h.setupSecrets.Get(ctx, session.ID())
	if err != nil {
		// expired or issued by another instance, the user asks for a new one
		enrollment = *auth.NewEnrollmentState()
		session.Set(enrollStateKey, enrollment)
		return enrollment
	}
	enrollment.Secret = secret.Secret
	enrollment.QRCode = secret.QRCode
	return enrollment
}

func (h *AuthHandler) saveEnrollment(ctx context.Context, session *sessions.Session, enrollment auth.EnrollmentState) error {
	if enrollment.Secret == "" {
		h.dropSetupSecret(ctx, session)
	} else {
		secret := authapi.TwoFactorSecret{Secret: enrollment.Secret, QRCode: enrollment.QRCode}
		if err := h.setupSecrets.Set(ctx, session.ID(), secret, params.SetupSecretExpiration); err != nil {
			return err
		}
	}
	enrollment.Secret = ""
	enrollment.QRCode = ""
	session.Set(enrollStateKey, enrollment)
	return nil
}

func (h *AuthHandler) dropSetupSecret(ctx context.Context, session *sessions.Session) {
	if err := h.setupSecrets.Del(ctx, session.ID()); err != nil {
		slog.Warn("Failed to drop two-factor setup secret", "error", err)
	}
}

func (h *AuthHandler) PostSetupBegin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	state := getFlow(session)
	if state.View != flow.ViewTwoFactorSet {
		return redirectAuth(ctx)
	}
	enrollment := h.loadEnrollment(ctx.Context(), session)
	err := h.enroll.Begin(ctx.Context(), &enrollment, state.SetupToken)
	if err := h.saveEnrollment(ctx.Context(), session, enrollment); err != nil {
		return err
	}
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostSetupVerify(ctx *fiber.Ctx) error {
	code := ctx.FormValue("code")

	session := sessions.Get(ctx)
	state := getFlow(session)
	if state.View != flow.ViewTwoFactorSet {
		return redirectAuth(ctx)
	}
	enrollment := h.loadEnrollment(ctx.Context(), session)
	err := h.enroll.Verify(ctx.Context(), &enrollment, state.SetupToken, code)
	if err := h.saveEnrollment(ctx.Context(), session, enrollment); err != nil {
		return err
	}
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	// Two-factor is now enabled on the backend, the codes must not be lost.
	if err := h.dispatch(session, flow.SetupVerified{}); err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostSetupFinish(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewTwoFactorSet {
		return redirectAuth(ctx)
	}
	enrollment := getEnrollment(session)
	if _, err := h.enroll.Finish(&enrollment); err != nil {
		return h.handleError(ctx, err, nil)
	}
	if err := h.dispatch(session, flow.SetupCompleted{Session: enrollment.Session}); err != nil {
		return h.handleError(ctx, err, nil)
	}
	session.Delete(enrollStateKey)
	return redirectAuth(ctx)
}

func (h *AuthHandler) GetRecoveryCodes(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	enrollment := getEnrollment(session)
	if getFlow(session).View != flow.ViewTwoFactorSet || enrollment.Step != auth.StepRecovery {
		return fiber.ErrNotFound
	}
	filename, content := auth.RecoveryCodesFile(enrollment.RecoveryCodes)
	ctx.Attachment(filename)
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Send(content)
}

func (h *AuthHandler) PostChallengeMode(ctx *fiber.Ctx) error {
	mode := auth.ChallengeMode(ctx.FormValue("mode"))

	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewTwoFactor {
		return redirectAuth(ctx)
	}
	challenge := getChallenge(session)
	h.challenge.SetMode(&challenge, mode)
	session.Set(challengeStateKey, challenge)
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostChallengeLogin(ctx *fiber.Ctx) error {
	input := auth.ChallengeInput{
		Code:         ctx.FormValue("code"),
		RecoveryCode: ctx.FormValue("recoveryCode"),
	}

	session := sessions.Get(ctx)
	state := getFlow(session)
	if state.View != flow.ViewTwoFactor {
		return redirectAuth(ctx)
	}
	challenge := getChallenge(session)
	result, err := h.challenge.Submit(ctx.Context(), &challenge, state.Pending.Email, state.RememberMe, input)
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	err = h.dispatch(session, flow.TwoFactorLoginSucceeded{Session: result.Session, DeviceToken: result.DeviceToken})
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}
