package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
)

func (h *AuthHandler) PostVerifyEmail(ctx *fiber.Ctx) error {
	digits := formValues(ctx, "digit")

	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewVerification {
		return redirectAuth(ctx)
	}
	verification := getVerification(session)
	verification.Boxes.Fill(digits)
	err := h.verify.Verify(ctx.Context(), &verification)
	session.Set(verifyStateKey, verification)
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostResendVerification(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewVerification {
		return redirectAuth(ctx)
	}
	verification := getVerification(session)
	sent, err := h.verify.Resend(ctx.Context(), &verification)
	session.Set(verifyStateKey, verification)
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	if sent {
		setFlash(session, Flash{Notice: MsgCodeResent})
	}
	return redirectAuth(ctx)
}

func (h *AuthHandler) PostContinueVerification(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewVerification {
		return redirectAuth(ctx)
	}
	verification := getVerification(session)
	setupToken, err := h.verify.Continue(&verification)
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	if err := h.dispatch(session, flow.EmailVerified{SetupToken: setupToken}); err != nil {
		return h.handleError(ctx, err, nil)
	}
	session.Delete(verifyStateKey)
	return redirectAuth(ctx)
}
