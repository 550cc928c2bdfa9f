package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/auth"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
)

func (h *AuthHandler) PostRegister(ctx *fiber.Ctx) error {
	form := auth.RegistrationForm{
		FullName:     ctx.FormValue("fullName"),
		Email:        ctx.FormValue("email"),
		Organization: ctx.FormValue("organization"),
		AgreeToTerms: formBool(ctx, "agreeToTerms"),
	}
	values := map[string]string{
		"fullName":     form.FullName,
		"email":        form.Email,
		"organization": form.Organization,
	}
	if form.AgreeToTerms {
		values["agreeToTerms"] = "true"
	}

	session := sessions.Get(ctx)
	if getFlow(session).View != flow.ViewRegister {
		return redirectAuth(ctx)
	}

	// the captcha answer is single use, do not spend it on an invalid form
	if err := h.register.Validate(form); err != nil {
		return h.handleError(ctx, err, values)
	}
	if h.captcha != nil {
		if err := h.captcha.Verify(ctx); err != nil {
			setFlash(session, Flash{Errors: map[string]string{auth.FieldForm: MsgCaptchaFailed}, Form: values})
			return redirectAuth(ctx)
		}
	}

	registered, err := h.register.Submit(ctx.Context(), form)
	if err != nil {
		return h.handleError(ctx, err, values)
	}
	err = h.dispatch(session, flow.RegisterSucceeded{
		Email:        registered.Email,
		FullName:     registered.FullName,
		Organization: registered.Organization,
	})
	if err != nil {
		return h.handleError(ctx, err, nil)
	}
	return redirectAuth(ctx)
}
