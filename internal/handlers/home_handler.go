package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/credentials"
	"github.com/khanghh/admin-portal/internal/flow"
	"github.com/khanghh/admin-portal/internal/middlewares/csrf"
	"github.com/khanghh/admin-portal/internal/middlewares/sessions"
	"github.com/khanghh/admin-portal/internal/render"
)

// HomeHandler serves the dashboard placeholder behind stored credentials.
type HomeHandler struct {
	credentials CredentialStore
}

func NewHomeHandler(credentials CredentialStore) *HomeHandler {
	return &HomeHandler{credentials: credentials}
}

func (h *HomeHandler) GetHome(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	creds, err := h.credentials.Load(session.ID())
	if errors.Is(err, credentials.ErrNoCredentials) {
		return redirect(ctx, "/auth", "mode", string(flow.ViewLogin))
	}
	if err != nil {
		return err
	}
	return render.RenderHomePage(ctx, render.HomePageData{
		CSRFToken: csrf.Get(session).Token,
		FullName:  creds.User.FullName,
		Email:     creds.User.Email,
		Company:   creds.User.Company,
		Role:      creds.User.Role,
	})
}

func (h *HomeHandler) PostLogout(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if err := h.credentials.Delete(session.ID()); err != nil {
		return err
	}
	if err := sessions.Reset(ctx); err != nil {
		return err
	}
	return redirect(ctx, "/auth", "mode", string(flow.ViewLogin))
}
