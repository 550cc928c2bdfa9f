package devbackend

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/khanghh/admin-portal/internal/authapi"
	"github.com/khanghh/admin-portal/params"
)

type Handler struct {
	svc *Service
}

type loginCodeRequest struct {
	Email      string `json:"email"`
	RememberMe bool   `json:"rememberMe"`
}

func bearerToken(ctx *fiber.Ctx) string {
	token, ok := strings.CutPrefix(ctx.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return ErrInvalidRequest
	}
	return nil
}

func (h *Handler) PostRequestLoginCode(ctx *fiber.Ctx) error {
	var req loginCodeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := h.svc.RequestLoginCode(ctx.Context(), req.Email); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) PostCheckRemembered(ctx *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.svc.CheckRememberedSession(ctx.Context(), req.Email, ctx.Get(authapi.DeviceTokenHeader))
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

func (h *Handler) PostVerifyLogin(ctx *fiber.Ctx) error {
	var req authapi.VerifyLoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.svc.VerifyLoginCode(ctx.Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

func (h *Handler) PostRegister(ctx *fiber.Ctx) error {
	var req authapi.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := h.svc.RegisterAdmin(ctx.Context(), req); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusCreated)
}

func (h *Handler) PostVerifyEmail(ctx *fiber.Ctx) error {
	var req emailCodeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.svc.VerifyEmail(ctx.Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

func (h *Handler) PostResendVerification(ctx *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := h.svc.ResendVerificationCode(ctx.Context(), req.Email); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) PostTwoFactorSetup(ctx *fiber.Ctx) error {
	result, err := h.svc.GenerateTwoFactorSecret(ctx.Context(), bearerToken(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

func (h *Handler) PostTwoFactorSetupVerify(ctx *fiber.Ctx) error {
	var req codeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.svc.VerifyTwoFactorSetup(ctx.Context(), bearerToken(ctx), req.Code)
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

func (h *Handler) PostTwoFactorLogin(ctx *fiber.Ctx) error {
	var req authapi.TwoFactorLoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	result, err := h.svc.VerifyTwoFactorLogin(ctx.Context(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(result)
}

func errorStatus(err error) int {
	var verifyErr *VerifyFailError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &verifyErr),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrCodeNotFound),
		errors.Is(err, ErrNoPendingSecret),
		errors.Is(err, ErrAlreadyVerified):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrLoginNotVerified):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrEmailNotVerified), errors.Is(err, ErrTwoFactorNotEnrolled):
		return fiber.StatusForbidden
	case errors.Is(err, ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAccountExists), errors.Is(err, ErrTwoFactorEnrolled):
		return fiber.StatusConflict
	case errors.Is(err, ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler answers every failure with a JSON {"message": ...} body.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status := errorStatus(err)
	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.Error("Dev backend request failed", "path", ctx.Path(), "error", err)
		message = "Internal server error"
	} else {
		slog.Debug("Dev backend request rejected", "path", ctx.Path(), "status", status, "error", err)
	}
	return ctx.Status(status).JSON(errorResponse{Message: message})
}

func SetupRoutes(router fiber.Router, h *Handler) {
	api := router.Group("/api/auth")
	api.Post("/login/request-code", h.PostRequestLoginCode)
	api.Post("/login/check-remembered", h.PostCheckRemembered)
	api.Post("/login/verify", h.PostVerifyLogin)
	api.Post("/register", h.PostRegister)
	api.Post("/verify-email", h.PostVerifyEmail)
	api.Post("/verify-email/resend", h.PostResendVerification)
	api.Post("/2fa/setup", h.PostTwoFactorSetup)
	api.Post("/2fa/setup/verify", h.PostTwoFactorSetupVerify)
	api.Post("/2fa/login", h.PostTwoFactorLogin)
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// NewApp returns a fiber app serving the backend API under /api.
func NewApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "admin-portal devbackend",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: ErrorHandler,
		BodyLimit:    params.ServerBodyLimit,
		ReadTimeout:  params.ServerReadTimeout,
		WriteTimeout: params.ServerWriteTimeout,
		IdleTimeout:  params.ServerIdleTimeout,
	})
	app.Use(recover.New())
	SetupRoutes(app, NewHandler(svc))
	app.Use(func(ctx *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}
