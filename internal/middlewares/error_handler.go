package middlewares

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/admin-portal/internal/render"
)

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("Unhandled error", "path", ctx.Path(), "code", code, "error", err)
	} else {
		slog.Debug("Request rejected", "path", ctx.Path(), "code", code, "error", err)
	}

	ctx.Status(code)
	switch code {
	case fiber.StatusBadRequest:
		return render.RenderBadRequestError(ctx)
	case fiber.StatusForbidden:
		return render.RenderForbiddenError(ctx)
	case fiber.StatusNotFound:
		return render.RenderNotFoundError(ctx)
	case fiber.StatusConflict:
		return render.RenderConflictError(ctx)
	case fiber.StatusTooManyRequests:
		return render.RenderTooManyRequestsError(ctx)
	default:
		return render.RenderInternalServerError(ctx)
	}
}
