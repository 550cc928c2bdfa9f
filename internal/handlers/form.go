package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

func formBool(ctx *fiber.Ctx, name string) bool {
	return cast.ToBool(ctx.FormValue(name))
}

// formDigits returns every submitted value of a repeated field, in order.
func formValues(ctx *fiber.Ctx, name string) []string {
	values := ctx.Request().PostArgs().PeekMulti(name)
	digits := make([]string, len(values))
	for i, v := range values {
		digits[i] = string(v)
	}
	return digits
}
