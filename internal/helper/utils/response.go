package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseFieldError surfaces a validation failure next to the field that
// caused it.
func ResponseFieldError(ctx *fiber.Ctx, field, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"field": field,
	})
}

// ResponseRedirect tells an unauthenticated caller where to sign in, keeping
// the originally requested path so it can come back after login.
func ResponseRedirect(ctx *fiber.Ctx, status int, msg, redirect string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error":    msg,
		"redirect": redirect,
	})
}
