package handlers

import (
	"errors"

	"github.com/Nate5599/homework-helper/internal/services"
	"github.com/Nate5599/homework-helper/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// jsonError maps service sentinel errors onto HTTP statuses and renders the
// structured error body every endpoint uses.
func jsonError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrConsentRequired),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrInvalidAvatarType):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrPhoneLoginFailed):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrUnknownIdentifier),
		errors.Is(err, services.ErrUnknownEmail),
		errors.Is(err, services.ErrUnknownProvider),
		errors.Is(err, services.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrOAuthDisabled):
		status = fiber.StatusNotImplemented
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation failed",
		"details": utils.FormatValidationErrors(err),
	})
}

// redirectFor is the post-login destination hint: onboarding until the user
// has completed it once, home afterwards.
func redirectFor(firstLogin bool) string {
	if firstLogin {
		return "/onboarding"
	}
	return "/"
}
