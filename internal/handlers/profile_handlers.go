package handlers

import (
	"io"

	"github.com/Nate5599/homework-helper/internal/middleware"
	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	svc    services.ProfileService
	logger *zap.SugaredLogger
}

func NewProfileHandler(svc services.ProfileService, logger *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	view, err := h.svc.Profile(c.Context(), middleware.SessionUsername(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(view)
}

func (h *ProfileHandler) Onboarding(c *fiber.Ctx) error {
	var req models.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.svc.CompleteOnboarding(c.Context(), middleware.SessionUsername(c), req); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "redirect": "/"})
}

func (h *ProfileHandler) GetSettings(c *fiber.Ctx) error {
	view, err := h.svc.Profile(c.Context(), middleware.SessionUsername(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(view)
}

func (h *ProfileHandler) UpdateSettings(c *fiber.Ctx) error {
	var req models.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.svc.UpdateSettings(c.Context(), middleware.SessionUsername(c), req); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// UploadAvatar accepts multipart/form-data with an 'avatar' file field.
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no file")
	}
	if fileHeader.Filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "empty filename")
	}
	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Errorf("avatar upload: cannot open file: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "cannot open file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Errorf("avatar upload: cannot read file: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "cannot read file")
	}

	path, err := h.svc.SaveAvatar(c.Context(), middleware.SessionUsername(c), fileHeader.Filename, data)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "avatar_path": "/" + path})
}
