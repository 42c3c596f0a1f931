package handlers

import (
	"github.com/Nate5599/homework-helper/internal/middleware"
	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc      services.AuthService
	sessions *middleware.SessionManager
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewAuthHandler(svc services.AuthService, sessions *middleware.SessionManager, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	sess, err := h.svc.Signup(c.Context(), req)
	if err != nil {
		return jsonError(c, err)
	}
	if err := h.sessions.Issue(c, sess.Username); err != nil {
		h.logger.Errorf("signup: failed to issue session for %q: %v", sess.Username, err)
		return jsonError(c, services.ErrInternal)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":       true,
		"username": sess.Username,
		"redirect": redirectFor(sess.FirstLogin),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	sess, err := h.svc.LoginWithIdentifier(c.Context(), req.Identifier, req.Password)
	if err != nil {
		return jsonError(c, err)
	}
	return h.openSession(c, sess)
}

func (h *AuthHandler) LoginPhone(c *fiber.Ctx) error {
	var req models.PhoneLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	sess, err := h.svc.LoginWithPhone(c.Context(), req.Phone, req.Password)
	if err != nil {
		return jsonError(c, err)
	}
	return h.openSession(c, sess)
}

func (h *AuthHandler) RequestEmailOTP(c *fiber.Ctx) error {
	var req models.EmailOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	issue, err := h.svc.RequestEmailOTP(c.Context(), req.Email)
	if err != nil {
		return jsonError(c, err)
	}
	resp := fiber.Map{"ok": true, "email": issue.MaskedEmail}
	if issue.DevCode != "" {
		resp["dev_code"] = issue.DevCode
	}
	return c.JSON(resp)
}

func (h *AuthHandler) VerifyEmailOTP(c *fiber.Ctx) error {
	var req models.EmailOTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	sess, err := h.svc.VerifyEmailOTP(c.Context(), req.Email, req.Code)
	if err != nil {
		return jsonError(c, err)
	}
	return h.openSession(c, sess)
}

func (h *AuthHandler) ProviderLogin(c *fiber.Ctx) error {
	sess, err := h.svc.ProviderLogin(c.Context(), c.Params("provider"))
	if err != nil {
		return jsonError(c, err)
	}
	return h.openSession(c, sess)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return c.JSON(fiber.Map{"ok": true, "redirect": "/login"})
}

func (h *AuthHandler) openSession(c *fiber.Ctx, sess *services.Session) error {
	if err := h.sessions.Issue(c, sess.Username); err != nil {
		h.logger.Errorf("failed to issue session for %q: %v", sess.Username, err)
		return jsonError(c, services.ErrInternal)
	}
	return c.JSON(fiber.Map{
		"ok":       true,
		"username": sess.Username,
		"redirect": redirectFor(sess.FirstLogin),
	})
}
