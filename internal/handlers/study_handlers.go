package handlers

import (
	"github.com/Nate5599/homework-helper/internal/middleware"
	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StudyHandler serves the test-mode answer endpoint and the three per-user
// collections.
type StudyHandler struct {
	study    services.StudyService
	answers  services.AnswerService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewStudyHandler(study services.StudyService, answers services.AnswerService, logger *zap.SugaredLogger) *StudyHandler {
	return &StudyHandler{
		study:    study,
		answers:  answers,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *StudyHandler) Ask(c *fiber.Ctx) error {
	var req models.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	ans, err := h.answers.Ask(c.Context(), middleware.SessionUsername(c), req.Question, req.Mode)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"answer": ans})
}

func (h *StudyHandler) History(c *fiber.Ctx) error {
	entries, err := h.study.History(c.Context(), middleware.SessionUsername(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"history": entries})
}

func (h *StudyHandler) ListFlashcards(c *fiber.Ctx) error {
	cards, err := h.study.Flashcards(c.Context(), middleware.SessionUsername(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"flashcards": cards})
}

func (h *StudyHandler) AddFlashcard(c *fiber.Ctx) error {
	var req models.FlashcardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	card, err := h.study.AddFlashcard(c.Context(), middleware.SessionUsername(c), req.Front, req.Back)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "card": card})
}

func (h *StudyHandler) ListPlanner(c *fiber.Ctx) error {
	items, err := h.study.Planner(c.Context(), middleware.SessionUsername(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"planner": items})
}

func (h *StudyHandler) AddPlannerItem(c *fiber.Ctx) error {
	var req models.PlannerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}
	item, err := h.study.AddPlannerItem(c.Context(), middleware.SessionUsername(c), req.Title, req.Date)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "event": item})
}
