package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/repository"
	"go.uber.org/zap"
)

// EmptyQuestionAnswer is returned for empty or whitespace-only questions,
// regardless of mode.
const EmptyQuestionAnswer = "Please type a question."

// Answer is the deterministic test-mode generator: a pure function of
// question and mode with no inference behind it.
func Answer(question, mode string) string {
	q := strings.TrimSpace(question)
	if q == "" {
		return EmptyQuestionAnswer
	}
	switch mode {
	case "example":
		return fmt.Sprintf("[TEST MODE] Example-based explanation for: %s", q)
	case "explain":
		return fmt.Sprintf("[TEST MODE] Step-by-step explanation for: %s", q)
	default:
		return fmt.Sprintf("[TEST MODE] Answer for (%s): %s", mode, q)
	}
}

type answerService struct {
	repo   repository.UserRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewAnswerService(repo repository.UserRepository, logger *zap.SugaredLogger) AnswerService {
	return &answerService{repo: repo, logger: logger, now: time.Now}
}

// Ask computes the test-mode answer and prepends it to the user's history,
// newest first. History is never pruned.
func (s *answerService) Ask(ctx context.Context, username, question, mode string) (string, error) {
	q := strings.TrimSpace(question)
	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = "explain"
	}
	ans := Answer(q, mode)

	entry := models.HistoryEntry{Question: q, Answer: ans, Timestamp: s.now().Unix()}
	err := s.repo.Update(username, func(acc *models.Account) error {
		acc.History = append([]models.HistoryEntry{entry}, acc.History...)
		return nil
	})
	if err != nil {
		if err == repository.ErrNotFound {
			return "", ErrUserNotFound
		}
		s.logger.Errorf("ask: failed to record history for %q: %v", username, err)
		return "", ErrInternal
	}
	return ans, nil
}
