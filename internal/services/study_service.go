package services

import (
	"context"
	"strings"
	"time"

	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/repository"
	"go.uber.org/zap"
)

type studyService struct {
	repo   repository.UserRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewStudyService(repo repository.UserRepository, logger *zap.SugaredLogger) StudyService {
	return &studyService{repo: repo, logger: logger, now: time.Now}
}

func (s *studyService) History(ctx context.Context, username string) ([]models.HistoryEntry, error) {
	acc, ok := s.repo.Get(username)
	if !ok {
		return nil, ErrUserNotFound
	}
	return acc.History, nil
}

func (s *studyService) Flashcards(ctx context.Context, username string) ([]models.Flashcard, error) {
	acc, ok := s.repo.Get(username)
	if !ok {
		return nil, ErrUserNotFound
	}
	return acc.Flashcards, nil
}

// AddFlashcard appends a card stamped with the current time in milliseconds.
// Two cards created within the same millisecond share an id.
func (s *studyService) AddFlashcard(ctx context.Context, username, front, back string) (*models.Flashcard, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	card := models.Flashcard{Front: front, Back: back, ID: s.now().UnixMilli()}
	err := s.repo.Update(username, func(acc *models.Account) error {
		acc.Flashcards = append(acc.Flashcards, card)
		return nil
	})
	if err != nil {
		return nil, s.wrap("add flashcard", username, err)
	}
	return &card, nil
}

func (s *studyService) Planner(ctx context.Context, username string) ([]models.PlannerItem, error) {
	acc, ok := s.repo.Get(username)
	if !ok {
		return nil, ErrUserNotFound
	}
	return acc.Planner, nil
}

func (s *studyService) AddPlannerItem(ctx context.Context, username, title, date string) (*models.PlannerItem, error) {
	title = strings.TrimSpace(title)
	date = strings.TrimSpace(date)
	item := models.PlannerItem{Title: title, Date: date, ID: s.now().UnixMilli()}
	err := s.repo.Update(username, func(acc *models.Account) error {
		acc.Planner = append(acc.Planner, item)
		return nil
	})
	if err != nil {
		return nil, s.wrap("add planner item", username, err)
	}
	return &item, nil
}

func (s *studyService) wrap(op, username string, err error) error {
	if err == repository.ErrNotFound {
		return ErrUserNotFound
	}
	s.logger.Errorf("%s: failed for %q: %v", op, username, err)
	return ErrInternal
}
