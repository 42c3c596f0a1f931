package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnswerIsPureAndDeterministic(t *testing.T) {
	tests := []struct {
		name     string
		question string
		mode     string
		want     string
	}{
		{"explain", "what is 2+2", "explain", "[TEST MODE] Step-by-step explanation for: what is 2+2"},
		{"example", "what is 2+2", "example", "[TEST MODE] Example-based explanation for: what is 2+2"},
		{"unknown mode echoes mode", "what is 2+2", "eli5", "[TEST MODE] Answer for (eli5): what is 2+2"},
		{"question is trimmed", "  pythagoras  ", "explain", "[TEST MODE] Step-by-step explanation for: pythagoras"},
		{"empty question", "", "explain", EmptyQuestionAnswer},
		{"whitespace question any mode", "   ", "eli5", EmptyQuestionAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Answer(tt.question, tt.mode))
			// same input, same output
			assert.Equal(t, Answer(tt.question, tt.mode), Answer(tt.question, tt.mode))
		})
	}
}

func TestAskRecordsHistoryNewestFirst(t *testing.T) {
	repo, err := repository.NewFileUserRepo(filepath.Join(t.TempDir(), "users.json"), zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, repo.Create("alice", models.NewAccount("a@x.com", "", "hash", "alice")))
	svc := NewAnswerService(repo, zap.NewNop().Sugar())

	_, err = svc.Ask(context.Background(), "alice", "first question", "explain")
	require.NoError(t, err)
	ans, err := svc.Ask(context.Background(), "alice", "second question", "example")
	require.NoError(t, err)
	assert.Equal(t, "[TEST MODE] Example-based explanation for: second question", ans)

	acc, _ := repo.Get("alice")
	require.Len(t, acc.History, 2)
	assert.Equal(t, "second question", acc.History[0].Question)
	assert.Equal(t, "first question", acc.History[1].Question)
	assert.NotZero(t, acc.History[0].Timestamp)
}

func TestAskDefaultsModeToExplain(t *testing.T) {
	repo, err := repository.NewFileUserRepo(filepath.Join(t.TempDir(), "users.json"), zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, repo.Create("alice", models.NewAccount("a@x.com", "", "hash", "alice")))
	svc := NewAnswerService(repo, zap.NewNop().Sugar())

	ans, err := svc.Ask(context.Background(), "alice", "gravity", "")
	require.NoError(t, err)
	assert.Equal(t, "[TEST MODE] Step-by-step explanation for: gravity", ans)
}

func TestAskUnknownUser(t *testing.T) {
	repo, err := repository.NewFileUserRepo(filepath.Join(t.TempDir(), "users.json"), zap.NewNop().Sugar())
	require.NoError(t, err)
	svc := NewAnswerService(repo, zap.NewNop().Sugar())

	_, err = svc.Ask(context.Background(), "ghost", "q", "explain")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
