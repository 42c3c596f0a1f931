package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/utils"
	"go.uber.org/zap"
)

// FileUserRepo persists the whole username->account map as one JSON document.
// Every mutation rewrites the file via write-temp-then-rename, under a single
// process-wide lock, so concurrent requests cannot lose each other's writes
// and a crash mid-write cannot corrupt the file.
type FileUserRepo struct {
	mu     sync.RWMutex
	path   string
	logger *zap.SugaredLogger

	users map[string]*models.Account
	// secondary indexes, rebuilt on load and after every mutation
	byUsername map[string]string // lowercased username -> key
	byEmail    map[string]string // lowercased email -> key
	byPhone    map[string]string // digits-only phone -> key
}

func NewFileUserRepo(path string, logger *zap.SugaredLogger) (*FileUserRepo, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}
	r := &FileUserRepo{path: path, logger: logger}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads the backing file. A missing file is created empty; a corrupt one
// is kept on disk but treated as an empty store.
func (r *FileUserRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = map[string]*models.Account{}
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.reindexLocked()
			return r.saveLocked()
		}
		return fmt.Errorf("failed to read users file: %w", err)
	}
	if len(b) > 0 {
		var loaded map[string]*models.Account
		if err := json.Unmarshal(b, &loaded); err != nil {
			r.logger.Warnf("users file %s is corrupt, starting with an empty store: %v", r.path, err)
		} else if loaded != nil {
			r.users = loaded
		}
	}
	for _, acc := range r.users {
		normalizeLoaded(acc)
	}
	r.reindexLocked()
	return nil
}

// normalizeLoaded backfills nil collections on records written by hand or by
// older versions of the file.
func normalizeLoaded(acc *models.Account) {
	if acc.History == nil {
		acc.History = []models.HistoryEntry{}
	}
	if acc.Flashcards == nil {
		acc.Flashcards = []models.Flashcard{}
	}
	if acc.Planner == nil {
		acc.Planner = []models.PlannerItem{}
	}
	if acc.Settings == nil {
		acc.Settings = map[string]string{}
	}
}

func (r *FileUserRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp users file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close users file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}

// reindexLocked rebuilds the secondary indexes. Usernames are walked in
// sorted order and the first occupant of a normalized key wins, so resolution
// stays deterministic even if records collide on a lowered username.
func (r *FileUserRepo) reindexLocked() {
	r.byUsername = make(map[string]string, len(r.users))
	r.byEmail = make(map[string]string, len(r.users))
	r.byPhone = make(map[string]string, len(r.users))

	names := make([]string, 0, len(r.users))
	for name := range r.users {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		acc := r.users[name]
		if k := strings.ToLower(name); !taken(r.byUsername, k) {
			r.byUsername[k] = name
		}
		if acc.Email != "" {
			if k := strings.ToLower(acc.Email); !taken(r.byEmail, k) {
				r.byEmail[k] = name
			}
		}
		if p := utils.NormalizePhone(acc.Phone); p != "" && !taken(r.byPhone, p) {
			r.byPhone[p] = name
		}
	}
}

func taken(idx map[string]string, key string) bool {
	_, ok := idx[key]
	return ok
}

func (r *FileUserRepo) Get(username string) (*models.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.users[username]
	if !ok {
		return nil, false
	}
	return acc.Clone(), true
}

func (r *FileUserRepo) FindByIdentifier(identifier string) (string, *models.Account, bool) {
	ident := strings.TrimSpace(identifier)
	if ident == "" {
		return "", nil, false
	}
	identLower := strings.ToLower(ident)
	identPhone := utils.NormalizePhone(ident)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.byUsername[identLower]; ok {
		return name, r.users[name].Clone(), true
	}
	if name, ok := r.byEmail[identLower]; ok {
		return name, r.users[name].Clone(), true
	}
	if identPhone != "" {
		if name, ok := r.byPhone[identPhone]; ok {
			return name, r.users[name].Clone(), true
		}
	}
	return "", nil, false
}

func (r *FileUserRepo) Create(username string, acc *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[username]; exists {
		return ErrDuplicateUsername
	}
	if acc.Email != "" {
		if _, taken := r.byEmail[strings.ToLower(acc.Email)]; taken {
			return ErrDuplicateEmail
		}
	}
	if p := utils.NormalizePhone(acc.Phone); p != "" {
		if _, taken := r.byPhone[p]; taken {
			return ErrDuplicatePhone
		}
	}

	r.users[username] = acc.Clone()
	r.reindexLocked()
	if err := r.saveLocked(); err != nil {
		delete(r.users, username)
		r.reindexLocked()
		return err
	}
	return nil
}

func (r *FileUserRepo) Update(username string, mutate func(*models.Account) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.users[username]
	if !ok {
		return ErrNotFound
	}
	staged := acc.Clone()
	if err := mutate(staged); err != nil {
		return err
	}
	r.users[username] = staged
	r.reindexLocked()
	if err := r.saveLocked(); err != nil {
		r.users[username] = acc
		r.reindexLocked()
		return err
	}
	return nil
}
