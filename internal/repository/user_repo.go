package repository

import (
	"errors"

	"github.com/Nate5599/homework-helper/internal/models"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicatePhone    = errors.New("phone already in use")
	ErrNotFound          = errors.New("account not found")
)

// UserRepository is the account store. Implementations return deep copies, so
// mutation goes through Update and nothing leaks shared slices.
type UserRepository interface {
	// Get returns the record for an exact username key.
	Get(username string) (*models.Account, bool)
	// FindByIdentifier resolves a free-form identifier by case-insensitive
	// username, case-insensitive email, or digits-only phone, in that order.
	// An empty identifier never matches.
	FindByIdentifier(identifier string) (string, *models.Account, bool)
	// Create inserts a new record, enforcing username/email/phone uniqueness
	// atomically. The store is untouched when it returns an error.
	Create(username string, acc *models.Account) error
	// Update applies mutate to a copy of the record and persists the result.
	// If mutate returns an error nothing is changed.
	Update(username string, mutate func(*models.Account) error) error
}
