package services

import (
	"context"
	"errors"

	"github.com/Nate5599/homework-helper/internal/models"
)

var (
	ErrConsentRequired   = errors.New("you must agree to Terms & Privacy")
	ErrMissingFields     = errors.New("username, password, and email are required")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already in use")
	ErrPhoneTaken        = errors.New("phone already in use")
	ErrUnknownIdentifier = errors.New("no account found for that username/email/phone")
	ErrWrongPassword     = errors.New("password incorrect")
	ErrPhoneLoginFailed  = errors.New("phone or password incorrect")
	ErrUnknownEmail      = errors.New("no account with that email")
	ErrOTPExpired        = errors.New("code expired, request a new one")
	ErrInvalidOTP        = errors.New("invalid code")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrOAuthDisabled     = errors.New("OAuth not configured (test mode off)")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAvatarType = errors.New("invalid file type")
	ErrInternal          = errors.New("internal server error")
)

// Session is the outcome of any successful login or signup; handlers turn it
// into a session cookie and a redirect hint.
type Session struct {
	Username   string
	FirstLogin bool
}

// OTPIssue reports an issued email login code. DevCode is set only when the
// mail could not be delivered and the dev echo fallback is on.
type OTPIssue struct {
	MaskedEmail string
	DevCode     string
}

// AuthService covers signup and every login flow.
type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*Session, error)
	LoginWithIdentifier(ctx context.Context, identifier, password string) (*Session, error)
	LoginWithPhone(ctx context.Context, phone, password string) (*Session, error)
	RequestEmailOTP(ctx context.Context, email string) (*OTPIssue, error)
	VerifyEmailOTP(ctx context.Context, email, code string) (*Session, error)
	ProviderLogin(ctx context.Context, provider string) (*Session, error)
}

// ProfileService covers onboarding, profile settings and avatar upload.
type ProfileService interface {
	Profile(ctx context.Context, username string) (*models.ProfileView, error)
	CompleteOnboarding(ctx context.Context, username string, req models.OnboardingRequest) error
	UpdateSettings(ctx context.Context, username string, req models.SettingsRequest) error
	SaveAvatar(ctx context.Context, username, filename string, data []byte) (string, error)
}

// StudyService covers the per-user collections.
type StudyService interface {
	History(ctx context.Context, username string) ([]models.HistoryEntry, error)
	Flashcards(ctx context.Context, username string) ([]models.Flashcard, error)
	AddFlashcard(ctx context.Context, username, front, back string) (*models.Flashcard, error)
	Planner(ctx context.Context, username string) ([]models.PlannerItem, error)
	AddPlannerItem(ctx context.Context, username, title, date string) (*models.PlannerItem, error)
}

// AnswerService produces test-mode answers and records them in history.
type AnswerService interface {
	Ask(ctx context.Context, username, question, mode string) (string, error)
}
