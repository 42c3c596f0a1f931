package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nate5599/homework-helper/internal/mailer"
	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/repository"
	"github.com/Nate5599/homework-helper/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// providers accepted by the test-mode OAuth endpoint
var oauthProviders = map[string]bool{
	"google":    true,
	"microsoft": true,
	"github":    true,
	"apple":     true,
}

type authService struct {
	repo          repository.UserRepository
	mail          mailer.Client
	logger        *zap.SugaredLogger
	otpTTL        time.Duration
	hashCost      int
	devEcho       bool
	oauthTestMode bool
	now           func() time.Time
}

func NewAuthService(
	repo repository.UserRepository,
	mail mailer.Client,
	logger *zap.SugaredLogger,
	otpTTL time.Duration,
	hashCost int,
	devEcho bool,
	oauthTestMode bool,
) AuthService {
	return &authService{
		repo:          repo,
		mail:          mail,
		logger:        logger,
		otpTTL:        otpTTL,
		hashCost:      hashCost,
		devEcho:       devEcho,
		oauthTestMode: oauthTestMode,
		now:           time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req models.SignupRequest) (*Session, error) {
	if !req.Consent {
		return nil, ErrConsentRequired
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	phone := utils.NormalizePhone(req.Phone)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" || email == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", ErrInternal)
	}

	acc := models.NewAccount(email, phone, string(hash), username)
	if err := s.repo.Create(username, acc); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicatePhone):
			return nil, ErrPhoneTaken
		}
		s.logger.Errorf("signup: failed to create account %q: %v", username, err)
		return nil, ErrInternal
	}
	return &Session{Username: username, FirstLogin: true}, nil
}

func (s *authService) LoginWithIdentifier(ctx context.Context, identifier, password string) (*Session, error) {
	uname, acc, ok := s.repo.FindByIdentifier(identifier)
	if !ok {
		return nil, ErrUnknownIdentifier
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(strings.TrimSpace(password))) != nil {
		return nil, ErrWrongPassword
	}
	return &Session{Username: uname, FirstLogin: acc.FirstLogin}, nil
}

// LoginWithPhone deliberately collapses unknown-phone and wrong-password into
// one generic error, unlike the identifier route.
func (s *authService) LoginWithPhone(ctx context.Context, phone, password string) (*Session, error) {
	digits := utils.NormalizePhone(phone)
	if digits == "" {
		return nil, ErrPhoneLoginFailed
	}
	uname, acc, ok := s.repo.FindByIdentifier(digits)
	if !ok {
		return nil, ErrPhoneLoginFailed
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(strings.TrimSpace(password))) != nil {
		return nil, ErrPhoneLoginFailed
	}
	return &Session{Username: uname, FirstLogin: acc.FirstLogin}, nil
}

func (s *authService) RequestEmailOTP(ctx context.Context, email string) (*OTPIssue, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrUnknownEmail
	}
	uname, _, ok := s.repo.FindByIdentifier(email)
	if !ok {
		return nil, ErrUnknownEmail
	}

	code := utils.GenerateOTP(6)
	expiry := s.now().Unix() + int64(s.otpTTL.Seconds())

	// a reissued code overwrites the previous one
	err := s.repo.Update(uname, func(acc *models.Account) error {
		acc.EmailOTP = code
		acc.EmailOTPExp = expiry
		return nil
	})
	if err != nil {
		s.logger.Errorf("otp request: failed to store code for %q: %v", uname, err)
		return nil, ErrInternal
	}

	issue := &OTPIssue{MaskedEmail: utils.MaskEmail(email)}
	sent := false
	if s.mail.IsConfigured() {
		if err := s.mail.SendLoginCode(ctx, email, code, s.otpTTL); err != nil {
			s.logger.Warnf("otp request: mail delivery to %s failed: %v", issue.MaskedEmail, err)
		} else {
			sent = true
		}
	} else {
		s.logger.Infof("otp request: smtp not configured, code for %s not mailed", issue.MaskedEmail)
	}
	if !sent && s.devEcho {
		issue.DevCode = code
	}
	return issue, nil
}

func (s *authService) VerifyEmailOTP(ctx context.Context, email, code string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	uname, acc, ok := s.repo.FindByIdentifier(email)
	if !ok {
		return nil, ErrUnknownEmail
	}

	if acc.EmailOTP == "" || s.now().Unix() > acc.EmailOTPExp {
		return nil, ErrOTPExpired
	}
	if code != acc.EmailOTP {
		return nil, ErrInvalidOTP
	}

	err := s.repo.Update(uname, func(a *models.Account) error {
		a.EmailOTP = ""
		a.EmailOTPExp = 0
		return nil
	})
	if err != nil {
		s.logger.Errorf("otp verify: failed to clear code for %q: %v", uname, err)
		return nil, ErrInternal
	}
	return &Session{Username: uname, FirstLogin: acc.FirstLogin}, nil
}

// ProviderLogin fakes an OAuth flow for a fixed provider list: it derives a
// per-provider account name, creates the account on first use and logs the
// session straight in.
func (s *authService) ProviderLogin(ctx context.Context, provider string) (*Session, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !oauthProviders[provider] {
		return nil, ErrUnknownProvider
	}
	if !s.oauthTestMode {
		return nil, ErrOAuthDisabled
	}

	uname := provider + "_user"
	for suffix := 2; ; suffix++ {
		acc, exists := s.repo.Get(uname)
		if !exists {
			break
		}
		if acc.Settings["provider"] == provider {
			return &Session{Username: uname, FirstLogin: acc.FirstLogin}, nil
		}
		// name occupied by a differently-provisioned account
		uname = fmt.Sprintf("%s_user%d", provider, suffix)
	}

	acc := models.NewAccount(provider+"_test@local", "", "", titleCase(provider)+" User")
	acc.Settings["provider"] = provider
	if err := s.repo.Create(uname, acc); err != nil {
		s.logger.Errorf("provider login: failed to create %q: %v", uname, err)
		return nil, ErrInternal
	}
	return &Session{Username: uname, FirstLogin: true}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
