package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/repository"
	"github.com/Nate5599/homework-helper/internal/utils"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// image extensions accepted for avatar upload
var allowedAvatarExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"gif":  true,
}

type profileService struct {
	repo      repository.UserRepository
	logger    *zap.SugaredLogger
	uploadDir string
	maxWidth  int
	hashCost  int
	now       func() time.Time
}

func NewProfileService(repo repository.UserRepository, logger *zap.SugaredLogger, uploadDir string, maxWidth, hashCost int) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		uploadDir: uploadDir,
		maxWidth:  maxWidth,
		hashCost:  hashCost,
		now:       time.Now,
	}
}

func (s *profileService) Profile(ctx context.Context, username string) (*models.ProfileView, error) {
	acc, ok := s.repo.Get(username)
	if !ok {
		return nil, ErrUserNotFound
	}
	display := acc.DisplayName
	if display == "" {
		display = username
	}
	avatar := acc.AvatarPath
	if avatar == "" {
		avatar = models.DefaultAvatarPath
	}
	return &models.ProfileView{
		Username:    username,
		DisplayName: display,
		Email:       acc.Email,
		Phone:       acc.Phone,
		AvatarPath:  avatar,
		Admin:       acc.Admin,
		FirstLogin:  acc.FirstLogin,
	}, nil
}

// CompleteOnboarding sets the presentation fields and clears the first-login
// flag, once.
func (s *profileService) CompleteOnboarding(ctx context.Context, username string, req models.OnboardingRequest) error {
	display := strings.TrimSpace(req.DisplayName)
	if display == "" {
		display = username
	}
	avatar := strings.TrimSpace(req.AvatarPath)
	if avatar == "" {
		avatar = models.DefaultAvatarPath
	}
	err := s.repo.Update(username, func(acc *models.Account) error {
		acc.DisplayName = display
		acc.AvatarPath = avatar
		acc.FirstLogin = false
		return nil
	})
	if err != nil {
		return s.wrap("onboarding", username, err)
	}
	return nil
}

// UpdateSettings applies email and phone as given; display name and password
// only when non-empty. Uniqueness is not re-checked on edits.
func (s *profileService) UpdateSettings(ctx context.Context, username string, req models.SettingsRequest) error {
	display := strings.TrimSpace(req.DisplayName)
	email := strings.TrimSpace(req.Email)
	phone := utils.NormalizePhone(req.Phone)
	password := req.Password

	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", ErrInternal)
		}
		hash = string(h)
	}

	err := s.repo.Update(username, func(acc *models.Account) error {
		if display != "" {
			acc.DisplayName = display
		}
		acc.Email = email
		acc.Phone = phone
		if hash != "" {
			acc.Password = hash
		}
		return nil
	})
	if err != nil {
		return s.wrap("settings update", username, err)
	}
	return nil
}

// SaveAvatar validates the extension, downscales oversized images and writes
// the file under the uploads dir before pointing the record at it.
func (s *profileService) SaveAvatar(ctx context.Context, username, filename string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedAvatarExts[ext] {
		return "", ErrInvalidAvatarType
	}
	if _, ok := s.repo.Get(username); !ok {
		return "", ErrUserNotFound
	}

	if resized, err := s.downscale(data, ext); err != nil {
		// store the original bytes when the image cannot be decoded
		s.logger.Warnf("avatar upload: could not decode %q for %q, storing as-is: %v", filename, username, err)
	} else {
		data = resized
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	fname := fmt.Sprintf("%s_%d_%s.%s", sanitizeName(username), s.now().Unix(), uuid.NewString()[:8], ext)
	if err := os.WriteFile(filepath.Join(s.uploadDir, fname), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	avatarPath := "static/uploads/" + fname
	err := s.repo.Update(username, func(acc *models.Account) error {
		acc.AvatarPath = avatarPath
		return nil
	})
	if err != nil {
		return "", s.wrap("avatar upload", username, err)
	}
	return avatarPath, nil
}

func (s *profileService) downscale(data []byte, ext string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > s.maxWidth {
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *profileService) wrap(op, username string, err error) error {
	if err == repository.ErrNotFound {
		return ErrUserNotFound
	}
	s.logger.Errorf("%s: failed for %q: %v", op, username, err)
	return ErrInternal
}

// sanitizeName keeps only filename-safe characters so usernames cannot
// smuggle path separators into the uploads dir.
func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "user"
	}
	return sb.String()
}
