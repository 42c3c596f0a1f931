package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LocalsUsernameKey is where the session middleware stores the authenticated
// username on the request context.
const LocalsUsernameKey = "username"

var ErrInvalidSession = errors.New("invalid or expired session")

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies the single cookie-backed session value:
// an HS256-signed token whose only payload is the username.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
}

func NewSessionManager(secret, cookieName string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), cookieName: cookieName, ttl: ttl}
}

// Issue opens a session for username by setting the cookie.
func (m *SessionManager) Issue(c *fiber.Ctx, username string) error {
	now := time.Now()
	claims := &sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Expires:  now.Add(m.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// Clear drops the session cookie.
func (m *SessionManager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// Username parses and validates the session cookie.
func (m *SessionManager) Username(c *fiber.Ctx) (string, error) {
	raw := c.Cookies(m.cookieName)
	if raw == "" {
		return "", ErrInvalidSession
	}
	token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidSession
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", ErrInvalidSession
	}
	return claims.Username, nil
}

// RequireSession gates a route group on a valid session cookie and exposes
// the username via c.Locals.
func (m *SessionManager) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uname, err := m.Username(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}
		c.Locals(LocalsUsernameKey, uname)
		return c.Next()
	}
}

// SessionUsername reads the username set by RequireSession.
func SessionUsername(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalsUsernameKey).(string); ok {
		return v
	}
	return ""
}
