package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "session:\n  secret: s3cret\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.App.Port)
	assert.Equal(t, "hh_session", cfg.Session.CookieName)
	assert.Equal(t, "data/users.json", cfg.Store.UsersFile)
	assert.Equal(t, "static/uploads", cfg.Uploads.Dir)
	assert.Equal(t, 600, cfg.Security.OtpTTLSeconds)
	assert.Equal(t, 600.0, cfg.OtpTTL().Seconds())
	assert.Equal(t, "no-reply@local", cfg.SMTP.From)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "app:\n  port: 5000\nsession:\n  secret: s3cret\n")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("ALLOWED_HOSTS", "a.example.com, B.example.com")
	t.Setenv("OTP_TTL_SECONDS", "300")
	t.Setenv("DEV_EMAIL_ECHO", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, cfg.App.AllowedHosts)
	assert.Equal(t, 300, cfg.Security.OtpTTLSeconds)
	assert.True(t, cfg.SMTP.DevEcho)
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	path := writeConfig(t, "app:\n  port: 5000\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
