package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env                 string   `yaml:"env"`
	Port                int      `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
	AllowedHosts        []string `yaml:"allowed_hosts"`
}

type SessionCfg struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	TTLHours   int    `yaml:"ttl_hours"`
}

type StoreCfg struct {
	UsersFile string `yaml:"users_file"`
}

type UploadsCfg struct {
	Dir      string `yaml:"dir"`
	MaxWidth int    `yaml:"max_width"`
}

type SMTPCfg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	DevEcho  bool   `yaml:"dev_echo"`
}

type SecurityCfg struct {
	OtpTTLSeconds    int  `yaml:"otpTTLSeconds"`
	PasswordHashCost int  `yaml:"passwordHashCost"`
	OAuthTestMode    bool `yaml:"oauthTestMode"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	Session  SessionCfg  `yaml:"session"`
	Store    StoreCfg    `yaml:"store"`
	Uploads  UploadsCfg  `yaml:"uploads"`
	SMTP     SMTPCfg     `yaml:"smtp"`
	Security SecurityCfg `yaml:"security"`
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.App.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.App.WriteTimeoutSeconds) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.App.IdleTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

func (c *Config) OtpTTL() time.Duration {
	return time.Duration(c.Security.OtpTTLSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("ALLOWED_HOSTS", func(v string) {
		cfg.App.AllowedHosts = cfg.App.AllowedHosts[:0]
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.App.AllowedHosts = append(cfg.App.AllowedHosts, strings.ToLower(h))
			}
		}
	})
	override("SESSION_SECRET", func(v string) { cfg.Session.Secret = v })
	override("USERS_FILE", func(v string) { cfg.Store.UsersFile = v })
	override("UPLOAD_DIR", func(v string) { cfg.Uploads.Dir = v })
	override("SMTP_HOST", func(v string) { cfg.SMTP.Host = v })
	override("SMTP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = n
		}
	})
	override("SMTP_USER", func(v string) { cfg.SMTP.Username = v })
	override("SMTP_PASS", func(v string) { cfg.SMTP.Password = v })
	override("FROM_EMAIL", func(v string) { cfg.SMTP.From = v })
	override("OTP_TTL_SECONDS", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.OtpTTLSeconds = n
		}
	})
	override("PASSWORD_HASH_COST", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.PasswordHashCost = n
		}
	})

	if v := os.Getenv("DEV_EMAIL_ECHO"); v != "" {
		cfg.SMTP.DevEcho = v == "1" || v == "true"
	}
	if v := os.Getenv("OAUTH_TEST_MODE"); v != "" {
		cfg.Security.OAuthTestMode = v == "1" || v == "true"
	}

	applyDefaults(cfg)

	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required (set in .env or config.yaml)")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 5000
	}
	if cfg.App.ReadTimeoutSeconds == 0 {
		cfg.App.ReadTimeoutSeconds = 15
	}
	if cfg.App.WriteTimeoutSeconds == 0 {
		cfg.App.WriteTimeoutSeconds = 15
	}
	if cfg.App.IdleTimeoutSeconds == 0 {
		cfg.App.IdleTimeoutSeconds = 60
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "hh_session"
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 24 * 7
	}
	if cfg.Store.UsersFile == "" {
		cfg.Store.UsersFile = "data/users.json"
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "static/uploads"
	}
	if cfg.Uploads.MaxWidth == 0 {
		cfg.Uploads.MaxWidth = 512
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.From == "" {
		if cfg.SMTP.Username != "" {
			cfg.SMTP.From = cfg.SMTP.Username
		} else {
			cfg.SMTP.From = "no-reply@local"
		}
	}
	if cfg.Security.OtpTTLSeconds == 0 {
		cfg.Security.OtpTTLSeconds = 600
	}
	if cfg.Security.PasswordHashCost == 0 {
		cfg.Security.PasswordHashCost = 10
	}
}
