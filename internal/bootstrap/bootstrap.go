package bootstrap

import (
	"context"
	"log"

	"github.com/Nate5599/homework-helper/internal/config"
	"github.com/Nate5599/homework-helper/internal/handlers"
	"github.com/Nate5599/homework-helper/internal/mailer"
	"github.com/Nate5599/homework-helper/internal/middleware"
	"github.com/Nate5599/homework-helper/internal/models"
	"github.com/Nate5599/homework-helper/internal/repository"
	"github.com/Nate5599/homework-helper/internal/routes"
	"github.com/Nate5599/homework-helper/internal/server"
	"github.com/Nate5599/homework-helper/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// built-in admin account, seeded on first start
const (
	adminUsername = "admin"
	adminPassword = "AdminPass123!"
	adminEmail    = "local-admin@localhost"
)

type AppContext struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
	Repo   *repository.FileUserRepo
	App    *fiber.App
}

type CleanupFn func(context.Context)

func Init(configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	sugar := logger.Sugar()
	sugar.Infof("Starting homework-helper in %s environment", cfg.App.Env)

	repo, err := repository.NewFileUserRepo(cfg.Store.UsersFile, sugar)
	if err != nil {
		return nil, nil, err
	}
	if err := seedAdmin(repo, cfg.Security.PasswordHashCost, sugar); err != nil {
		return nil, nil, err
	}

	mail := mailer.NewClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if !mail.IsConfigured() {
		sugar.Warn("SMTP not fully configured, login codes will use the dev echo fallback")
	}

	sessions := middleware.NewSessionManager(cfg.Session.Secret, cfg.Session.CookieName, cfg.SessionTTL())

	authSvc := services.NewAuthService(repo, mail, sugar, cfg.OtpTTL(), cfg.Security.PasswordHashCost, cfg.SMTP.DevEcho, cfg.Security.OAuthTestMode)
	profileSvc := services.NewProfileService(repo, sugar, cfg.Uploads.Dir, cfg.Uploads.MaxWidth, cfg.Security.PasswordHashCost)
	studySvc := services.NewStudyService(repo, sugar)
	answerSvc := services.NewAnswerService(repo, sugar)

	app := server.New(cfg, logger)
	routes.Setup(app,
		handlers.NewAuthHandler(authSvc, sessions, sugar),
		handlers.NewProfileHandler(profileSvc, sugar),
		handlers.NewStudyHandler(studySvc, answerSvc, sugar),
		sessions,
	)

	appCtx := &AppContext{Config: cfg, Logger: logger, Sugar: sugar, Repo: repo, App: app}
	cleanup := func(ctx context.Context) {
		if err := app.ShutdownWithContext(ctx); err != nil {
			sugar.Errorf("Fiber app shutdown error: %v", err)
		}
		if err := logger.Sync(); err != nil {
			log.Printf("Logger sync error: %v", err)
		}
	}
	return appCtx, cleanup, nil
}

// seedAdmin creates the built-in admin account if the store does not have it.
func seedAdmin(repo *repository.FileUserRepo, hashCost int, sugar *zap.SugaredLogger) error {
	if _, exists := repo.Get(adminUsername); exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), hashCost)
	if err != nil {
		return err
	}
	acc := models.NewAccount(adminEmail, "", string(hash), "Admin")
	acc.Admin = true
	if err := repo.Create(adminUsername, acc); err != nil {
		return err
	}
	sugar.Infof("Seeded built-in admin account %q", adminUsername)
	return nil
}
