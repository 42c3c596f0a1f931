package routes

import (
	"github.com/Nate5599/homework-helper/internal/handlers"
	"github.com/Nate5599/homework-helper/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, auth *handlers.AuthHandler, profile *handlers.ProfileHandler, study *handlers.StudyHandler, sessions *middleware.SessionManager) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api/v1")

	pub := api.Group("/auth")
	pub.Post("/signup", auth.Signup)
	pub.Post("/login", auth.Login)
	pub.Post("/login/phone", auth.LoginPhone)
	pub.Post("/login/email/request", auth.RequestEmailOTP)
	pub.Post("/login/email/verify", auth.VerifyEmailOTP)
	pub.Get("/dev/:provider", auth.ProviderLogin)
	pub.Post("/dev/:provider", auth.ProviderLogin)
	pub.Post("/logout", auth.Logout)

	sess := api.Group("/", sessions.RequireSession())
	sess.Get("/me", profile.Me)
	sess.Post("/onboarding", profile.Onboarding)
	sess.Get("/settings", profile.GetSettings)
	sess.Put("/settings", profile.UpdateSettings)
	sess.Post("/settings/avatar", profile.UploadAvatar)

	sess.Post("/ask", study.Ask)
	sess.Get("/history", study.History)
	sess.Get("/flashcards", study.ListFlashcards)
	sess.Post("/flashcards", study.AddFlashcard)
	sess.Get("/planner", study.ListPlanner)
	sess.Post("/planner", study.AddPlannerItem)
}
