package handler

import (
	"pdfquiz/internal/middleware"
	"pdfquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the session API under /api and the health check at /health.
// Every route below /api/sessions/:id requires that session's token.
func RegisterRoutes(app *fiber.App, h *QuizHandler, tokens service.TokenService, vm *middleware.ValidationMiddleware) {
	app.Get("/health", Health)

	api := app.Group("/api")
	api.Post("/sessions", h.CreateSession)

	sessions := api.Group("/sessions/:id", vm.ValidateSessionID(), middleware.SessionAuth(tokens))
	sessions.Get("/", h.GetSession)
	sessions.Post("/quiz", vm.ValidateDifficulty(), h.GenerateQuiz)
	sessions.Put("/answers/:index", vm.ValidateQuestionIndex(), h.SelectAnswer)
	sessions.Post("/submit", h.Submit)
	sessions.Get("/review", h.Review)
	sessions.Get("/attempts", h.ListAttempts)
}

// Health handles GET /health
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
