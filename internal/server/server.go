package server

import (
	"encoding/json"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"

	"catalog-assistant/internal/bootstrap"
	"catalog-assistant/internal/config"
)

// Server exposes the webhook endpoint. It only exists in webhook mode; long
// polling bypasses HTTP entirely.
type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	// Telegram retries on non-2xx, so malformed bodies are acknowledged and
	// dropped instead of bounced back forever.
	app.Post("/telegram/webhook", func(ctx *fiber.Ctx) error {
		var update tgbotapi.Update
		if err := json.Unmarshal(ctx.Body(), &update); err != nil {
			c.Logger.Warn("server", "malformed webhook payload", map[string]interface{}{
				"error": err.Error(),
			})
			return ctx.SendStatus(fiber.StatusOK)
		}
		c.Dispatcher.Dispatch(update)
		return ctx.SendStatus(fiber.StatusOK)
	})
}
