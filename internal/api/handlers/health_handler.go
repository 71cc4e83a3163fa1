package handlers

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/tweetgenie/configs"
)

type HealthHandler struct {
	cfg config.Config
}

func NewHealthHandler(cfg config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Root reports which optional integrations have server-side configuration.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": h.cfg.ServiceName,
		"services": fiber.Map{
			"perplexity": h.cfg.Providers.PerplexityAPIKey != "",
			"gemini":     h.cfg.Providers.GeminiAPIKey != "",
			"openai":     h.cfg.Providers.OpenAIAPIKey != "",
			"storage":    h.cfg.R2.BucketName != "",
		},
	})
}

func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "pong"})
}
