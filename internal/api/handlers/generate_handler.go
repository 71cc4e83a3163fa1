package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

type GenerateHandler struct {
	s service.GeneratorService
}

func NewGenerateHandler(service service.GeneratorService) *GenerateHandler {
	return &GenerateHandler{s: service}
}

func (h *GenerateHandler) GenerateTweet(c *fiber.Ctx) error {
	var req transfer.GenerateTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	tweet, err := h.s.GenerateTweet(c.Context(), GetUserID(c), req.AIPrompt, req.ProviderKeys)
	if err != nil {
		return failWith(c, err, "Failed to generate tweet")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"content":  tweet.Content,
		"provider": tweet.Provider,
	})
}

// GenerateBulk returns one result per prompt; a failed prompt does not fail
// the request.
func (h *GenerateHandler) GenerateBulk(c *fiber.Ctx) error {
	var req transfer.GenerateBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	results, err := h.s.GenerateBulk(c.Context(), GetUserID(c), req.Prompts, req.ProviderKeys)
	if err != nil {
		return failWith(c, err, "Failed to generate tweets")
	}

	return c.JSON(fiber.Map{"success": true, "results": results})
}

func (h *GenerateHandler) GenerateImage(c *fiber.Ctx) error {
	var req transfer.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	url, err := h.s.GenerateImage(c.Context(), GetUserID(c), req.Prompt, req.ProviderKeys)
	if err != nil {
		return failWith(c, err, "Failed to generate image")
	}

	return c.JSON(fiber.Map{"success": true, "imageUrl": url})
}
