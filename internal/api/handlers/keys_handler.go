package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

type KeysHandler struct {
	s service.KeysService
}

func NewKeysHandler(service service.KeysService) *KeysHandler {
	return &KeysHandler{s: service}
}

// GetKeys returns the stored provider keys masked.
func (h *KeysHandler) GetKeys(c *fiber.Ctx) error {
	userId := GetUserID(c)

	keys, err := h.s.Get(c.Context(), userId)
	if err != nil {
		return failWith(c, err, "Unable to load API keys")
	}

	return c.JSON(fiber.Map{"success": true, "keys": keys})
}

func (h *KeysHandler) UpdateKeys(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.ProviderKeys
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	if err := h.s.Update(c.Context(), userId, req); err != nil {
		return failWith(c, err, "Unable to save API keys")
	}

	return c.JSON(fiber.Map{"success": true, "message": "API keys saved"})
}
