package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/tweetgenie/internal/service"
)

type UserHandler struct {
	s service.AuthService
}

func NewUserHandler(service service.AuthService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)

	user, err := h.s.Me(c.Context(), userId)
	if err != nil {
		return failWith(c, err, "Failed to load user")
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}
