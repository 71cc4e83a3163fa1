package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/service"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// failWith maps service errors onto a status code. Unknown errors become a
// 500 carrying fallback as message.
func failWith(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrStorageDisabled):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrContentEmpty),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrScheduleInPast),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrUnsupportedMedia),
		errors.Is(err, service.ErrMediaTooLarge),
		errors.Is(err, service.ErrInvalidMediaURL),
		errors.Is(err, service.ErrNoProvider),
		errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrOTPExpired),
		errors.Is(err, service.ErrWeakPassword):
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var apiErr *service.TwitterAPIError
	if errors.As(err, &apiErr) && apiErr.AuthRejected() {
		return fail(c, fiber.StatusUnauthorized, apiErr.Error())
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": fallback,
		"error":   err.Error(),
	})
}
