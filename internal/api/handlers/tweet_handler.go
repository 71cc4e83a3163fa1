package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

type TweetHandler struct {
	s service.TweetService
}

func NewTweetHandler(service service.TweetService) *TweetHandler {
	return &TweetHandler{s: service}
}

// PostTweet publishes immediately. It accepts JSON or a multipart form with
// an optional "image" file.
func (h *TweetHandler) PostTweet(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PostTweetRequest
	var image []byte

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req = transfer.PostTweetRequest{
			TwitterCredentials: transfer.TwitterCredentials{
				TwitterAPIKey:       c.FormValue("twitterApiKey"),
				TwitterAPISecret:    c.FormValue("twitterApiSecret"),
				TwitterAccessToken:  c.FormValue("twitterAccessToken"),
				TwitterAccessSecret: c.FormValue("twitterAccessSecret"),
			},
			UserName: c.FormValue("userName"),
			Content:  c.FormValue("content"),
			ImageURL: c.FormValue("imageUrl"),
		}

		data, err := readFormFile(c, "image")
		if err != nil {
			slog.Error(err.Error())
			return fail(c, fiber.StatusBadRequest, "Unable to read image")
		}
		image = data
	} else if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	tweet, err := h.s.PostNow(c.Context(), userID, req, image)
	if err != nil {
		return failWith(c, err, "Failed to post tweet")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tweet posted successfully",
		"tweetId": tweet.TwitterID,
		"tweet":   tweet,
	})
}

func (h *TweetHandler) History(c *fiber.Ctx) error {
	userId := GetUserID(c)

	tweets, err := h.s.History(c.Context(), userId)
	if err != nil {
		return failWith(c, err, "Unable to load tweet history")
	}

	return c.JSON(fiber.Map{"success": true, "tweets": tweets})
}

// DeleteHistory removes a history entry. Credentials in the body, when
// complete, also delete the tweet on the platform.
func (h *TweetHandler) DeleteHistory(c *fiber.Ctx) error {
	userId := GetUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, "Invalid tweet id")
	}

	var creds transfer.TwitterCredentials
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&creds); err != nil {
			return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
		}
	}

	if err := h.s.DeleteHistory(c.Context(), userId, int64(id), creds); err != nil {
		return failWith(c, err, "Unable to delete tweet")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Tweet deleted"})
}
