package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/tweetgenie/internal/queue"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

type ScheduleHandler struct {
	s           service.ScheduleService
	AsynqClient queue.Enqueuer
}

func NewScheduleHandler(service service.ScheduleService, asynqClient queue.Enqueuer) *ScheduleHandler {
	return &ScheduleHandler{s: service, AsynqClient: asynqClient}
}

// nudge asks the queue to dispatch the record at its due time. A failure is
// only logged since the periodic scan picks the record up anyway.
func (h *ScheduleHandler) nudge(id int64, dueAt time.Time) {
	if h.AsynqClient == nil {
		return
	}
	err := queue.EnqueueDispatch(h.AsynqClient, queue.DispatchTweetPayload{ScheduledTweetID: id}, dueAt)
	if err != nil {
		slog.Error("failed to enqueue dispatch task", "post_id", id, "error", err)
	}
}

func (h *ScheduleHandler) ScheduleTweet(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduleTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	st, err := h.s.Schedule(c.Context(), userID, req)
	if err != nil {
		return failWith(c, err, "Failed to schedule tweet")
	}

	h.nudge(st.ID, st.ScheduledTime)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"message":        "Tweet scheduled successfully",
		"scheduledTweet": st,
	})
}

func (h *ScheduleHandler) ScheduleBulk(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.BulkScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Unable to parse request body")
	}

	results, err := h.s.ScheduleBulk(c.Context(), userID, req)
	if err != nil {
		return failWith(c, err, "Failed to schedule tweets")
	}

	scheduled := 0
	for _, r := range results {
		if !r.Success {
			continue
		}
		scheduled++
		if r.ScheduledTime != nil {
			h.nudge(r.ID, *r.ScheduledTime)
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"scheduled": scheduled,
		"failed":    len(results) - scheduled,
		"results":   results,
	})
}

func (h *ScheduleHandler) ListScheduled(c *fiber.Ctx) error {
	userId := GetUserID(c)

	tweets, err := h.s.List(c.Context(), userId)
	if err != nil {
		return failWith(c, err, "Unable to list scheduled tweets")
	}

	return c.JSON(fiber.Map{"success": true, "scheduledTweets": tweets})
}

func (h *ScheduleHandler) GetScheduled(c *fiber.Ctx) error {
	userId := GetUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, "Invalid scheduled tweet id")
	}

	st, err := h.s.Get(c.Context(), userId, int64(id))
	if err != nil {
		return failWith(c, err, "Unable to load scheduled tweet")
	}

	return c.JSON(fiber.Map{"success": true, "scheduledTweet": st})
}

func (h *ScheduleHandler) RemoveScheduled(c *fiber.Ctx) error {
	userId := GetUserID(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, "Invalid scheduled tweet id")
	}

	if err := h.s.Remove(c.Context(), userId, int64(id)); err != nil {
		return failWith(c, err, "Unable to delete scheduled tweet")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Scheduled tweet deleted"})
}

func (h *ScheduleHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "No image provided")
	}

	data, err := readFormFile(c, "image")
	if err != nil {
		slog.Error(err.Error())
		return fail(c, fiber.StatusBadRequest, "Unable to read image")
	}

	url, err := h.s.UploadImage(c.Context(), data)
	if err != nil {
		return failWith(c, err, "Failed to upload image")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"imageUrl": url,
		"filename": fileHeader.Filename,
	})
}

// readFormFile returns the contents of the named multipart file, or nil when
// the request carries none.
func readFormFile(c *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
