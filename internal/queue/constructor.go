package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueDispatch schedules a nudge for the record at its due time. The
// periodic scan still covers the record if the nudge is lost.
func EnqueueDispatch(client Enqueuer, payload DispatchTweetPayload, dueAt time.Time) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeDispatchTweet, taskPayload)

	delay := time.Until(dueAt)
	if delay < 0 {
		delay = 0
	}

	_, err = client.Enqueue(task,
		asynq.ProcessIn(delay),
		asynq.MaxRetry(0),
		asynq.TaskID(fmt.Sprintf("dispatch-%d", payload.ScheduledTweetID)),
	)
	if err != nil {
		return err
	}

	slog.Info("dispatch task scheduled", "post_id", payload.ScheduledTweetID, "delay", delay.String())
	return nil
}
