package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleDispatchTweetTask(ctx context.Context, task *asynq.Task) error {
	var payload DispatchTweetPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid dispatch payload: %v: %w", err, asynq.SkipRetry)
	}

	return q.d.DispatchByID(ctx, payload.ScheduledTweetID)
}
