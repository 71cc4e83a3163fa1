package queue

import (
	"context"
)

const TaskTypeDispatchTweet = "dispatch:tweet"

type DispatchTweetPayload struct {
	ScheduledTweetID int64 `json:"scheduled_tweet_id"`
}

// Dispatcher is the part of the dispatcher the worker drives.
type Dispatcher interface {
	DispatchByID(ctx context.Context, id int64) error
}

type Queue struct {
	d Dispatcher
}

func NewQueue(d Dispatcher) *Queue {
	return &Queue{d: d}
}
