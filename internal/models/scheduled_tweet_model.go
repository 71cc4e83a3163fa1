package models

import "time"

type ScheduleStatus string

const (
	ScheduleStatusPending ScheduleStatus = "pending"
	ScheduleStatusPosted  ScheduleStatus = "posted"
	ScheduleStatusFailed  ScheduleStatus = "failed"
)

// Terminal reports whether no further transition may leave s.
func (s ScheduleStatus) Terminal() bool {
	return s == ScheduleStatusPosted || s == ScheduleStatusFailed
}

// MaxTweetLength is the platform limit, counted in characters (runes).
const MaxTweetLength = 280

// ScheduledTweet is one intended future publish. The four Twitter secrets are
// stored as ciphertext and never serialized.
type ScheduledTweet struct {
	ID                  int64          `db:"id" json:"id"`
	UserID              int64          `db:"user_id" json:"user_id"`
	UserName            string         `db:"user_name" json:"userName"`
	Content             string         `db:"content" json:"content"`
	ImageURL            string         `db:"image_url" json:"imageUrl,omitempty"`
	ScheduledTime       time.Time      `db:"scheduled_time" json:"scheduledTime"`
	Status              ScheduleStatus `db:"status" json:"status"`
	TwitterAPIKey       string         `db:"twitter_api_key" json:"-"`
	TwitterAPISecret    string         `db:"twitter_api_secret" json:"-"`
	TwitterAccessToken  string         `db:"twitter_access_token" json:"-"`
	TwitterAccessSecret string         `db:"twitter_access_secret" json:"-"`
	PostedTweetID       string         `db:"posted_tweet_id" json:"postedTweetId,omitempty"`
	FailureReason       string         `db:"failure_reason" json:"failureReason,omitempty"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updatedAt"`
}

// TransitionFields are written together with a status change.
type TransitionFields struct {
	PostedTweetID string
	FailureReason string
}
