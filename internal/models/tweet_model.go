package models

import "time"

// Tweet is a history row for an already published post, written by both the
// immediate post path and the dispatcher.
type Tweet struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"userName"`
	Content   string    `db:"content" json:"content"`
	ImageURL  string    `db:"image_url" json:"imageUrl,omitempty"`
	TwitterID string    `db:"twitter_id" json:"twitterId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
