package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type ScheduledTweetRepository interface {
	Create(ctx context.Context, st *models.ScheduledTweet) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledTweet, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledTweet, error)
	CheckByUserID(ctx context.Context, id, userID int64) (bool, error)
	FindDuePending(ctx context.Context, now time.Time) ([]*models.ScheduledTweet, error)
	TryTransition(ctx context.Context, id int64, from, to models.ScheduleStatus, fields models.TransitionFields) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type scheduledTweetRepository struct {
	db *sql.DB
}

func NewScheduledTweetRepository(db *sql.DB) ScheduledTweetRepository {
	return &scheduledTweetRepository{db: db}
}

const scheduledTweetColumns = `id, user_id, user_name, content, COALESCE(image_url, ''), scheduled_time, status,
	twitter_api_key, twitter_api_secret, twitter_access_token, twitter_access_secret,
	COALESCE(posted_tweet_id, ''), COALESCE(failure_reason, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledTweet(row rowScanner) (*models.ScheduledTweet, error) {
	var st models.ScheduledTweet
	err := row.Scan(
		&st.ID,
		&st.UserID,
		&st.UserName,
		&st.Content,
		&st.ImageURL,
		&st.ScheduledTime,
		&st.Status,
		&st.TwitterAPIKey,
		&st.TwitterAPISecret,
		&st.TwitterAccessToken,
		&st.TwitterAccessSecret,
		&st.PostedTweetID,
		&st.FailureReason,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *scheduledTweetRepository) Create(ctx context.Context, st *models.ScheduledTweet) (int64, error) {
	query := `
		INSERT INTO scheduled_tweets (user_id, user_name, content, image_url, scheduled_time, status,
			twitter_api_key, twitter_api_secret, twitter_access_token, twitter_access_secret)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		st.UserID,
		st.UserName,
		st.Content,
		st.ImageURL,
		st.ScheduledTime,
		models.ScheduleStatusPending,
		st.TwitterAPIKey,
		st.TwitterAPISecret,
		st.TwitterAccessToken,
		st.TwitterAccessSecret,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledTweetRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledTweet, error) {
	query := `SELECT ` + scheduledTweetColumns + ` FROM scheduled_tweets WHERE id = $1`

	st, err := scanScheduledTweet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return st, nil
}

func (r *scheduledTweetRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledTweet, error) {
	query := `SELECT ` + scheduledTweetColumns + ` FROM scheduled_tweets WHERE user_id = $1 ORDER BY scheduled_time ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectScheduledTweets(rows)
}

// FindDuePending returns every pending record whose scheduled time is at or
// before now. The boundary is inclusive.
func (r *scheduledTweetRepository) FindDuePending(ctx context.Context, now time.Time) ([]*models.ScheduledTweet, error) {
	query := `SELECT ` + scheduledTweetColumns + ` FROM scheduled_tweets WHERE status = $1 AND scheduled_time <= $2 ORDER BY scheduled_time ASC`

	rows, err := r.db.QueryContext(ctx, query, models.ScheduleStatusPending, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectScheduledTweets(rows)
}

func collectScheduledTweets(rows *sql.Rows) ([]*models.ScheduledTweet, error) {
	var tweets []*models.ScheduledTweet
	for rows.Next() {
		st, err := scanScheduledTweet(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		tweets = append(tweets, st)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return tweets, nil
}

// TryTransition moves a record from one status to another only if its stored
// status still equals from. It reports false when another writer got there first.
func (r *scheduledTweetRepository) TryTransition(ctx context.Context, id int64, from, to models.ScheduleStatus, fields models.TransitionFields) (bool, error) {
	if from.Terminal() || !to.Terminal() {
		return false, ErrInvalidTransition
	}

	query := `
		UPDATE scheduled_tweets
		SET status = $1,
			posted_tweet_id = NULLIF($2, ''),
			failure_reason = NULLIF($3, ''),
			updated_at = $4
		WHERE id = $5 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query, to, fields.PostedTweetID, fields.FailureReason, time.Now(), id, from)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affected == 1, nil
}

func (r *scheduledTweetRepository) CheckByUserID(ctx context.Context, id, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_tweets WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *scheduledTweetRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_tweets WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
