package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/tweetgenie/internal/models"
)

type TweetRepository interface {
	Create(ctx context.Context, t *models.Tweet) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Tweet, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Tweet, error)
	Remove(ctx context.Context, id int64) error
}

type tweetRepository struct {
	db *sql.DB
}

func NewTweetRepository(db *sql.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, t *models.Tweet) (int64, error) {
	query := `
		INSERT INTO tweets (user_id, user_name, content, image_url, twitter_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.UserName, t.Content, t.ImageURL, t.TwitterID).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id int64) (*models.Tweet, error) {
	query := `SELECT id, user_id, user_name, content, COALESCE(image_url, ''), COALESCE(twitter_id, ''), created_at FROM tweets WHERE id = $1`

	var t models.Tweet
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.UserID, &t.UserName, &t.Content, &t.ImageURL, &t.TwitterID, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &t, nil
}

// GetByUserID lists a user's history newest first.
func (r *tweetRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Tweet, error) {
	query := `SELECT id, user_id, user_name, content, COALESCE(image_url, ''), COALESCE(twitter_id, ''), created_at FROM tweets WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var tweets []*models.Tweet
	for rows.Next() {
		var t models.Tweet
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserName, &t.Content, &t.ImageURL, &t.TwitterID, &t.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		tweets = append(tweets, &t)
	}
	return tweets, rows.Err()
}

func (r *tweetRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM tweets WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
