package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

type TweetService interface {
	PostNow(ctx context.Context, userID int64, req transfer.PostTweetRequest, image []byte) (*models.Tweet, error)
	History(ctx context.Context, userID int64) ([]*models.Tweet, error)
	DeleteHistory(ctx context.Context, userID, id int64, creds transfer.TwitterCredentials) error
}

type tweetService struct {
	tr      repository.TweetRepository
	twitter TwitterService
	media   MediaService
}

func NewTweetService(tr repository.TweetRepository, twitter TwitterService, media MediaService) TweetService {
	return &tweetService{tr: tr, twitter: twitter, media: media}
}

// PostNow publishes immediately. An attached file wins over imageUrl; if the
// image cannot be prepared nothing is posted.
func (s *tweetService) PostNow(ctx context.Context, userID int64, req transfer.PostTweetRequest, image []byte) (*models.Tweet, error) {
	creds := CredentialsFromTransfer(req.TwitterCredentials)
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}
	if err := ValidateContent(req.Content); err != nil {
		return nil, err
	}

	var media *Media
	var err error
	switch {
	case len(image) > 0:
		media, err = s.media.Sniff(image)
	case strings.TrimSpace(req.ImageURL) != "":
		media, err = s.media.Fetch(ctx, strings.TrimSpace(req.ImageURL))
	}
	if err != nil {
		return nil, err
	}

	var mediaIDs []string
	if media != nil {
		mediaID, err := s.twitter.UploadMedia(ctx, media, creds)
		if err != nil {
			return nil, err
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	tweetID, err := s.twitter.Publish(ctx, req.Content, mediaIDs, creds)
	if err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = "Unknown"
	}
	tweet := &models.Tweet{
		UserID:    userID,
		UserName:  userName,
		Content:   req.Content,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		TwitterID: tweetID,
	}

	id, err := s.tr.Create(ctx, tweet)
	if err != nil {
		// already live on the platform; report it anyway
		slog.Error("error saving tweet history", "twitter_id", tweetID, "error", err)
		return tweet, nil
	}
	tweet.ID = id

	return tweet, nil
}

func (s *tweetService) History(ctx context.Context, userID int64) ([]*models.Tweet, error) {
	return s.tr.GetByUserID(ctx, userID)
}

// DeleteHistory removes the row. When credentials are supplied and the row was
// published, the platform copy is deleted first; failures there are only logged.
func (s *tweetService) DeleteHistory(ctx context.Context, userID, id int64, tc transfer.TwitterCredentials) error {
	tweet, err := s.tr.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tweet == nil || tweet.UserID != userID {
		return ErrNotFound
	}

	creds := CredentialsFromTransfer(tc)
	if tweet.TwitterID != "" && creds.Complete() {
		if err := s.twitter.Delete(ctx, tweet.TwitterID, creds); err != nil {
			slog.Info("error deleting from twitter", "twitter_id", tweet.TwitterID, "error", err)
		}
	}

	if err := s.tr.Remove(ctx, id); err != nil {
		return fmt.Errorf("error deleting tweet: %w", err)
	}
	return nil
}
