package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

type ScheduleService interface {
	Schedule(ctx context.Context, userID int64, req transfer.ScheduleTweetRequest) (*models.ScheduledTweet, error)
	ScheduleBulk(ctx context.Context, userID int64, req transfer.BulkScheduleRequest) ([]transfer.BulkScheduleResult, error)
	List(ctx context.Context, userID int64) ([]*models.ScheduledTweet, error)
	Get(ctx context.Context, userID, id int64) (*models.ScheduledTweet, error)
	Remove(ctx context.Context, userID, id int64) error
	UploadImage(ctx context.Context, data []byte) (string, error)
}

type scheduleService struct {
	sr     repository.ScheduledTweetRepository
	cipher *CredentialCipher
	media  MediaService
	images ImageStore
	now    func() time.Time
}

func NewScheduleService(sr repository.ScheduledTweetRepository, cipher *CredentialCipher, media MediaService, images ImageStore) ScheduleService {
	return &scheduleService{
		sr:     sr,
		cipher: cipher,
		media:  media,
		images: images,
		now:    time.Now,
	}
}

func (s *scheduleService) Schedule(ctx context.Context, userID int64, req transfer.ScheduleTweetRequest) (*models.ScheduledTweet, error) {
	creds := CredentialsFromTransfer(req.TwitterCredentials)
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}

	return s.create(ctx, userID, req.UserName, creds, req.Content, req.ImageURL, req.ScheduledTime)
}

// ScheduleBulk schedules every item independently; one bad item does not
// stop the others.
func (s *scheduleService) ScheduleBulk(ctx context.Context, userID int64, req transfer.BulkScheduleRequest) ([]transfer.BulkScheduleResult, error) {
	creds := CredentialsFromTransfer(req.TwitterCredentials)
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}
	if len(req.Tweets) == 0 {
		return nil, ErrContentEmpty
	}

	results := make([]transfer.BulkScheduleResult, 0, len(req.Tweets))
	for i, item := range req.Tweets {
		st, err := s.create(ctx, userID, req.UserName, creds, item.Content, item.ImageURL, item.ScheduledTime)
		if err != nil {
			results = append(results, transfer.BulkScheduleResult{Index: i, Success: false, Message: err.Error()})
			continue
		}
		due := st.ScheduledTime
		results = append(results, transfer.BulkScheduleResult{Index: i, ID: st.ID, ScheduledTime: &due, Success: true})
	}

	return results, nil
}

func (s *scheduleService) create(ctx context.Context, userID int64, userName string, creds Credentials, content, imageURL, scheduledTime string) (*models.ScheduledTweet, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	due, err := parseScheduledTime(scheduledTime)
	if err != nil {
		return nil, err
	}
	if !due.After(s.now()) {
		return nil, ErrScheduleInPast
	}

	if userName = strings.TrimSpace(userName); userName == "" {
		userName = "Unknown"
	}

	st := &models.ScheduledTweet{
		UserID:        userID,
		UserName:      userName,
		Content:       content,
		ImageURL:      strings.TrimSpace(imageURL),
		ScheduledTime: due,
		Status:        models.ScheduleStatusPending,
	}
	if err := s.cipher.Seal(creds, st); err != nil {
		return nil, err
	}

	id, err := s.sr.Create(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("error saving scheduled tweet: %w", err)
	}
	st.ID = id

	return st, nil
}

func (s *scheduleService) List(ctx context.Context, userID int64) ([]*models.ScheduledTweet, error) {
	return s.sr.GetByUserID(ctx, userID)
}

func (s *scheduleService) Get(ctx context.Context, userID, id int64) (*models.ScheduledTweet, error) {
	st, err := s.sr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil || st.UserID != userID {
		return nil, ErrNotFound
	}
	return st, nil
}

func (s *scheduleService) Remove(ctx context.Context, userID, id int64) error {
	owned, err := s.sr.CheckByUserID(ctx, id, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}

	return s.sr.Remove(ctx, id)
}

// UploadImage stores an image for later use as a scheduled tweet's imageUrl.
func (s *scheduleService) UploadImage(ctx context.Context, data []byte) (string, error) {
	if s.images == nil {
		return "", ErrStorageDisabled
	}
	media, err := s.media.Sniff(data)
	if err != nil {
		return "", err
	}
	return s.images.Store(ctx, media)
}

func parseScheduledTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidSchedule
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ErrInvalidSchedule
	}
	return t.UTC(), nil
}
