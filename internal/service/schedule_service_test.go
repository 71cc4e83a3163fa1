package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduleService(repo *fakeScheduledRepo, now time.Time) (*scheduleService, *fakeImageStore) {
	images := &fakeImageStore{}
	s := NewScheduleService(repo, NewCredentialCipher(testKey), NewMediaService(time.Second), images).(*scheduleService)
	s.now = func() time.Time { return now }
	return s, images
}

func TestScheduleEncryptsCredentials(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeScheduledRepo()
	s, _ := newTestScheduleService(repo, now)

	st, err := s.Schedule(context.Background(), 7, transfer.ScheduleTweetRequest{
		TwitterCredentials: testCreds,
		UserName:           "alice",
		Content:            "hello",
		ScheduledTime:      "2026-03-01T12:00:00+01:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusPending, st.Status)
	assert.Equal(t, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), st.ScheduledTime)

	stored, err := repo.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "api-key", stored.TwitterAPIKey)

	creds, err := NewCredentialCipher(testKey).Open(stored)
	require.NoError(t, err)
	assert.Equal(t, CredentialsFromTransfer(testCreds), creds)
}

func TestScheduleValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s, _ := newTestScheduleService(newFakeScheduledRepo(), now)
	ctx := context.Background()

	cases := []struct {
		name string
		req  transfer.ScheduleTweetRequest
		want error
	}{
		{"missing credentials", transfer.ScheduleTweetRequest{Content: "x", ScheduledTime: "2026-03-02T00:00:00Z"}, ErrMissingCredentials},
		{"empty content", transfer.ScheduleTweetRequest{TwitterCredentials: testCreds, Content: "  ", ScheduledTime: "2026-03-02T00:00:00Z"}, ErrContentEmpty},
		{"too long", transfer.ScheduleTweetRequest{TwitterCredentials: testCreds, Content: strings.Repeat("a", 281), ScheduledTime: "2026-03-02T00:00:00Z"}, ErrContentTooLong},
		{"bad time", transfer.ScheduleTweetRequest{TwitterCredentials: testCreds, Content: "x", ScheduledTime: "tomorrow"}, ErrInvalidSchedule},
		{"now is not future", transfer.ScheduleTweetRequest{TwitterCredentials: testCreds, Content: "x", ScheduledTime: "2026-03-01T10:00:00Z"}, ErrScheduleInPast},
		{"past", transfer.ScheduleTweetRequest{TwitterCredentials: testCreds, Content: "x", ScheduledTime: "2026-02-28T10:00:00Z"}, ErrScheduleInPast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Schedule(ctx, 7, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestScheduleCountsCharactersNotBytes(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s, _ := newTestScheduleService(newFakeScheduledRepo(), now)

	_, err := s.Schedule(context.Background(), 7, transfer.ScheduleTweetRequest{
		TwitterCredentials: testCreds,
		Content:            strings.Repeat("é", 280),
		ScheduledTime:      "2026-03-02T00:00:00Z",
	})
	assert.NoError(t, err)
}

func TestScheduleBulkPartialFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeScheduledRepo()
	s, _ := newTestScheduleService(repo, now)

	results, err := s.ScheduleBulk(context.Background(), 7, transfer.BulkScheduleRequest{
		TwitterCredentials: testCreds,
		UserName:           "alice",
		Tweets: []transfer.BulkScheduleItem{
			{Content: "one", ScheduledTime: "2026-03-02T00:00:00Z"},
			{Content: "two", ScheduledTime: "2020-01-01T00:00:00Z"},
			{Content: "three", ScheduledTime: "2026-03-03T00:00:00Z"},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.NotNil(t, results[0].ScheduledTime)
	assert.False(t, results[1].Success)
	assert.Equal(t, ErrScheduleInPast.Error(), results[1].Message)
	assert.True(t, results[2].Success)

	list, err := s.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestGetAndRemoveCheckOwnership(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeScheduledRepo()
	s, _ := newTestScheduleService(repo, now)

	st, err := s.Schedule(context.Background(), 7, transfer.ScheduleTweetRequest{
		TwitterCredentials: testCreds, Content: "mine", ScheduledTime: "2026-03-02T00:00:00Z",
	})
	require.NoError(t, err)

	_, err = s.Get(context.Background(), 8, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Remove(context.Background(), 8, st.ID), ErrNotFound)

	got, err := s.Get(context.Background(), 7, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Content)

	require.NoError(t, s.Remove(context.Background(), 7, st.ID))
	_, err = s.Get(context.Background(), 7, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	s, images := newTestScheduleService(newFakeScheduledRepo(), time.Now())

	url, err := s.UploadImage(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/abc.png", url)
	require.Len(t, images.stored, 1)

	_, err = s.UploadImage(context.Background(), []byte("text"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}
