package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTwitter struct {
	uploads   int
	published []string
	deleted   []string
	uploadErr error
	publishID string
	deleteErr error
}

func (r *recordingTwitter) UploadMedia(_ context.Context, _ *Media, _ Credentials) (string, error) {
	r.uploads++
	if r.uploadErr != nil {
		return "", r.uploadErr
	}
	return "media-1", nil
}

func (r *recordingTwitter) Publish(_ context.Context, content string, _ []string, _ Credentials) (string, error) {
	r.published = append(r.published, content)
	return r.publishID, nil
}

func (r *recordingTwitter) Delete(_ context.Context, tweetID string, _ Credentials) error {
	r.deleted = append(r.deleted, tweetID)
	return r.deleteErr
}

func TestPostNowRecordsHistory(t *testing.T) {
	tr := newFakeTweetRepo()
	tw := &recordingTwitter{publishID: "123"}
	s := NewTweetService(tr, tw, NewMediaService(time.Second))

	tweet, err := s.PostNow(context.Background(), 7, transfer.PostTweetRequest{
		TwitterCredentials: testCreds,
		Content:            "hello",
	}, pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "123", tweet.TwitterID)
	assert.Equal(t, "Unknown", tweet.UserName)
	assert.Equal(t, 1, tw.uploads)

	history, err := s.History(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Content)
}

func TestPostNowImageFailureDoesNotPublish(t *testing.T) {
	tw := &recordingTwitter{publishID: "123", uploadErr: errors.New("upload rejected")}
	s := NewTweetService(newFakeTweetRepo(), tw, NewMediaService(time.Second))

	_, err := s.PostNow(context.Background(), 7, transfer.PostTweetRequest{
		TwitterCredentials: testCreds,
		Content:            "hello",
	}, pngHeader)
	assert.Error(t, err)
	assert.Empty(t, tw.published)

	_, err = s.PostNow(context.Background(), 7, transfer.PostTweetRequest{
		TwitterCredentials: testCreds,
		Content:            "hello",
	}, []byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Empty(t, tw.published)
}

func TestDeleteHistory(t *testing.T) {
	tr := newFakeTweetRepo()
	tw := &recordingTwitter{publishID: "555", deleteErr: errors.New("already gone")}
	s := NewTweetService(tr, tw, NewMediaService(time.Second))

	tweet, err := s.PostNow(context.Background(), 7, transfer.PostTweetRequest{TwitterCredentials: testCreds, Content: "bye"}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteHistory(context.Background(), 8, tweet.ID, testCreds), ErrNotFound)

	require.NoError(t, s.DeleteHistory(context.Background(), 7, tweet.ID, testCreds))
	assert.Equal(t, []string{"555"}, tw.deleted)

	history, err := s.History(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, history)
}
