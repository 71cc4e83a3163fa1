package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

const (
	twitterAPIBaseURL    = "https://api.twitter.com"
	twitterUploadBaseURL = "https://upload.twitter.com"
)

// TwitterAPIError is a non-2xx answer from the platform.
type TwitterAPIError struct {
	StatusCode int
	Message    string
}

func (e *TwitterAPIError) Error() string {
	return fmt.Sprintf("twitter api error (status code: %d): %s", e.StatusCode, e.Message)
}

// AuthRejected reports whether the platform refused the credentials.
func (e *TwitterAPIError) AuthRejected() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *TwitterAPIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// TwitterService is the Post Sink. Every call builds its own OAuth 1.0a client
// from the credentials it is given; nothing is shared between calls.
type TwitterService interface {
	UploadMedia(ctx context.Context, media *Media, creds Credentials) (string, error)
	Publish(ctx context.Context, content string, mediaIDs []string, creds Credentials) (string, error)
	Delete(ctx context.Context, tweetID string, creds Credentials) error
}

type twitterService struct {
	timeout   time.Duration
	apiURL    string
	uploadURL string
}

func NewTwitterService(timeout time.Duration) TwitterService {
	return &twitterService{
		timeout:   timeout,
		apiURL:    twitterAPIBaseURL,
		uploadURL: twitterUploadBaseURL,
	}
}

func (s *twitterService) client(ctx context.Context, creds Credentials) *http.Client {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	base := &http.Client{Timeout: s.timeout}
	return config.Client(context.WithValue(ctx, oauth1.HTTPClient, base), token)
}

func (s *twitterService) UploadMedia(ctx context.Context, media *Media, creds Credentials) (string, error) {
	if !creds.Complete() {
		return "", ErrMissingCredentials
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", "upload."+media.Extension)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(media.Data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL+"/1.1/media/upload.json", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result transfer.TwitterMediaResponse
	if err := s.do(ctx, creds, req, &result); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.MediaIDString == "" {
		return "", fmt.Errorf("failed to upload image: empty media id")
	}

	return result.MediaIDString, nil
}

func (s *twitterService) Publish(ctx context.Context, content string, mediaIDs []string, creds Credentials) (string, error) {
	if !creds.Complete() {
		return "", ErrMissingCredentials
	}

	payload := map[string]any{"text": content}
	if len(mediaIDs) > 0 {
		payload["media"] = map[string]any{"media_ids": mediaIDs}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/2/tweets", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var result transfer.TwitterTweetResponse
	if err := s.do(ctx, creds, req, &result); err != nil {
		return "", fmt.Errorf("failed to post tweet: %w", err)
	}
	if result.Data.ID == "" {
		return "", fmt.Errorf("failed to post tweet: empty tweet id")
	}

	return result.Data.ID, nil
}

func (s *twitterService) Delete(ctx context.Context, tweetID string, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.apiURL+"/2/tweets/"+tweetID, nil)
	if err != nil {
		return err
	}

	if err := s.do(ctx, creds, req, nil); err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	return nil
}

func (s *twitterService) do(ctx context.Context, creds Credentials, req *http.Request, out any) error {
	resp, err := s.client(ctx, creds).Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TwitterAPIError{StatusCode: resp.StatusCode, Message: twitterErrorMessage(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode twitter response: %w", err)
	}
	return nil
}

func twitterErrorMessage(body []byte) string {
	var apiErr transfer.TwitterErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if len(apiErr.Errors) > 0 {
			msgs := make([]string, 0, len(apiErr.Errors))
			for _, e := range apiErr.Errors {
				msgs = append(msgs, e.Message)
			}
			return strings.Join(msgs, "; ")
		}
		if apiErr.Title != "" {
			return apiErr.Title
		}
	}
	return strings.TrimSpace(string(body))
}
