package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

const MaxMediaSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]struct{}{
	"png": {}, "jpg": {}, "gif": {}, "webp": {},
}

// Media is an image ready to be uploaded to the platform.
type Media struct {
	Data      []byte
	MIME      string
	Extension string
}

type MediaService interface {
	Fetch(ctx context.Context, url string) (*Media, error)
	Sniff(data []byte) (*Media, error)
}

type mediaService struct {
	client *http.Client
}

func NewMediaService(timeout time.Duration) MediaService {
	return &mediaService{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the image behind rawURL and checks that it is a supported
// image. Only absolute http and https URLs are fetched.
func (s *mediaService) Fetch(ctx context.Context, rawURL string) (*Media, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidMediaURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid media url: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image from URL: status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxMediaSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading image body: %w", err)
	}

	return s.Sniff(data)
}

func (s *mediaService) Sniff(data []byte) (*Media, error) {
	if len(data) > MaxMediaSize {
		return nil, ErrMediaTooLarge
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return nil, ErrUnsupportedMedia
	}
	if _, ok := allowedImageTypes[kind.Extension]; !ok {
		return nil, fmt.Errorf("file type %s is not allowed: %w", kind.Extension, ErrUnsupportedMedia)
	}

	return &Media{Data: data, MIME: kind.MIME.Value, Extension: kind.Extension}, nil
}
