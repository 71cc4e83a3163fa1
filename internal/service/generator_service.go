package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cfg "github.com/maheshrc27/tweetgenie/configs"
	"github.com/maheshrc27/tweetgenie/internal/metrics"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"golang.org/x/oauth2"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const (
	ProviderPerplexity = "perplexity"
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"

	perplexityChatURL = "https://api.perplexity.ai/chat/completions"
	openAIChatURL     = "https://api.openai.com/v1/chat/completions"
	openAIImagesURL   = "https://api.openai.com/v1/images/generations"

	tweetSystemPrompt = "You are a social media expert creating engaging, concise, and shareable tweets. Keep each tweet under 280 characters, add personality, and encourage engagement."
)

// Provider turns a prompt into tweet text using one upstream service.
type Provider interface {
	Name() string
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

type ImageProvider interface {
	GenerateImage(ctx context.Context, apiKey, prompt string) (string, error)
}

type GeneratorService interface {
	GenerateTweet(ctx context.Context, userID int64, prompt string, keys transfer.ProviderKeys) (*transfer.GeneratedTweet, error)
	GenerateBulk(ctx context.Context, userID int64, prompts []string, keys transfer.ProviderKeys) ([]transfer.GeneratedTweet, error)
	GenerateImage(ctx context.Context, userID int64, prompt string, keys transfer.ProviderKeys) (string, error)
}

type generatorService struct {
	keys      KeysService
	env       transfer.ProviderKeys
	providers []Provider
	images    ImageProvider
}

// NewGeneratorService wires the providers in their fixed preference order:
// Perplexity, then Gemini, then OpenAI.
func NewGeneratorService(keys KeysService, providers cfg.Providers, timeout time.Duration) GeneratorService {
	return NewGeneratorServiceWithProviders(keys, providers, []Provider{
		newChatProvider(ProviderPerplexity, perplexityChatURL, "sonar-pro", "", timeout),
		newGeminiProvider("gemini-1.5-flash", timeout),
		newChatProvider(ProviderOpenAI, openAIChatURL, "gpt-3.5-turbo", tweetSystemPrompt, timeout),
	}, newOpenAIImageProvider(openAIImagesURL, timeout))
}

func NewGeneratorServiceWithProviders(keys KeysService, env cfg.Providers, providers []Provider, images ImageProvider) GeneratorService {
	return &generatorService{
		keys: keys,
		env: transfer.ProviderKeys{
			PerplexityAPIKey: env.PerplexityAPIKey,
			GeminiAPIKey:     env.GeminiAPIKey,
			OpenAIAPIKey:     env.OpenAIAPIKey,
		},
		providers: providers,
		images:    images,
	}
}

func (s *generatorService) GenerateTweet(ctx context.Context, userID int64, prompt string, keys transfer.ProviderKeys) (*transfer.GeneratedTweet, error) {
	resolved, err := s.resolveKeys(ctx, userID, keys)
	if err != nil {
		return nil, err
	}

	content, provider, err := s.generate(ctx, resolved, tweetPrompt(prompt))
	if err != nil {
		return nil, err
	}

	return &transfer.GeneratedTweet{Prompt: prompt, Content: content, Provider: provider, Success: true}, nil
}

func (s *generatorService) GenerateBulk(ctx context.Context, userID int64, prompts []string, keys transfer.ProviderKeys) ([]transfer.GeneratedTweet, error) {
	if len(prompts) == 0 {
		return nil, ErrEmptyPrompt
	}

	resolved, err := s.resolveKeys(ctx, userID, keys)
	if err != nil {
		return nil, err
	}

	results := make([]transfer.GeneratedTweet, 0, len(prompts))
	for _, prompt := range prompts {
		content, provider, err := s.generate(ctx, resolved, tweetPrompt(prompt))
		if err != nil {
			results = append(results, transfer.GeneratedTweet{Prompt: prompt, Success: false, Message: err.Error()})
			continue
		}
		results = append(results, transfer.GeneratedTweet{Prompt: prompt, Content: content, Provider: provider, Success: true})
	}

	return results, nil
}

func (s *generatorService) GenerateImage(ctx context.Context, userID int64, prompt string, keys transfer.ProviderKeys) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	resolved, err := s.resolveKeys(ctx, userID, keys)
	if err != nil {
		return "", err
	}
	if resolved.OpenAIAPIKey == "" || s.images == nil {
		return "", ErrNoProvider
	}

	enhanced := "Create a high-quality, visually engaging image for social media. " + strings.TrimSpace(prompt)
	url, err := s.images.GenerateImage(ctx, resolved.OpenAIAPIKey, enhanced)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	return url, nil
}

func (s *generatorService) generate(ctx context.Context, keys transfer.ProviderKeys, prompt string) (string, string, error) {
	for _, p := range s.providers {
		key := keyFor(p.Name(), keys)
		if key == "" {
			continue
		}

		text, err := p.Generate(ctx, key, prompt)
		if err != nil {
			metrics.ProviderRequests.WithLabelValues(p.Name(), "error").Inc()
			slog.Info("provider failed", "provider", p.Name(), "error", err)
			continue
		}

		text = cleanGenerated(text)
		if text == "" {
			metrics.ProviderRequests.WithLabelValues(p.Name(), "empty").Inc()
			slog.Info("provider returned empty text", "provider", p.Name())
			continue
		}
		metrics.ProviderRequests.WithLabelValues(p.Name(), "success").Inc()
		return text, p.Name(), nil
	}
	return "", "", ErrNoProvider
}

// resolveKeys picks, per provider, the request key, then the user's stored
// key, then the server key. Placeholders count as absent.
func (s *generatorService) resolveKeys(ctx context.Context, userID int64, req transfer.ProviderKeys) (transfer.ProviderKeys, error) {
	var stored transfer.ProviderKeys
	if s.keys != nil && userID != 0 {
		var err error
		stored, err = s.keys.Resolve(ctx, userID)
		if err != nil {
			return transfer.ProviderKeys{}, fmt.Errorf("error loading provider keys: %w", err)
		}
	}

	return transfer.ProviderKeys{
		PerplexityAPIKey: firstValidKey(req.PerplexityAPIKey, stored.PerplexityAPIKey, s.env.PerplexityAPIKey),
		GeminiAPIKey:     firstValidKey(req.GeminiAPIKey, stored.GeminiAPIKey, s.env.GeminiAPIKey),
		OpenAIAPIKey:     firstValidKey(req.OpenAIAPIKey, stored.OpenAIAPIKey, s.env.OpenAIAPIKey),
	}, nil
}

func keyFor(provider string, keys transfer.ProviderKeys) string {
	switch provider {
	case ProviderPerplexity:
		return keys.PerplexityAPIKey
	case ProviderGemini:
		return keys.GeminiAPIKey
	case ProviderOpenAI:
		return keys.OpenAIAPIKey
	}
	return ""
}

func tweetPrompt(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "Generate an engaging, creative tweet about any topic. Include relevant emojis if appropriate."
	}
	return fmt.Sprintf("Generate an engaging, creative tweet specifically about: %s. Include relevant emojis if appropriate.", topic)
}

// cleanGenerated drops the quotes models like to wrap tweets in.
func cleanGenerated(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	return strings.TrimSpace(strings.Trim(text, `"'`))
}

func bearerClient(ctx context.Context, apiKey string, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey}))
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.Unmarshal(body, out)
}

// chatProvider speaks the chat completions dialect shared by Perplexity and OpenAI.
type chatProvider struct {
	name    string
	url     string
	model   string
	system  string
	timeout time.Duration
}

func newChatProvider(name, url, model, system string, timeout time.Duration) *chatProvider {
	return &chatProvider{name: name, url: url, model: model, system: system, timeout: timeout}
}

func (p *chatProvider) Name() string { return p.name }

func (p *chatProvider) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := transfer.ChatCompletionRequest{Model: p.model}
	if p.system != "" {
		req.Messages = append(req.Messages, transfer.ChatMessage{Role: "system", Content: p.system})
		req.MaxTokens = 100
		req.Temperature = 0.8
	}
	req.Messages = append(req.Messages, transfer.ChatMessage{Role: "user", Content: prompt})

	var resp transfer.ChatCompletionResponse
	if err := postJSON(ctx, bearerClient(ctx, apiKey, p.timeout), p.url, req, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}

type geminiProvider struct {
	model   string
	timeout time.Duration
	opts    []option.ClientOption
}

func newGeminiProvider(model string, timeout time.Duration, opts ...option.ClientOption) *geminiProvider {
	return &geminiProvider{model: model, timeout: timeout, opts: opts}
}

func (p *geminiProvider) Name() string { return ProviderGemini }

func (p *geminiProvider) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, p.opts...)
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: tweetSystemPrompt + "\n\n" + prompt}},
		}},
	}

	resp, err := svc.Models.GenerateContent("models/"+p.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", errors.New("gemini: empty response")
}

type openAIImageProvider struct {
	url     string
	timeout time.Duration
}

func newOpenAIImageProvider(url string, timeout time.Duration) *openAIImageProvider {
	return &openAIImageProvider{url: url, timeout: timeout}
}

func (p *openAIImageProvider) GenerateImage(ctx context.Context, apiKey, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := transfer.ImageGenerationRequest{Prompt: prompt, N: 1, Size: "512x512", ResponseFormat: "url"}

	var resp transfer.ImageGenerationResponse
	if err := postJSON(ctx, bearerClient(ctx, apiKey, p.timeout), p.url, req, &resp); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("openai: no image returned")
	}
	return resp.Data[0].URL, nil
}
