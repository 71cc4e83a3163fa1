package transfer

// ProviderKeys carries optional per-request provider API keys.
type ProviderKeys struct {
	PerplexityAPIKey string `json:"perplexityApiKey"`
	GeminiAPIKey     string `json:"geminiApiKey"`
	OpenAIAPIKey     string `json:"openaiApiKey"`
}

type GenerateTweetRequest struct {
	ProviderKeys
	AIPrompt string `json:"aiPrompt"`
}

type GenerateBulkRequest struct {
	ProviderKeys
	Prompts []string `json:"prompts"`
}

type GenerateImageRequest struct {
	ProviderKeys
	Prompt string `json:"prompt"`
}

type GeneratedTweet struct {
	Prompt   string `json:"prompt"`
	Content  string `json:"content,omitempty"`
	Provider string `json:"provider,omitempty"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is shared by Perplexity and OpenAI, which speak the same dialect.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

type ImageGenerationRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type ImageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}
