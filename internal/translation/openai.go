package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the chat model used when none is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// systemPrompt instructs LLM backends to translate and leave placeholder tokens alone.
const systemPrompt = `You are a medical interpreter helping a doctor talk to a Tamil-speaking patient.
Translate the user's English text into simple, polite spoken Tamil.
The text may contain placeholder tokens made of symbols, the word TERM and a number (for example @@TERM0@@).
Copy every placeholder token exactly as written, in the position where it belongs in the Tamil sentence.
Respond with only the Tamil translation, nothing else.`

// OpenAIBackend translates with an OpenAI chat model.
type OpenAIBackend struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIBackend creates a new OpenAI backend
func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	return NewOpenAIBackendWithConfig(openai.DefaultConfig(apiKey), apiKey, model)
}

// NewOpenAIBackendWithConfig creates a backend from an explicit client config.
func NewOpenAIBackendWithConfig(config openai.ClientConfig, apiKey, model string) *OpenAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIBackend{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Translate implements Backend.
func (b *OpenAIBackend) Translate(ctx context.Context, text string) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("OpenAI %w", ErrMissingAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.2,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapOpenAIError(b.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", ErrEmptyResponse
	}
	return translated, nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// wrapOpenAIError exposes the HTTP status of API errors so the retry policy can see it.
func wrapOpenAIError(backend string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Backend: backend, Code: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{Backend: backend, Code: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("OpenAI API error: %w", err)
}
