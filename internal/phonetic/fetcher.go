package phonetic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Fetcher fetches pronunciation guides for Tamil sentences
type Fetcher struct {
	apiKey string
	client *openai.Client
}

// NewFetcher creates a new pronunciation guide fetcher
func NewFetcher(apiKey string) *Fetcher {
	return NewFetcherWithConfig(openai.DefaultConfig(apiKey), apiKey)
}

// NewFetcherWithConfig creates a fetcher from an explicit client config
func NewFetcherWithConfig(config openai.ClientConfig, apiKey string) *Fetcher {
	return &Fetcher{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Fetch returns a pronunciation guide for a Tamil sentence
func (f *Fetcher) Fetch(ctx context.Context, tamil string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a Tamil language expert helping English-speaking doctors read Tamil sentences aloud to patients. Explain pronunciation using simple English sound comparisons rather than linguistic jargon.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(`For the Tamil sentence '%s':
1. Write it in easy English-letter spelling, syllables separated by hyphens
2. Give the IPA transcription
3. Point out sounds an English speaker usually gets wrong (retroflex ட ண ள ழ, ற vs ர, long vowels)

Example format:
Spelling: vah-nahk-kahm
IPA: [ʋaɳakkam]
• ண - tongue curled back, like 'n' said with the tongue tip on the roof of the mouth`, tamil),
			},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// FetchAndSave fetches a pronunciation guide and writes it to outputFile
func (f *Fetcher) FetchAndSave(ctx context.Context, tamil, outputFile string) error {
	guide, err := f.Fetch(ctx, tamil)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(outputFile, []byte(guide+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write pronunciation file: %w", err)
	}

	return nil
}
