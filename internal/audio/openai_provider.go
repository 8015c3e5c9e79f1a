package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
	cache  *fileCache
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	cache, err := newFileCache(config.CacheDir, config.EnableCache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		cache:  cache,
	}, nil
}

// GenerateAudio generates audio using OpenAI TTS
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateTamilText(text); err != nil {
		return err
	}

	// Determine response format based on output file extension
	var format openai.SpeechResponseFormat
	ext := strings.ToLower(filepath.Ext(outputFile))
	switch ext {
	case ".mp3":
		format = openai.SpeechResponseFormatMp3
	case ".wav":
		format = openai.SpeechResponseFormatWav
	case ".opus":
		format = openai.SpeechResponseFormatOpus
	case ".aac":
		format = openai.SpeechResponseFormatAac
	case ".flac":
		format = openai.SpeechResponseFormatFlac
	default:
		format = openai.SpeechResponseFormatMp3
		outputFile += ".mp3"
		ext = ".mp3"
	}

	cacheKey := p.cacheKey(text)
	if p.cache.restore(outputFile, ext, cacheKey...) {
		log.Debug().Str("file", outputFile).Msg("OpenAI TTS cache hit")
		return nil
	}

	processedText := normalizeSpeechText(text)

	log.Debug().
		Str("model", p.config.OpenAIModel).
		Str("voice", p.config.OpenAIVoice).
		Float64("speed", p.config.OpenAISpeed).
		Str("input", processedText).
		Msg("OpenAI TTS request")

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          processedText,
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: format,
	}

	if p.supportsInstructions() {
		req.Instructions = p.config.OpenAIInstruction
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") && p.supportsInstructions() {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try audio.openai_model tts-1-hd instead", err, p.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	if err := ensureDir(outputFile); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	p.cache.store(outputFile, ext, cacheKey...)
	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks that an API key is configured. It does not call the
// API, which would use credits.
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// ClearCache removes all cached audio files
func (p *OpenAIProvider) ClearCache() error {
	return p.cache.clear()
}

// GetCacheStats returns cache statistics
func (p *OpenAIProvider) GetCacheStats() (fileCount int, totalSize int64, err error) {
	return p.cache.stats()
}

func (p *OpenAIProvider) supportsInstructions() bool {
	return p.config.OpenAIInstruction != "" &&
		(p.config.OpenAIModel == "gpt-4o-mini-tts" || p.config.OpenAIModel == "gpt-4o-mini-audio-preview")
}

func (p *OpenAIProvider) cacheKey(text string) []string {
	key := []string{"openai", text, p.config.OpenAIModel, p.config.OpenAIVoice, fmt.Sprintf("%.2f", p.config.OpenAISpeed)}
	if p.supportsInstructions() {
		key = append(key, p.config.OpenAIInstruction)
	}
	return key
}

// normalizeSpeechText collapses whitespace. Sentence punctuation is kept
// because it gives the voice its pauses.
func normalizeSpeechText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
