package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	// DefaultGoogleTTSURL serves the translate text-to-speech endpoint.
	DefaultGoogleTTSURL = "https://translate.google.com"

	// googleChunkRunes is the longest text the endpoint accepts per request.
	googleChunkRunes = 100
)

// GoogleProvider implements Provider using the Google translate TTS endpoint.
// Long text is split into chunks whose mp3 responses are concatenated.
type GoogleProvider struct {
	httpClient *resty.Client
	cache      *fileCache
}

// NewGoogleProvider creates a new Google translate TTS provider
func NewGoogleProvider(config *Config) (Provider, error) {
	baseURL := config.GoogleURL
	if baseURL == "" {
		baseURL = DefaultGoogleTTSURL
	}

	cache, err := newFileCache(config.CacheDir, config.EnableCache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	client.SetHeader("Referer", "https://translate.google.com/")

	return &GoogleProvider{
		httpClient: client,
		cache:      cache,
	}, nil
}

// GenerateAudio generates mp3 audio for Tamil text
func (p *GoogleProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateTamilText(text); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(outputFile))
	switch ext {
	case ".mp3":
	case "":
		outputFile += ".mp3"
	default:
		return fmt.Errorf("google TTS only produces mp3, got %s", ext)
	}

	if p.cache.restore(outputFile, ".mp3", "google", text) {
		log.Debug().Str("file", outputFile).Msg("Google TTS cache hit")
		return nil
	}

	chunks := splitText(strings.TrimSpace(text), googleChunkRunes)
	log.Debug().Int("chunks", len(chunks)).Msg("Google TTS request")

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := p.fetchChunk(ctx, chunk, i, len(chunks))
		if err != nil {
			return err
		}
		audio.Write(data)
	}

	if audio.Len() == 0 {
		return fmt.Errorf("no audio data received from Google")
	}

	if err := ensureDir(outputFile); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, audio.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	p.cache.store(outputFile, ".mp3", "google", text)
	return nil
}

func (p *GoogleProvider) fetchChunk(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	response, err := p.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":      "UTF-8",
			"client":  "tw-ob",
			"tl":      "ta",
			"q":       chunk,
			"total":   strconv.Itoa(total),
			"idx":     strconv.Itoa(idx),
			"textlen": strconv.Itoa(utf8.RuneCountInString(chunk)),
		}).
		Get("/translate_tts")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("google TTS response error %d", response.StatusCode())
	}
	return response.Bytes(), nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable needs no credentials
func (p *GoogleProvider) IsAvailable() error {
	return nil
}

// Close releases the underlying HTTP client
func (p *GoogleProvider) Close() error {
	return p.httpClient.Close()
}

// splitText splits text on whitespace into chunks of at most max runes.
// Words longer than max are split on rune boundaries.
func splitText(text string, max int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > max {
			flush()
			chunks = append(chunks, string(runes[:max]))
			runes = runes[max:]
		}

		needed := len(runes)
		if len(current) > 0 {
			needed++
		}
		if len(current)+needed > max {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	flush()

	return chunks
}
