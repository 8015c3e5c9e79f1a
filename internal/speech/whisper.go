package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// ErrNoSpeech is returned when the recording contains no recognizable speech.
var ErrNoSpeech = errors.New("no speech recognized")

// Transcriber converts an audio file to English text
type Transcriber interface {
	Transcribe(ctx context.Context, audioFile string) (string, error)
}

// WhisperTranscriber transcribes audio with the OpenAI Whisper API
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

// NewWhisperTranscriber creates a transcriber using apiKey
func NewWhisperTranscriber(apiKey string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for speech input")
	}
	return NewWhisperTranscriberWithConfig(openai.DefaultConfig(apiKey)), nil
}

// NewWhisperTranscriberWithConfig creates a transcriber from an explicit client config
func NewWhisperTranscriberWithConfig(config openai.ClientConfig) *WhisperTranscriber {
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(config),
		model:  openai.Whisper1,
	}
}

// Transcribe returns the English transcript of audioFile
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	if _, err := os.Stat(audioFile); err != nil {
		return "", fmt.Errorf("audio input: %w", err)
	}

	log.Debug().Str("file", audioFile).Str("model", w.model).Msg("Transcribing speech")

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioFile,
		Language: "en",
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
