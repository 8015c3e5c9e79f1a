package processor

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/medtamil/internal/audio"
	"codeberg.org/snonux/medtamil/internal/cli"
	"codeberg.org/snonux/medtamil/internal/dictionary"
	"codeberg.org/snonux/medtamil/internal/phonetic"
	"codeberg.org/snonux/medtamil/internal/speech"
	"codeberg.org/snonux/medtamil/internal/translation"
)

// NewProcessor builds a processor from the command-line flags and the
// viper configuration.
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	settings := cli.LoadSettings(flags)
	out := os.Stdout

	loader := dictionary.NewLoader(settings.DictionaryPath, settings.DictionaryTTL)
	loader.SetErrorReporter(func(err error) {
		fmt.Fprintf(out, "Error: %v\n", err)
	})

	backend, err := newBackend(ctx, settings.Backend, settings)
	if err != nil {
		return nil, err
	}
	if settings.Fallback != "" && settings.Fallback != settings.Backend {
		fallback, err := newBackend(ctx, settings.Fallback, settings)
		if err != nil {
			return nil, fmt.Errorf("fallback backend: %w", err)
		}
		backend = translation.NewFallbackBackend(backend, fallback)
	}

	cache, err := translation.NewTranslationCache(settings.CacheSize)
	if err != nil {
		return nil, err
	}

	deps := Dependencies{
		Translator: translation.NewHybridTranslator(loader, backend, cache),
		Dictionary: loader,
		Out:        out,
	}

	if !flags.SkipAudio {
		provider, err := newAudioProvider(settings.Audio)
		if err != nil {
			// Text output still works without speech
			log.Warn().Err(err).Str("provider", settings.Audio.Provider).Msg("Audio disabled")
			fmt.Fprintf(out, "Warning: audio disabled: %v\n", err)
		} else {
			deps.Audio = provider
			deps.Player = audio.NewPlayer()
		}
	}

	if settings.OpenAIKey != "" {
		transcriber, err := speech.NewWhisperTranscriber(settings.OpenAIKey)
		if err != nil {
			return nil, err
		}
		deps.Transcriber = transcriber
		deps.Guide = phonetic.NewFetcher(settings.OpenAIKey)
	}

	log.Debug().
		Str("backend", backend.Name()).
		Str("dictionary", settings.DictionaryPath).
		Str("output", settings.OutputDir).
		Msg("Processor configured")

	return New(deps, Options{
		OutputDir:          settings.OutputDir,
		AudioFormat:        settings.Audio.OutputFormat,
		SkipAudio:          flags.SkipAudio,
		AutoPlay:           settings.AutoPlay,
		Romanize:           flags.Romanize,
		PronunciationGuide: flags.PronunciationGuide,
		AudioTimeout:       audio.DefaultTimeout,
	}), nil
}

// newBackend creates the named translation backend wrapped with retries,
// rate limiting and a circuit breaker.
func newBackend(ctx context.Context, name string, settings cli.Settings) (translation.Backend, error) {
	var backend translation.Backend

	switch name {
	case "google", "":
		backend = translation.NewGoogleBackend(settings.GoogleURL)
	case "openai":
		if settings.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI %w: set OPENAI_API_KEY or openai.api_key", translation.ErrMissingAPIKey)
		}
		backend = translation.NewOpenAIBackend(settings.OpenAIKey, settings.OpenAIModel)
	case "gemini":
		gemini, err := translation.NewGeminiBackend(ctx, settings.GeminiKey, settings.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("%w: set GEMINI_API_KEY or gemini.api_key", err)
		}
		backend = gemini
	default:
		return nil, fmt.Errorf("unknown translation backend: %s", name)
	}

	return translation.NewResilientBackend(backend, settings.Resilience), nil
}

// newAudioProvider creates the configured speech provider and falls back
// to espeak-ng when it is installed.
func newAudioProvider(config *audio.Config) (audio.Provider, error) {
	primary, err := audio.NewProvider(config)
	if err != nil {
		return nil, err
	}

	if config.Provider == "espeak" || config.Provider == "espeak-ng" {
		return primary, nil
	}

	fallbackConfig := *config
	fallbackConfig.Provider = "espeak"
	fallback, err := audio.NewProvider(&fallbackConfig)
	if err != nil {
		log.Debug().Err(err).Msg("No espeak-ng fallback for speech synthesis")
		return primary, nil
	}
	return audio.NewProviderWithFallback(primary, fallback), nil
}
