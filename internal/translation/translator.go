package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/medtamil/internal/dictionary"
)

// FailureSentinel is returned instead of a translation when the backend fails.
// It reads "translation failed" in Tamil.
const FailureSentinel = "மொழிபெயர்ப்பு தோல்வி"

// DictionarySource provides the current medical dictionary.
type DictionarySource interface {
	Dictionary() *dictionary.Dictionary
}

// Result describes one translation.
type Result struct {
	Input      string
	Text       string // final Tamil text, or FailureSentinel
	Masked     string // text sent to the backend
	Terms      []Placeholder
	Unresolved []string // tokens missing from the backend output
	Cached     bool
	Err        error
}

// Failed reports whether the backend call failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// HybridTranslator combines dictionary lookup for medical terms with a
// machine translation backend for the surrounding text.
type HybridTranslator struct {
	dict    DictionarySource
	backend Backend
	cache   *TranslationCache
}

// NewHybridTranslator creates a translator. cache may be nil to disable caching.
func NewHybridTranslator(dict DictionarySource, backend Backend, cache *TranslationCache) *HybridTranslator {
	return &HybridTranslator{
		dict:    dict,
		backend: backend,
		cache:   cache,
	}
}

// TranslateText translates English text to Tamil. It never fails: on
// backend errors it logs the error and returns FailureSentinel. Callers that
// need to show the error use Translate and read Result.Err.
func (t *HybridTranslator) TranslateText(ctx context.Context, text string) string {
	return t.Translate(ctx, text).Text
}

// Translate translates English text to Tamil and returns the details of the call.
func (t *HybridTranslator) Translate(ctx context.Context, text string) (result Result) {
	result.Input = text

	defer func() {
		if r := recover(); r != nil {
			result.Text = FailureSentinel
			result.Err = fmt.Errorf("translation panicked: %v", r)
			t.fail(result.Err)
		}
	}()

	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return result
	}

	masking, err := Mask(normalized, t.dict.Dictionary().Terms())
	if err != nil {
		// Sending unmasked text only loses the dictionary terms, not the translation.
		log.Warn().Err(err).Msg("Skipping medical term masking")
	}
	result.Masked = masking.Text
	result.Terms = masking.Placeholders

	translated, cached, err := t.translateCached(ctx, masking.Text)
	if err != nil {
		result.Text = FailureSentinel
		result.Err = err
		t.fail(err)
		return result
	}
	result.Cached = cached

	final, unresolved := masking.Unmask(translated)
	if len(unresolved) > 0 {
		log.Warn().
			Strs("tokens", unresolved).
			Str("backend", t.backend.Name()).
			Msg("Placeholder tokens did not survive translation")
	}
	result.Unresolved = unresolved
	result.Text = strings.TrimSpace(final)

	log.Debug().
		Str("masked", masking.Text).
		Int("terms", len(masking.Placeholders)).
		Bool("cached", cached).
		Msg("Translated text")

	return result
}

func (t *HybridTranslator) translateCached(ctx context.Context, text string) (string, bool, error) {
	if t.cache != nil {
		if translated, ok := t.cache.Get(text); ok {
			return translated, true, nil
		}
	}

	translated, err := t.backend.Translate(ctx, text)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", t.backend.Name(), err)
	}

	if t.cache != nil {
		t.cache.Add(text, translated)
	}
	return translated, false, nil
}

func (t *HybridTranslator) fail(err error) {
	log.Error().Err(err).Str("backend", t.backend.Name()).Msg("Translation failed")
}

// IsFailure reports whether text is the failure sentinel.
func IsFailure(text string) bool {
	return text == FailureSentinel
}

// ErrorMessage formats a backend failure for display.
func ErrorMessage(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return fmt.Sprintf("Translation backend is not configured: %v", err)
	case errors.As(err, &statusErr) && statusErr.Code == 429:
		return "Translation service rate limit reached, please try again shortly"
	default:
		return fmt.Sprintf("API translation failed: %v", err)
	}
}
