package translation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/medtamil/internal/testutil"
)

var medicalTerms = map[string]string{
	"high blood pressure": "உயர் இரத்த அழுத்தம்",
	"blood pressure":      "இரத்த அழுத்தம்",
	"fever":               "காய்ச்சல்",
	"headache":            "தலைவலி",
	"pressure":            "அழுத்தம்",
}

func newTestTranslator(t *testing.T, backend Backend) *HybridTranslator {
	t.Helper()

	cache, err := NewTranslationCache(DefaultCacheSize)
	require.NoError(t, err)
	return NewHybridTranslator(testutil.NewStaticDictionary(medicalTerms), backend, cache)
}

func TestHybridTranslator_NoMedicalTerms(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := newTestTranslator(t, backend)

	result := translator.Translate(context.Background(), "Drink WATER")
	require.NoError(t, result.Err)
	assert.Equal(t, "drink water", result.Masked)
	assert.Empty(t, result.Terms)
	assert.Equal(t, "TA[drink water]", result.Text)
	assert.Equal(t, []string{"drink water"}, backend.Calls)
}

func TestHybridTranslator_MasksMedicalTerms(t *testing.T) {
	backend := &testutil.MockBackend{
		Translations: map[string]string{
			"patient has @@TERM0@@": "நோயாளிக்கு @@TERM0@@ உள்ளது",
		},
	}
	translator := newTestTranslator(t, backend)

	result := translator.Translate(context.Background(), "Patient has Fever")
	require.NoError(t, result.Err)
	assert.Equal(t, "patient has @@TERM0@@", result.Masked)
	assert.Equal(t, "நோயாளிக்கு காய்ச்சல் உள்ளது", result.Text)
	assert.NotContains(t, backend.Calls[0], "fever")
}

func TestHybridTranslator_LongestTermFirst(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := newTestTranslator(t, backend)

	result := translator.Translate(context.Background(), "high blood pressure")
	require.NoError(t, result.Err)
	assert.Equal(t, "@@TERM0@@", result.Masked)
	assert.Equal(t, "TA[உயர் இரத்த அழுத்தம்]", result.Text)
	require.Len(t, result.Terms, 1)
	assert.Equal(t, "high blood pressure", result.Terms[0].English)
}

func TestHybridTranslator_WholeWordsOnly(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := newTestTranslator(t, backend)

	result := translator.Translate(context.Background(), "suppression levels")
	require.NoError(t, result.Err)
	assert.Equal(t, "suppression levels", result.Masked)
	assert.Empty(t, result.Terms)
}

func TestHybridTranslator_OnePlaceholderPerDistinctTerm(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := newTestTranslator(t, backend)

	result := translator.Translate(context.Background(), "fever and headache, fever again")
	require.NoError(t, result.Err)
	assert.Len(t, result.Terms, 2)
	assert.Equal(t, "@@TERM1@@ and @@TERM0@@, @@TERM1@@ again", result.Masked)
	assert.Equal(t, "TA[காய்ச்சல் and தலைவலி, காய்ச்சல் again]", result.Text)
}

func TestHybridTranslator_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		backend := &testutil.MockBackend{}
		translator := newTestTranslator(t, backend)

		result := translator.Translate(context.Background(), input)
		assert.Equal(t, "", result.Text)
		assert.NoError(t, result.Err)
		assert.Zero(t, backend.CallCount())
	}
}

func TestHybridTranslator_BackendFailure(t *testing.T) {
	backendErr := errors.New("connection refused")
	backend := &testutil.MockBackend{Err: backendErr}
	translator := newTestTranslator(t, backend)

	result := translator.Translate(context.Background(), "I have a fever")
	assert.Equal(t, FailureSentinel, result.Text)
	assert.True(t, result.Failed())
	assert.ErrorIs(t, result.Err, backendErr)
	assert.True(t, IsFailure(translator.TranslateText(context.Background(), "I have a fever")))
}

func TestHybridTranslator_FailuresAreNotCached(t *testing.T) {
	backend := &testutil.MockBackend{Err: errors.New("unavailable")}
	translator := newTestTranslator(t, backend)

	translator.Translate(context.Background(), "rest well")
	backend.Err = nil
	result := translator.Translate(context.Background(), "rest well")

	assert.Equal(t, "TA[rest well]", result.Text)
	assert.Equal(t, 2, backend.CallCount())
}

func TestHybridTranslator_CachesMaskedText(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := newTestTranslator(t, backend)

	first := translator.Translate(context.Background(), "I have a FEVER")
	second := translator.Translate(context.Background(), "i have a fever ")

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, backend.CallCount())
}

func TestHybridTranslator_WithoutCache(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := NewHybridTranslator(testutil.NewStaticDictionary(medicalTerms), backend, nil)

	translator.Translate(context.Background(), "rest well")
	translator.Translate(context.Background(), "rest well")
	assert.Equal(t, 2, backend.CallCount())
}

func TestHybridTranslator_AlteredAndDroppedTokens(t *testing.T) {
	tests := []struct {
		name           string
		transform      func(string) string
		want           string
		wantUnresolved int
	}{
		{
			name:      "lowercased and spaced tokens",
			transform: func(s string) string { return strings.ReplaceAll(strings.ToLower(s), "@@", "@@ ") },
			want:      "i have காய்ச்சல்",
		},
		{
			name:           "dropped token",
			transform:      func(string) string { return "எனக்கு உடம்பு சரியில்லை" },
			want:           "எனக்கு உடம்பு சரியில்லை",
			wantUnresolved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &testutil.MockBackend{Transform: tt.transform}
			translator := newTestTranslator(t, backend)

			result := translator.Translate(context.Background(), "I have fever")
			require.NoError(t, result.Err)
			assert.Len(t, result.Unresolved, tt.wantUnresolved)
			assert.Equal(t, tt.want, result.Text)
		})
	}
}

func TestHybridTranslator_EmptyDictionary(t *testing.T) {
	backend := &testutil.MockBackend{}
	translator := NewHybridTranslator(testutil.NewStaticDictionary(nil), backend, nil)

	result := translator.Translate(context.Background(), "Fever")
	require.NoError(t, result.Err)
	assert.Equal(t, "TA[fever]", result.Text)
}

type panickingBackend struct{}

func (panickingBackend) Translate(context.Context, string) (string, error) {
	panic("unexpected response shape")
}

func (panickingBackend) Name() string { return "panicking" }

func TestHybridTranslator_RecoversFromPanic(t *testing.T) {
	translator := newTestTranslator(t, panickingBackend{})

	result := translator.Translate(context.Background(), "fever")
	assert.Equal(t, FailureSentinel, result.Text)
	assert.Error(t, result.Err)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing key",
			err:  ErrMissingAPIKey,
			want: "Translation backend is not configured",
		},
		{
			name: "rate limited",
			err:  &StatusError{Backend: "google", Code: 429},
			want: "rate limit",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "API translation failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ErrorMessage(tt.err), tt.want)
		})
	}
}
