package translation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"resty.dev/v3"
)

const (
	// DefaultGoogleURL is the public web translation endpoint.
	DefaultGoogleURL = "https://translate.googleapis.com"

	// googleMaxChars is the request limit of the web endpoint.
	googleMaxChars = 5000
)

// GoogleBackend translates through the Google web translation endpoint.
type GoogleBackend struct {
	httpClient *resty.Client
}

// NewGoogleBackend creates a backend for baseURL, DefaultGoogleURL when empty.
func NewGoogleBackend(baseURL string) *GoogleBackend {
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Accept", "application/json")

	return &GoogleBackend{httpClient: client}
}

// Close releases the underlying HTTP client.
func (b *GoogleBackend) Close() error {
	return b.httpClient.Close()
}

// Translate implements Backend.
func (b *GoogleBackend) Translate(ctx context.Context, text string) (string, error) {
	if n := utf8.RuneCountInString(text); n > googleMaxChars {
		return "", fmt.Errorf("%w: %d characters, limit %d", ErrTextTooLong, n, googleMaxChars)
	}

	response, err := b.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     SourceLanguage,
			"tl":     TargetLanguage,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return "", &StatusError{Backend: b.Name(), Code: response.StatusCode(), Message: response.String()}
	}

	return parseGoogleResponse(response.String())
}

// parseGoogleResponse joins the translated segments of a response shaped
// like [[["translated","source",...],...],...].
func parseGoogleResponse(body string) (string, error) {
	if !gjson.Valid(body) {
		return "", fmt.Errorf("invalid response body: %q", truncate(body, 200))
	}

	var sb strings.Builder
	for _, segment := range gjson.Get(body, "0.#.0").Array() {
		sb.WriteString(segment.String())
	}

	translated := strings.TrimSpace(sb.String())
	if translated == "" {
		return "", ErrEmptyResponse
	}
	return translated, nil
}

// Name returns the backend name
func (b *GoogleBackend) Name() string {
	return "google"
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
