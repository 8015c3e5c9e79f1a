package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newSpeechServer(t *testing.T, calls *int, got *map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-mp3"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewOpenAIProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "missing API key",
			config: &Config{
				OpenAIKey: "",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "valid config with cache",
			config: &Config{
				OpenAIKey:   "test-key",
				EnableCache: true,
				CacheDir:    filepath.Join(t.TempDir(), "cache"),
			},
		},
		{
			name: "valid config without cache",
			config: &Config{
				OpenAIKey: "test-key",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewOpenAIProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOpenAIProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Error() != tt.errMsg {
					t.Errorf("NewOpenAIProvider() error = %v, want %v", err.Error(), tt.errMsg)
				}
				return
			}
			if provider.Name() != "openai" {
				t.Errorf("Name() = %v, want %v", provider.Name(), "openai")
			}
			if tt.config.EnableCache {
				if _, err := os.Stat(tt.config.CacheDir); err != nil {
					t.Errorf("cache directory not created: %v", err)
				}
			}
		})
	}
}

func TestOpenAIProviderIsAvailable(t *testing.T) {
	provider := &OpenAIProvider{config: &Config{OpenAIKey: "test-key"}}
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	provider.config.OpenAIKey = ""
	if err := provider.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error without key")
	}
}

func TestOpenAIProvider_GenerateAudio(t *testing.T) {
	var calls int
	var request map[string]any
	server := newSpeechServer(t, &calls, &request)

	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = server.URL + "/v1"
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	outputFile := filepath.Join(t.TempDir(), "out", "reply.mp3")
	if err := provider.GenerateAudio(context.Background(), "  காய்ச்சல்   உள்ளதா? ", outputFile); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "ID3-fake-mp3" {
		t.Errorf("unexpected audio data %q", data)
	}
	if request["input"] != "காய்ச்சல் உள்ளதா?" {
		t.Errorf("input = %v, want normalized Tamil text", request["input"])
	}
	if request["response_format"] != "mp3" {
		t.Errorf("response_format = %v, want mp3", request["response_format"])
	}
	if instructions, _ := request["instructions"].(string); !strings.Contains(instructions, "Tamil") {
		t.Errorf("instructions = %q, want Tamil voice instruction", instructions)
	}
}

func TestOpenAIProvider_Cache(t *testing.T) {
	var calls int
	server := newSpeechServer(t, &calls, nil)

	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = server.URL + "/v1"
	config.EnableCache = true
	config.CacheDir = filepath.Join(t.TempDir(), "cache")
	p, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	provider := p.(*OpenAIProvider)

	dir := t.TempDir()
	for _, name := range []string{"first.mp3", "second.mp3"} {
		if err := provider.GenerateAudio(context.Background(), "தலைவலி", filepath.Join(dir, name)); err != nil {
			t.Fatalf("GenerateAudio() error = %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 API call, got %d", calls)
	}
	if _, err := os.Stat(filepath.Join(dir, "second.mp3")); err != nil {
		t.Errorf("cached audio not copied: %v", err)
	}

	count, _, err := provider.GetCacheStats()
	if err != nil || count != 1 {
		t.Errorf("GetCacheStats() = %d, %v; want 1 file", count, err)
	}

	if err := provider.ClearCache(); err != nil {
		t.Errorf("ClearCache() error = %v", err)
	}
	if _, err := os.Stat(config.CacheDir); !os.IsNotExist(err) {
		t.Error("Cache directory should be removed")
	}
}

func TestCacheKey(t *testing.T) {
	provider := &OpenAIProvider{
		config: &Config{
			OpenAIModel: "tts-1",
			OpenAIVoice: "alloy",
			OpenAISpeed: 1.0,
		},
		cache: &fileCache{dir: "test_cache", enabled: true},
	}

	path := func(text string) string {
		return provider.cache.path(".mp3", provider.cacheKey(text)...)
	}

	path1 := path("காய்ச்சல்")
	if !strings.HasPrefix(path1, "test_cache"+string(filepath.Separator)) {
		t.Errorf("Cache path should start with cache dir, got %s", path1)
	}
	if !strings.HasSuffix(path1, ".mp3") {
		t.Errorf("Cache path should end with .mp3, got %s", path1)
	}
	if path1 != path("காய்ச்சல்") {
		t.Error("Same input should produce same cache path")
	}
	if path1 == path("தலைவலி") {
		t.Error("Different input should produce different cache path")
	}

	provider.config.OpenAIVoice = "nova"
	if path1 == path("காய்ச்சல்") {
		t.Error("Different voice should produce different cache path")
	}

	provider.config.OpenAIModel = "gpt-4o-mini-tts"
	provider.config.OpenAIInstruction = "Test instruction"
	path5 := path("காய்ச்சல்")
	provider.config.OpenAIInstruction = "Different instruction"
	if path5 == path("காய்ச்சல்") {
		t.Error("Different instruction should produce different cache path for gpt-4o-mini-tts")
	}
}

func TestGenerateAudioValidation(t *testing.T) {
	provider := &OpenAIProvider{
		config: &Config{
			OpenAIKey: "test-key",
		},
	}

	ctx := context.Background()

	err := provider.GenerateAudio(ctx, "hello", "output.mp3")
	if err == nil || !strings.Contains(err.Error(), "must contain Tamil characters") {
		t.Errorf("Expected Tamil validation error, got: %v", err)
	}

	if err := provider.GenerateAudio(ctx, "", "output.mp3"); err == nil {
		t.Error("Expected error for empty text")
	}
}
