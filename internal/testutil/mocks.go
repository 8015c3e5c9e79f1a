package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/snonux/medtamil/internal/dictionary"
)

// MockBackend mocks a translation backend
type MockBackend struct {
	BackendName  string
	Translations map[string]string
	Errors       map[string]error
	Err          error               // returned for every call when set
	Transform    func(string) string // used when no canned translation matches

	mu    sync.Mutex
	Calls []string
}

// Translate mocks translating text
func (m *MockBackend) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	if m.Transform != nil {
		return m.Transform(text), nil
	}

	// Default mock translation keeps placeholder tokens intact
	return fmt.Sprintf("TA[%s]", text), nil
}

// Name returns the mock backend name
func (m *MockBackend) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

// CallCount returns the number of Translate calls
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// StaticDictionary serves a fixed dictionary
type StaticDictionary struct {
	Dict *dictionary.Dictionary
}

// NewStaticDictionary builds a StaticDictionary from English to Tamil entries
func NewStaticDictionary(entries map[string]string) *StaticDictionary {
	return &StaticDictionary{Dict: dictionary.New(entries)}
}

// Dictionary returns the fixed dictionary
func (s *StaticDictionary) Dictionary() *dictionary.Dictionary {
	return s.Dict
}

// MockAudioProvider mocks a text-to-speech provider
type MockAudioProvider struct {
	ProviderName string
	GenerateErr  error
	AvailableErr error
	Data         []byte

	mu    sync.Mutex
	Texts []string
	Files []string
}

// GenerateAudio records the call and writes Data to outputFile
func (m *MockAudioProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Texts = append(m.Texts, text)
	m.Files = append(m.Files, outputFile)
	m.mu.Unlock()

	if m.GenerateErr != nil {
		return m.GenerateErr
	}

	data := m.Data
	if data == nil {
		data = (&TestDataGenerator{}).GenerateAudioData()
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the mock provider name
func (m *MockAudioProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns AvailableErr
func (m *MockAudioProvider) IsAvailable() error {
	return m.AvailableErr
}

// MockPlayer mocks audio playback
type MockPlayer struct {
	Err   error
	Files []string
}

// Play records the played file
func (m *MockPlayer) Play(ctx context.Context, file string) error {
	m.Files = append(m.Files, file)
	return m.Err
}

// MockTranscriber mocks speech-to-text
type MockTranscriber struct {
	Transcripts map[string]string
	Err         error
	Calls       []string
}

// Transcribe returns the canned transcript for audioFile
func (m *MockTranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	m.Calls = append(m.Calls, audioFile)
	if m.Err != nil {
		return "", m.Err
	}
	transcript, ok := m.Transcripts[audioFile]
	if !ok {
		return "", fmt.Errorf("no transcript for %s", audioFile)
	}
	return transcript, nil
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateAudioData generates mock audio data
func (g *TestDataGenerator) GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// SampleDictionaryCSV is a small dictionary used across tests.
const SampleDictionaryCSV = `english,tamil
high blood pressure,உயர் இரத்த அழுத்தம்
blood pressure,இரத்த அழுத்தம்
fever,காய்ச்சல்
"tablet, twice a day","மாத்திரை, ஒரு நாளைக்கு இரண்டு முறை"
headache,தலைவலி
`
