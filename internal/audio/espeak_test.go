package audio

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListVoices(t *testing.T) {
	voices := ListVoices()

	if len(voices) == 0 {
		t.Fatal("ListVoices() returned empty slice")
	}
	if voices[0] != "ta" {
		t.Errorf("Expected default voice 'ta' first, got %s", voices[0])
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Voice != "ta" {
		t.Errorf("Expected default voice 'ta', got '%s'", config.Voice)
	}
	if config.Speed != 140 {
		t.Errorf("Expected default speed 140, got %d", config.Speed)
	}
}

func TestESpeakConfigNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input ESpeakConfig
		want  ESpeakConfig
	}{
		{
			name:  "defaults voice and clamps zero values",
			input: ESpeakConfig{},
			want:  ESpeakConfig{Voice: "ta", Speed: 80, Pitch: 0, Amplitude: 0},
		},
		{
			name:  "clamps above maximum",
			input: ESpeakConfig{Voice: "ta+f1", Speed: 500, Pitch: 120, Amplitude: 300, WordGap: -1},
			want:  ESpeakConfig{Voice: "ta+f1", Speed: 450, Pitch: 99, Amplitude: 200, WordGap: 0},
		},
		{
			name:  "keeps valid values",
			input: ESpeakConfig{Voice: "ta", Speed: 200, Pitch: 40, Amplitude: 100, WordGap: 2},
			want:  ESpeakConfig{Voice: "ta", Speed: 200, Pitch: 40, Amplitude: 100, WordGap: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input
			got.normalize()
			if got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestESpeakArgs(t *testing.T) {
	espeak := newESpeak(&ESpeakConfig{Voice: "ta", Speed: 150, Pitch: 50, Amplitude: 100, WordGap: 3})

	got := espeak.args("வணக்கம்", "out.wav")
	want := []string{"-v", "ta", "-s", "150", "-p", "50", "-a", "100", "-g", "3", "-w", "out.wav", "வணக்கம்"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args() = %v, want %v", got, want)
	}
}

func TestNewESpeakDoesNotShareConfig(t *testing.T) {
	config := DefaultConfig()
	espeak := newESpeak(config)
	config.Voice = "changed"

	if espeak.config.Voice != "ta" {
		t.Errorf("ESpeak config changed with caller's config: %s", espeak.config.Voice)
	}
}

func TestGenerateWAV_Integration(t *testing.T) {
	if checkESpeakInstalled() != nil {
		t.Skip("espeak-ng not installed, skipping integration test")
	}

	espeak, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create ESpeak: %v", err)
	}

	if err := espeak.GenerateWAV(context.Background(), "", "test.wav"); err == nil {
		t.Error("GenerateWAV() with empty text should return error")
	}

	outputFile := filepath.Join(t.TempDir(), "test.wav")
	if err := espeak.GenerateWAV(context.Background(), "வணக்கம்", outputFile); err != nil {
		t.Fatalf("GenerateWAV() failed: %v", err)
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		t.Fatalf("Output file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Output file is empty")
	}
}
