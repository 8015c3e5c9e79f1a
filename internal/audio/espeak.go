package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "ta", "ta+m1", "ta+f1")
	Speed     int    // Speech speed in words per minute (default: 140)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default configuration for the Tamil voice
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "ta",
		Speed:     140,
		Pitch:     50,
		Amplitude: 100,
	}
}

// normalize clamps the settings to the ranges espeak-ng accepts
func (c *ESpeakConfig) normalize() {
	if c.Voice == "" {
		c.Voice = "ta"
	}
	c.Speed = clamp(c.Speed, 80, 450)
	c.Pitch = clamp(c.Pitch, 0, 99)
	c.Amplitude = clamp(c.Amplitude, 0, 200)
	if c.WordGap < 0 {
		c.WordGap = 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	return newESpeak(config), nil
}

func newESpeak(config *ESpeakConfig) *ESpeak {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.normalize()
	return &ESpeak{config: &cfg}
}

// args builds the espeak-ng arguments for writing text to a WAV file
func (e *ESpeak) args(text, outputFile string) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", fmt.Sprintf("%d", e.config.Speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
	}
	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}
	return append(args, "-w", outputFile, text)
}

// GenerateWAV writes text to a WAV file
func (e *ESpeak) GenerateWAV(ctx context.Context, text string, outputFile string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if err := ensureDir(outputFile); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", e.args(text, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// GenerateMP3 writes text to an MP3 file through a temporary WAV file
func (e *ESpeak) GenerateMP3(ctx context.Context, text string, outputFile string) error {
	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"

	if err := e.GenerateWAV(ctx, text, tempWAV); err != nil {
		return err
	}

	if err := ConvertWAVToMP3(ctx, tempWAV, outputFile); err != nil {
		os.Remove(tempWAV)
		return err
	}

	return os.Remove(tempWAV)
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListVoices returns available Tamil voice variants
func ListVoices() []string {
	return []string{
		"ta",    // Default Tamil voice
		"ta+m1", // Tamil male voice 1
		"ta+m3", // Tamil male voice 3
		"ta+f1", // Tamil female voice 1
		"ta+f3", // Tamil female voice 3
	}
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
