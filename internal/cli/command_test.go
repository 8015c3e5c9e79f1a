package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)

	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "medtamil [text...]" {
		t.Errorf("Expected Use to be 'medtamil [text...]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Tamil medical translator") {
		t.Errorf("Expected Short description to contain 'Tamil medical translator'")
	}

	if err := cmd.Args(cmd, []string{"do", "you", "have", "a", "fever"}); err != nil {
		t.Errorf("Expected multiple words to be accepted, got %v", err)
	}

	persistent := map[string]bool{"config": true, "log-level": true, "log-format": true}
	flagNames := []string{
		"config", "log-level", "log-format",
		"output", "dictionary", "batch", "audio-input", "list-models", "archive",
		"export-deck", "deck-name", "deck-audio",
		"backend", "fallback", "romanize", "pronunciation-guide",
		"audio-provider", "format", "skip-audio", "no-auto-play",
		"openai-model", "openai-voice", "openai-speed", "openai-instruction",
	}

	for _, name := range flagNames {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if persistent[name] {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	outputFlag := cmd.Flags().Lookup("output")
	if outputFlag == nil {
		t.Fatal("output flag not found")
	}

	home, _ := os.UserHomeDir()
	expectedDefault := filepath.Join(home, ".local", "state", "medtamil", "audio")
	if outputFlag.DefValue != expectedDefault {
		t.Errorf("Expected default output dir to be %s, got %s", expectedDefault, outputFlag.DefValue)
	}

	defaults := map[string]string{
		"format":         "mp3",
		"backend":        "google",
		"audio-provider": "google",
		"dictionary":     "data/medical_translations.csv",
		"romanize":       "true",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %s, got %s", name, want, flag.DefValue)
		}
	}

	if cmd.Flags().ShorthandLookup("b") == nil {
		t.Error("Expected -b shorthand for --backend")
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `translation:
  backend: gemini
  retries: 4
openai:
  api_key: test-key
output:
  directory: /test/output`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T) {
				if got := viper.GetString("translation.backend"); got != "gemini" {
					t.Errorf("translation.backend = %s, want gemini", got)
				}
				if got := viper.GetInt("translation.retries"); got != 4 {
					t.Errorf("translation.retries = %d, want 4", got)
				}
				if got := viper.GetString("output.directory"); got != "/test/output" {
					t.Errorf("output.directory = %s, want /test/output", got)
				}
				// Unset keys keep their defaults
				if got := viper.GetInt("translation.cache_size"); got != 500 {
					t.Errorf("translation.cache_size = %d, want 500", got)
				}
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			check: func(t *testing.T) {
				if got := viper.GetString("log.level"); got != "warn" {
					t.Errorf("log.level = %s, want warn", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			InitConfig(tt.setupFunc(t))

			// Test environment variable prefix
			t.Setenv("MEDTAMIL_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			tt.check(t)
		})
	}
}

func TestInitConfig_NestedEnvironmentKeys(t *testing.T) {
	resetViper(t)

	t.Setenv("MEDTAMIL_TRANSLATION_BACKEND", "openai")
	InitConfig("")

	if got := viper.GetString("translation.backend"); got != "openai" {
		t.Errorf("translation.backend = %s, want openai", got)
	}
}

func TestGetOpenAIKey(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{
			name:      "from environment",
			envKey:    "env-test-key",
			configKey: "config-test-key",
			expected:  "env-test-key",
		},
		{
			name:      "from config when no env",
			configKey: "config-test-key",
			expected:  "config-test-key",
		},
		{
			name:     "empty when neither set",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("openai.api_key", tt.configKey)
			}

			got := GetOpenAIKey()
			if got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetGeminiKey(t *testing.T) {
	resetViper(t)

	t.Setenv("GEMINI_API_KEY", "")
	viper.Set("gemini.api_key", "config-key")
	if got := GetGeminiKey(); got != "config-key" {
		t.Errorf("GetGeminiKey() = %v, want config-key", got)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	if got := GetGeminiKey(); got != "env-key" {
		t.Errorf("GetGeminiKey() = %v, want env-key", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("output", "/test/output")
	cmd.Flags().Set("format", "wav")
	cmd.Flags().Set("openai-model", "tts-1-hd")
	cmd.Flags().Set("backend", "openai")
	cmd.Flags().Set("dictionary", "/tmp/terms.csv")

	expected := map[string]string{
		"output.directory":    "/test/output",
		"audio.format":        "wav",
		"audio.openai_model":  "tts-1-hd",
		"translation.backend": "openai",
		"dictionary.path":     "/tmp/terms.csv",
	}
	for key, want := range expected {
		if got := viper.GetString(key); got != want {
			t.Errorf("Expected %s to be %s, got %s", key, want, got)
		}
	}
}
