package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/medtamil/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "medtamil [text...]",
		Short: "English to Tamil medical translator",
		Long: `medtamil translates what a doctor says in English into Tamil for the patient.

Medical terms are looked up in a curated dictionary so they are never
paraphrased, the rest of the sentence goes through a machine translation
backend. The Tamil text is printed and spoken aloud.

Examples:
  medtamil                                 # Start an interactive session
  medtamil "Do you have a fever?"          # Translate a single sentence
  medtamil --batch instructions.txt        # Translate one instruction per line
  medtamil --audio-input question.m4a      # Transcribe and translate a recording
  medtamil --export-deck terms.apkg        # Study the dictionary terms in Anki`,
		Args:    cobra.ArbitraryArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultOutputDir is where synthesized audio goes unless configured otherwise.
func DefaultOutputDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "medtamil", "audio")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.medtamil.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", DefaultOutputDir(), "Output directory for audio files")
	cmd.Flags().StringVarP(&flags.DictionaryPath, "dictionary", "d", flags.DictionaryPath, "Medical dictionary CSV (columns: english, tamil)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate instructions from file (one per line)")
	cmd.Flags().StringVar(&flags.AudioInput, "audio-input", "", "Transcribe an English recording and translate it")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the output directory into the archive and exit")

	// Deck export flags
	cmd.Flags().StringVar(&flags.ExportDeck, "export-deck", "", "Export the dictionary as an Anki deck (.apkg, or .csv for a text import) and exit")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for --export-deck")
	cmd.Flags().BoolVar(&flags.DeckAudio, "deck-audio", false, "Add synthesized Tamil audio to the exported deck")

	// Translation flags
	cmd.Flags().StringVarP(&flags.Backend, "backend", "b", flags.Backend, "Translation backend: google, openai or gemini")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "Backend used when the primary one fails (empty disables)")

	// Output flags
	cmd.Flags().BoolVar(&flags.Romanize, "romanize", flags.Romanize, "Print a Latin transliteration below the Tamil text")
	cmd.Flags().BoolVar(&flags.PronunciationGuide, "pronunciation-guide", false, "Save an OpenAI pronunciation guide next to the audio file")

	// Audio flags
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: google, openai or espeak")
	cmd.Flags().StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (wav or mp3)")
	cmd.Flags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip audio generation")
	cmd.Flags().BoolVar(&flags.NoAutoPlay, "no-auto-play", false, "Disable automatic audio playback (auto-play is enabled by default)")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("dictionary.path", cmd.Flags().Lookup("dictionary"))
	viper.BindPFlag("translation.backend", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("translation.fallback", cmd.Flags().Lookup("fallback"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("audio.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", cmd.Flags().Lookup("openai-instruction"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".medtamil" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".medtamil")
	}

	// Environment variables
	viper.SetEnvPrefix("MEDTAMIL")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.api_key")
}
