package cli

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/medtamil/internal/audio"
	"codeberg.org/snonux/medtamil/internal/dictionary"
	"codeberg.org/snonux/medtamil/internal/translation"
)

// MEDTAMIL_TRANSLATION_BACKEND maps to translation.backend
var envKeyReplacer = strings.NewReplacer(".", "_")

// Settings is the resolved configuration of a run.
type Settings struct {
	DictionaryPath string
	DictionaryTTL  time.Duration

	Backend     string
	Fallback    string
	CacheSize   int
	Resilience  translation.ResilienceConfig
	OpenAIModel string
	GeminiModel string
	GoogleURL   string

	Audio     *audio.Config
	AutoPlay  bool
	OutputDir string

	OpenAIKey string
	GeminiKey string
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults() {
	resilience := translation.DefaultResilienceConfig()
	audioDefaults := audio.DefaultProviderConfig()

	viper.SetDefault("dictionary.path", "data/medical_translations.csv")
	viper.SetDefault("dictionary.ttl", dictionary.DefaultTTL)

	viper.SetDefault("translation.backend", "google")
	viper.SetDefault("translation.fallback", "")
	viper.SetDefault("translation.cache_size", translation.DefaultCacheSize)
	viper.SetDefault("translation.timeout", resilience.Timeout)
	viper.SetDefault("translation.retries", resilience.Retries)
	viper.SetDefault("translation.rate_limit", resilience.RateLimit)
	viper.SetDefault("translation.rate_burst", resilience.RateBurst)
	viper.SetDefault("translation.breaker_failures", resilience.BreakerFailures)
	viper.SetDefault("translation.breaker_cooldown", resilience.BreakerCooldown)
	viper.SetDefault("translation.openai_model", translation.DefaultOpenAIModel)
	viper.SetDefault("translation.gemini_model", translation.DefaultGeminiModel)
	viper.SetDefault("translation.google_url", translation.DefaultGoogleURL)

	viper.SetDefault("audio.provider", audioDefaults.Provider)
	viper.SetDefault("audio.format", audioDefaults.OutputFormat)
	viper.SetDefault("audio.openai_model", audioDefaults.OpenAIModel)
	viper.SetDefault("audio.openai_voice", audioDefaults.OpenAIVoice)
	viper.SetDefault("audio.openai_speed", audioDefaults.OpenAISpeed)
	viper.SetDefault("audio.openai_instruction", audioDefaults.OpenAIInstruction)
	viper.SetDefault("audio.enable_cache", true)
	viper.SetDefault("audio.cache_dir", "./.audio_cache")
	viper.SetDefault("audio.auto_play", true)

	viper.SetDefault("output.directory", DefaultOutputDir())
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "console")
}

// LoadSettings resolves the settings from viper. Flags that only exist on
// the command line are taken from flags.
func LoadSettings(flags *Flags) Settings {
	resilience := translation.DefaultResilienceConfig()
	resilience.Timeout = viper.GetDuration("translation.timeout")
	resilience.Retries = viper.GetUint("translation.retries")
	resilience.RateLimit = viper.GetFloat64("translation.rate_limit")
	resilience.RateBurst = viper.GetInt("translation.rate_burst")
	resilience.BreakerFailures = viper.GetUint32("translation.breaker_failures")
	resilience.BreakerCooldown = viper.GetDuration("translation.breaker_cooldown")

	outputDir := viper.GetString("output.directory")

	audioConfig := audio.DefaultProviderConfig()
	audioConfig.Provider = viper.GetString("audio.provider")
	audioConfig.OutputDir = outputDir
	audioConfig.OutputFormat = viper.GetString("audio.format")
	audioConfig.EnableCache = viper.GetBool("audio.enable_cache")
	audioConfig.CacheDir = viper.GetString("audio.cache_dir")
	audioConfig.OpenAIKey = GetOpenAIKey()
	audioConfig.OpenAIModel = viper.GetString("audio.openai_model")
	audioConfig.OpenAIVoice = viper.GetString("audio.openai_voice")
	audioConfig.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	if instruction := viper.GetString("audio.openai_instruction"); instruction != "" {
		audioConfig.OpenAIInstruction = instruction
	}

	return Settings{
		DictionaryPath: viper.GetString("dictionary.path"),
		DictionaryTTL:  viper.GetDuration("dictionary.ttl"),
		Backend:        viper.GetString("translation.backend"),
		Fallback:       viper.GetString("translation.fallback"),
		CacheSize:      viper.GetInt("translation.cache_size"),
		Resilience:     resilience,
		OpenAIModel:    viper.GetString("translation.openai_model"),
		GeminiModel:    viper.GetString("translation.gemini_model"),
		GoogleURL:      viper.GetString("translation.google_url"),
		Audio:          audioConfig,
		AutoPlay:       viper.GetBool("audio.auto_play") && !flags.NoAutoPlay,
		OutputDir:      outputDir,
		OpenAIKey:      GetOpenAIKey(),
		GeminiKey:      GetGeminiKey(),
	}
}
