package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile        string
	OutputDir      string
	DictionaryPath string
	BatchFile      string
	AudioInput     string
	ListModels     bool
	Archive        bool

	// Deck export flags
	ExportDeck string
	DeckName   string
	DeckAudio  bool

	// Translation flags
	Backend  string
	Fallback string

	// Output flags
	Romanize           bool
	PronunciationGuide bool

	// Audio flags
	AudioProvider string
	AudioFormat   string
	SkipAudio     bool
	NoAutoPlay    bool

	// OpenAI TTS flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Logging flags
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		DictionaryPath: "data/medical_translations.csv",
		DeckName:       "Medical Tamil",
		Backend:        "google",
		Romanize:       true,
		AudioProvider:  "google",
		AudioFormat:    "mp3",
		OpenAIModel:    "gpt-4o-mini-tts",
		OpenAIVoice:    "nova",
		OpenAISpeed:    0.9,
		LogLevel:       "warn",
		LogFormat:      "console",
	}
}
