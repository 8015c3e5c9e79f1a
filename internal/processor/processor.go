package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/medtamil/internal"
	"codeberg.org/snonux/medtamil/internal/audio"
	"codeberg.org/snonux/medtamil/internal/batch"
	"codeberg.org/snonux/medtamil/internal/dictionary"
	"codeberg.org/snonux/medtamil/internal/phonetic"
	"codeberg.org/snonux/medtamil/internal/speech"
	"codeberg.org/snonux/medtamil/internal/translation"
)

// EmptyInputMessage is shown when there is nothing to translate.
const EmptyInputMessage = "Please type or speak something first."

// ErrEmptyInput is returned when the input is blank.
var ErrEmptyInput = errors.New("empty input")

// Translator turns English text into Tamil. Failures are carried in
// Result.Err with Result.Text set to translation.FailureSentinel.
type Translator interface {
	Translate(ctx context.Context, text string) translation.Result
}

// DictionaryCache serves the medical dictionary and can be told to reload it.
type DictionaryCache interface {
	Dictionary() *dictionary.Dictionary
	Invalidate()
}

// GuideFetcher writes a pronunciation guide for a Tamil sentence.
type GuideFetcher interface {
	FetchAndSave(ctx context.Context, tamil, outputFile string) error
}

// Options controls what happens with a translation.
type Options struct {
	OutputDir          string
	AudioFormat        string
	SkipAudio          bool
	AutoPlay           bool
	Romanize           bool
	PronunciationGuide bool
	AudioTimeout       time.Duration
}

// Dependencies are the components a Processor works with. Only
// Translator is required.
type Dependencies struct {
	Translator  Translator
	Dictionary  DictionaryCache
	Audio       audio.Provider
	Player      audio.Player
	Transcriber speech.Transcriber
	Guide       GuideFetcher
	Out         io.Writer
}

// Outcome describes what happened to one input.
type Outcome struct {
	Translation translation.Result
	AudioFile   string
	AudioErr    error
	GuideFile   string
}

// Processor handles the main translation logic
type Processor struct {
	deps  Dependencies
	opts  Options
	out   io.Writer
	newID func(text string) string
}

// New creates a processor from explicit dependencies.
func New(deps Dependencies, opts Options) *Processor {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = "mp3"
	}
	if opts.AudioTimeout <= 0 {
		opts.AudioTimeout = audio.DefaultTimeout
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Processor{
		deps:  deps,
		opts:  opts,
		out:   out,
		newID: internal.GenerateAudioID,
	}
}

// ProcessText translates one English input, prints the result and
// speaks it. Only ErrEmptyInput is returned as an error; translation,
// synthesis and playback failures are reported and recorded in the Outcome.
func (p *Processor) ProcessText(ctx context.Context, text string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		fmt.Fprintf(p.out, "Warning: %s\n", EmptyInputMessage)
		return Outcome{}, ErrEmptyInput
	}

	result := p.deps.Translator.Translate(ctx, text)
	outcome := Outcome{Translation: result}
	p.printTranslation(result)

	base := filepath.Join(p.opts.OutputDir, p.newID(result.Text))

	if !p.opts.SkipAudio && p.deps.Audio != nil && result.Text != "" {
		file, err := p.synthesize(ctx, result.Text, base+"."+p.opts.AudioFormat)
		if err != nil {
			outcome.AudioErr = err
			fmt.Fprintf(p.out, "Could not generate Tamil speech: %v\n", err)
		} else {
			outcome.AudioFile = file
			fmt.Fprintf(p.out, "Audio:     %s\n", file)
			p.play(ctx, file)
		}
	}

	if p.opts.PronunciationGuide && p.deps.Guide != nil && !result.Failed() && result.Text != "" {
		guideFile := base + "_pronunciation.txt"
		if err := p.deps.Guide.FetchAndSave(ctx, result.Text, guideFile); err != nil {
			fmt.Fprintf(p.out, "Could not fetch pronunciation guide: %v\n", err)
		} else {
			outcome.GuideFile = guideFile
			fmt.Fprintf(p.out, "Guide:     %s\n", guideFile)
		}
	}

	return outcome, nil
}

func (p *Processor) printTranslation(result translation.Result) {
	fmt.Fprintf(p.out, "English:   %s\n", strings.TrimSpace(result.Input))
	fmt.Fprintf(p.out, "Tamil:     %s\n", result.Text)

	if result.Failed() {
		fmt.Fprintf(p.out, "Error:     %s\n", translation.ErrorMessage(result.Err))
		return
	}
	if p.opts.Romanize && result.Text != "" {
		fmt.Fprintf(p.out, "Romanized: %s\n", phonetic.Romanize(result.Text))
	}
}

func (p *Processor) synthesize(ctx context.Context, tamil, outputFile string) (string, error) {
	return p.synthesizeTo(ctx, p.opts.OutputDir, tamil, outputFile)
}

func (p *Processor) synthesizeTo(ctx context.Context, dir, tamil, outputFile string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.AudioTimeout)
	defer cancel()

	if err := p.deps.Audio.GenerateAudio(ctx, tamil, outputFile); err != nil {
		log.Warn().Err(err).Str("provider", p.deps.Audio.Name()).Msg("Speech synthesis failed")
		return "", err
	}
	return outputFile, nil
}

func (p *Processor) play(ctx context.Context, file string) {
	if !p.opts.AutoPlay || p.deps.Player == nil {
		return
	}
	if err := p.deps.Player.Play(ctx, file); err != nil {
		log.Debug().Err(err).Str("file", file).Msg("Playback failed")
		fmt.Fprintf(p.out, "Could not play audio: %v\n", err)
	}
}

// ProcessAudioFile transcribes an English recording and processes the transcript.
func (p *Processor) ProcessAudioFile(ctx context.Context, audioFile string) (Outcome, error) {
	if p.deps.Transcriber == nil {
		return Outcome{}, fmt.Errorf("speech input is not configured: set OPENAI_API_KEY")
	}

	transcript, err := p.deps.Transcriber.Transcribe(ctx, audioFile)
	if errors.Is(err, speech.ErrNoSpeech) {
		fmt.Fprintf(p.out, "Warning: %s\n", EmptyInputMessage)
		return Outcome{}, ErrEmptyInput
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to transcribe %s: %w", audioFile, err)
	}

	fmt.Fprintf(p.out, "Heard:     %s\n", transcript)
	return p.ProcessText(ctx, transcript)
}

// BatchSummary counts the results of a batch run
type BatchSummary struct {
	Total     int
	Processed int
	Empty     int // translations that came back blank
	Failed    int
}

// ProcessBatch translates every instruction in a batch file
func (p *Processor) ProcessBatch(ctx context.Context, filename string) (BatchSummary, error) {
	var summary BatchSummary

	instructions, err := batch.ReadBatchFile(filename)
	if err != nil {
		return summary, err
	}
	summary.Total = len(instructions)

	for i, instruction := range instructions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d (line %d)\n", i+1, len(instructions), instruction.Line)

		outcome, err := p.ProcessText(ctx, instruction.Text)
		switch {
		case errors.Is(err, ErrEmptyInput):
			summary.Empty++
		case outcome.Translation.Failed():
			summary.Failed++
		case outcome.Translation.Text == "":
			summary.Empty++
		default:
			summary.Processed++
		}
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total instructions: %d\n", summary.Total)
	fmt.Fprintf(p.out, "Processed: %d\n", summary.Processed)
	if summary.Empty > 0 {
		fmt.Fprintf(p.out, "Empty: %d\n", summary.Empty)
	}
	if summary.Failed > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", summary.Failed)
	}

	return summary, nil
}
