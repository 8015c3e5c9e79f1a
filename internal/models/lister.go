package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithConfig(openai.DefaultConfig(apiKey), apiKey)
}

// NewListerWithConfig creates a lister from an explicit client config
func NewListerWithConfig(config openai.ClientConfig, apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Catalog groups model IDs by what they can be used for
type Catalog struct {
	Translation   []string
	Speech        []string
	Transcription []string
}

// Categorize sorts model IDs into a Catalog. Unrelated models are dropped.
func Categorize(ids []string) Catalog {
	var c Catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "whisper") || strings.Contains(id, "transcribe"):
			c.Transcription = append(c.Transcription, id)
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			c.Speech = append(c.Speech, id)
		case strings.HasPrefix(id, "gpt-") || strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4"):
			c.Translation = append(c.Translation, id)
		}
	}

	sort.Strings(c.Translation)
	sort.Strings(c.Speech)
	sort.Strings(c.Transcription)
	return c
}

// Fetch returns the categorized models available to the API key
func (l *Lister) Fetch(ctx context.Context) (Catalog, error) {
	if l.apiKey == "" {
		return Catalog{}, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .medtamil.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	return Categorize(ids), nil
}

// ListAvailableModels writes the available models to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	printSection(w, "Translation Models (translation.openai_model)", catalog.Translation)
	printSection(w, "Text-to-Speech Models (audio.openai_model)", catalog.Speech)
	printSection(w, "Transcription Models (--audio-input)", catalog.Transcription)
	return nil
}

func printSection(w io.Writer, title string, ids []string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(w, "  None found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", id)
	}
}
