// Package anki exports the medical dictionary as an Anki study deck so
// staff can practise the Tamil terms they read out to patients.
package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/snonux/medtamil/internal/dictionary"
	"codeberg.org/snonux/medtamil/internal/phonetic"
)

// DefaultDeckName is used when no deck name is given
const DefaultDeckName = "Medical Tamil"

// Card represents a single Anki flashcard
type Card struct {
	English   string
	Tamil     string
	Romanized string
	AudioFile string // optional path to a spoken version of Tamil
}

// CardsFromDictionary creates one card per dictionary entry, sorted by the English term
func CardsFromDictionary(dict *dictionary.Dictionary) []Card {
	entries := dict.Entries()
	cards := make([]Card, 0, len(entries))
	for english, tamil := range entries {
		cards = append(cards, Card{
			English:   english,
			Tamil:     tamil,
			Romanized: phonetic.Romanize(tamil),
		})
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].English < cards[j].English
	})
	return cards
}

// Export writes cards to path. A .csv extension produces a plain Anki
// import file, anything else an .apkg package.
func Export(path, deckName string, cards []Card) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return WriteCSV(path, cards)
	}

	if deckName == "" {
		deckName = DefaultDeckName
	}
	gen := NewAPKGGenerator(deckName)
	for _, card := range cards {
		gen.AddCard(card)
	}
	return gen.GenerateAPKG(path)
}

// WriteCSV creates a CSV file for Anki's text import
func WriteCSV(path string, cards []Card) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"English", "Tamil", "Romanized", "Audio"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, card := range cards {
		audio := ""
		if card.AudioFile != "" {
			audio = fmt.Sprintf("[sound:%s]", filepath.Base(card.AudioFile))
		}
		if err := writer.Write([]string{card.English, card.Tamil, card.Romanized, audio}); err != nil {
			return fmt.Errorf("failed to write card %q: %w", card.English, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
