package dictionary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

const (
	englishColumn = "english"
	tamilColumn   = "tamil"
	utf8BOM       = "\ufeff"
)

var (
	// ErrResourceMissing is returned when the dictionary file does not exist.
	ErrResourceMissing = errors.New("dictionary resource not found")
	// ErrMissingColumns is returned when the header lacks the english or tamil column.
	ErrMissingColumns = errors.New("dictionary header must contain 'english' and 'tamil' columns")
)

// LoadStats summarizes one load.
type LoadStats struct {
	Rows       int // data rows seen, header excluded
	Entries    int
	Skipped    int
	Duplicates int
}

// LoadFile parses the CSV file at path.
func LoadFile(path string) (*Dictionary, LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrResourceMissing, path)
		}
		return nil, LoadStats{}, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Load parses a CSV stream with a header row containing english and tamil
// columns. Rows with the wrong column count, parse errors or empty terms are
// skipped. Later rows win over earlier rows with the same English term.
func Load(r io.Reader) (*Dictionary, LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, stats, fmt.Errorf("failed to read dictionary header: %w", err)
	}

	englishIdx, tamilIdx := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, utf8BOM)))
		switch name {
		case englishColumn:
			englishIdx = i
		case tamilColumn:
			tamilIdx = i
		}
	}
	if englishIdx < 0 || tamilIdx < 0 {
		return nil, stats, ErrMissingColumns
	}

	entries := make(map[string]string)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, stats, fmt.Errorf("failed to read dictionary: %w", err)
			}
			stats.Rows++
			stats.Skipped++
			log.Debug().Err(err).Int("line", parseErr.Line).Msg("Skipping malformed dictionary row")
			continue
		}
		stats.Rows++

		english := strings.ToLower(strings.TrimSpace(record[englishIdx]))
		tamil := norm.NFC.String(strings.TrimSpace(record[tamilIdx]))
		if english == "" || tamil == "" {
			stats.Skipped++
			continue
		}

		if previous, ok := entries[english]; ok {
			stats.Duplicates++
			log.Warn().
				Str("term", english).
				Str("previous", previous).
				Str("replacement", tamil).
				Msg("Duplicate dictionary term, later row wins")
		}
		entries[english] = tamil
	}

	stats.Entries = len(entries)
	return New(entries), stats, nil
}
