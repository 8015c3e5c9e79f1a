package processor

import (
	"context"
	"fmt"
	"path/filepath"

	"codeberg.org/snonux/medtamil/internal"
	"codeberg.org/snonux/medtamil/internal/anki"
)

// ExportDeck writes the medical dictionary as an Anki deck to path. With
// withAudio every Tamil term is also synthesized and packaged; terms whose
// synthesis fails are exported without sound.
func (p *Processor) ExportDeck(ctx context.Context, path, deckName string, withAudio bool) (int, error) {
	if p.deps.Dictionary == nil {
		return 0, fmt.Errorf("no dictionary configured")
	}

	cards := anki.CardsFromDictionary(p.deps.Dictionary.Dictionary())
	if len(cards) == 0 {
		return 0, fmt.Errorf("dictionary is empty, nothing to export")
	}

	if withAudio && p.deps.Audio != nil {
		mediaDir := filepath.Join(p.opts.OutputDir, "deck")
		for i := range cards {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			file := filepath.Join(mediaDir, internal.SanitizeFilename(cards[i].English)+"."+p.opts.AudioFormat)
			if _, err := p.synthesizeTo(ctx, mediaDir, cards[i].Tamil, file); err != nil {
				fmt.Fprintf(p.out, "Could not generate speech for %q: %v\n", cards[i].English, err)
				continue
			}
			cards[i].AudioFile = file
		}
	}

	if err := anki.Export(path, deckName, cards); err != nil {
		return 0, fmt.Errorf("failed to export deck: %w", err)
	}

	fmt.Fprintf(p.out, "Exported %d terms to %s\n", len(cards), path)
	return len(cards), nil
}
