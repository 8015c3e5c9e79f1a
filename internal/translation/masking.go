package translation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"codeberg.org/snonux/medtamil/internal/dictionary"
)

// tokenMarker sits between the delimiters of every placeholder token. It is
// uppercase while masked text is lowercase, so user text never contains it.
const tokenMarker = "TERM"

// delimiters are tried in order until one does not already occur in the text.
var delimiters = []string{"@@", "##", "%%", "~~"}

// ErrTokenCollision is returned when every reserved delimiter already occurs in the text.
var ErrTokenCollision = errors.New("placeholder syntax already present in text")

// Placeholder maps one synthetic token to the Tamil term it stands for.
type Placeholder struct {
	Token   string
	English string
	Tamil   string
}

// Masking is the result of replacing dictionary terms with placeholders.
// It lives for a single translation call.
type Masking struct {
	Text         string
	Placeholders []Placeholder
}

// Mask replaces every whole-word occurrence of each dictionary term in text
// with a placeholder token. Terms are expected longest first, so multi-word
// phrases are masked before the shorter terms they contain. One token is
// generated per distinct matched term.
func Mask(text string, terms []dictionary.Term) (Masking, error) {
	masking := Masking{Text: text}

	delimiter, err := chooseDelimiter(text)
	if err != nil {
		return masking, err
	}

	for _, term := range terms {
		if !term.Pattern.MatchString(masking.Text) {
			continue
		}
		token := fmt.Sprintf("%s%s%d%s", delimiter, tokenMarker, len(masking.Placeholders), delimiter)
		masking.Text = term.Pattern.ReplaceAllLiteralString(masking.Text, token)
		masking.Placeholders = append(masking.Placeholders, Placeholder{
			Token:   token,
			English: term.English,
			Tamil:   term.Tamil,
		})
	}

	return masking, nil
}

func chooseDelimiter(text string) (string, error) {
	lower := strings.ToLower(text)
	for _, d := range delimiters {
		if !strings.Contains(lower, strings.ToLower(d+tokenMarker)) {
			return d, nil
		}
	}
	return "", ErrTokenCollision
}

// Unmask replaces every placeholder in translated with its Tamil term. Tokens
// are first replaced verbatim, then copies the backend altered in case or
// spacing are found with a tolerant pattern. Tokens with no copy of either
// form are returned as unresolved.
func (m Masking) Unmask(translated string) (string, []string) {
	var unresolved []string
	for _, p := range m.Placeholders {
		found := strings.Contains(translated, p.Token)
		if found {
			translated = strings.ReplaceAll(translated, p.Token, p.Tamil)
		}

		pattern := tolerantPattern(p.Token)
		if pattern.MatchString(translated) {
			translated = pattern.ReplaceAllLiteralString(translated, p.Tamil)
			found = true
		}

		if !found {
			unresolved = append(unresolved, p.Token)
		}
	}
	return translated, unresolved
}

// tolerantPattern matches token case-insensitively with optional whitespace
// between its characters, e.g. "@@ term0 @@" for "@@TERM0@@".
func tolerantPattern(token string) *regexp.Regexp {
	parts := make([]string, 0, len(token))
	for _, r := range token {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, `\s*`))
}
