package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateTamilText validates that the input text contains Tamil script
func ValidateTamilText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.Is(unicode.Tamil, r) {
			return nil
		}
	}

	return fmt.Errorf("text must contain Tamil characters")
}
