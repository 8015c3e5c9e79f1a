package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// GenerateAudioID creates a unique ID for an audio file based on the
// current time and the text it speaks.
// Format: epochMillis_md5(text)[:8]
func GenerateAudioID(text string) string {
	return generateAudioID(text, time.Now())
}

func generateAudioID(text string, now time.Time) string {
	hash := md5.Sum([]byte(text))
	hashStr := hex.EncodeToString(hash[:])[:8]
	return fmt.Sprintf("%d_%s", now.UnixMilli(), hashStr)
}

// SanitizeFilename creates a safe filename from a string. Letters, digits
// and combining marks of any script are kept so Tamil words stay readable.
func SanitizeFilename(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
