package phonetic

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const virama = '\u0BCD'

var vowels = map[rune]string{
	'அ': "a", 'ஆ': "ā", 'இ': "i", 'ஈ': "ī", 'உ': "u", 'ஊ': "ū",
	'எ': "e", 'ஏ': "ē", 'ஐ': "ai", 'ஒ': "o", 'ஓ': "ō", 'ஔ': "au",
	'ஃ': "ḵ",
}

var consonants = map[rune]string{
	'க': "k", 'ங': "ṅ", 'ச': "c", 'ஞ': "ñ", 'ட': "ṭ", 'ண': "ṇ",
	'த': "t", 'ந': "n", 'ப': "p", 'ம': "m", 'ய': "y", 'ர': "r",
	'ல': "l", 'வ': "v", 'ழ': "ḻ", 'ள': "ḷ", 'ற': "ṟ", 'ன': "ṉ",
	'ஜ': "j", 'ஷ': "ṣ", 'ஸ': "s", 'ஹ': "h", 'ஶ': "ś",
}

var vowelSigns = map[rune]string{
	'ா': "ā", 'ி': "i", 'ீ': "ī", 'ு': "u", 'ூ': "ū",
	'ெ': "e", 'ே': "ē", 'ை': "ai", 'ொ': "o", 'ோ': "ō", 'ௌ': "au",
}

// Romanize transliterates Tamil script into Latin letters (ISO 15919 style).
// Characters outside the Tamil block are copied unchanged.
func Romanize(tamil string) string {
	runes := []rune(norm.NFC.String(tamil))

	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if c, ok := consonants[r]; ok {
			sb.WriteString(c)
			if i+1 < len(runes) {
				next := runes[i+1]
				if next == virama {
					i++
					continue
				}
				if sign, ok := vowelSigns[next]; ok {
					sb.WriteString(sign)
					i++
					continue
				}
			}
			sb.WriteString("a")
			continue
		}

		if v, ok := vowels[r]; ok {
			sb.WriteString(v)
			continue
		}

		if r >= '\u0BE6' && r <= '\u0BEF' {
			sb.WriteRune('0' + (r - '\u0BE6'))
			continue
		}

		sb.WriteRune(r)
	}
	return sb.String()
}
