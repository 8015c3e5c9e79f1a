package phonetic

import "testing"

func TestRomanize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "inherent vowel and virama", input: "வணக்கம்", want: "vaṇakkam"},
		{name: "vowel signs", input: "காய்ச்சல்", want: "kāyccal"},
		{name: "ai sign", input: "தலைவலி", want: "talaivali"},
		{name: "independent vowel", input: "இருமல்", want: "irumal"},
		{name: "sentence keeps spacing and punctuation", input: "உயர் இரத்த அழுத்தம்.", want: "uyar iratta aḻuttam."},
		{name: "decomposed o sign", input: "ப\u0BC6\u0BBEடி", want: "poṭi"},
		{name: "tamil digits", input: "\u0BE8 முறை", want: "2 muṟai"},
		{name: "latin passes through", input: "ECG", want: "ECG"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Romanize(tt.input); got != tt.want {
				t.Errorf("Romanize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
