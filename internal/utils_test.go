package internal

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateAudioID(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	id := generateAudioID("காய்ச்சல்", now)
	if !regexp.MustCompile(`^1700000000123_[0-9a-f]{8}$`).MatchString(id) {
		t.Errorf("unexpected id format: %s", id)
	}
	if id == generateAudioID("தலைவலி", now) {
		t.Error("different text should produce different ids")
	}
	if id != generateAudioID("காய்ச்சல்", now) {
		t.Error("same text and time should produce the same id")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fever", "fever"},
		{"high blood pressure", "high_blood_pressure"},
		{"x-ray/ct", "x-ray_ct"},
		{"காய்ச்சல்", "காய்ச்சல்"},
		{"a.b?c", "a_b_c"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
