package sanitizer

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"adds https", "linkedin.com/in/asha", "https://linkedin.com/in/asha"},
		{"upgrades http", "http://Instagram.com/asha", "https://instagram.com/asha"},
		{"keeps path case", "https://LinkedIn.com/in/AshaK/", "https://linkedin.com/in/AshaK"},
		{"empty", "   ", ""},
		{"scheme only", "https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
