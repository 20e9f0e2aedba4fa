package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple", "Acme", "acme"},
		{"Spaces", "Acme Corp", "acme-corp"},
		{"Punctuation", "Acme, Inc.", "acme-inc"},
		{"Collapse", "  Big   --  Team ", "big-team"},
		{"Accents", "Café Société", "cafe-societe"},
		{"Underscore", "dev_ops", "dev_ops"},
		{"Empty", "!!!", "org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMakeTruncates(t *testing.T) {
	got := Make(strings.Repeat("a", 300))
	if len(got) > MaxLength-10 {
		t.Errorf("expected slug of at most %d chars, got %d", MaxLength-10, len(got))
	}
}

func TestCandidate(t *testing.T) {
	if got := Candidate("acme", 0); got != "acme" {
		t.Errorf("expected acme, got %s", got)
	}
	if got := Candidate("acme", 2); got != "acme-2" {
		t.Errorf("expected acme-2, got %s", got)
	}
}
