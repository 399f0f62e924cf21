package normalize_test

import (
	"reflect"
	"testing"

	"github.com/XavierBriggs/courtline/pkg/normalize"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "lebron james", "lebron james"},
		{"uppercase", "LeBron James", "lebron james"},
		{"diacritics", "José Alvarado", "jose alvarado"},
		{"diacritics nordic", "Nikola Jokić", "nikola jokic"},
		{"punctuation", "D'Angelo Russell", "dangelo russell"},
		{"suffix dot", "Jaren Jackson Jr.", "jaren jackson jr"},
		{"whitespace runs", "  Luka   Dončić  ", "luka doncic"},
		{"empty", "", ""},
		{"only punctuation", "...---!!!", ""},
		{"digits kept", "Player 2", "player 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"José Alvarado", "LeBron James", "", "Jaren Jackson Jr.", "Dončić"}
	for _, s := range inputs {
		once := normalize.Normalize(s)
		twice := normalize.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalizeAccentEquivalence(t *testing.T) {
	if normalize.Normalize("José Alvarado") != normalize.Normalize("jose alvarado") {
		t.Error("accented and plain spellings should normalize identically")
	}
}

func TestTokenize(t *testing.T) {
	got := normalize.Tokenize("  Shai Gilgeous-Alexander ")
	want := []string{"shai", "gilgeousalexander"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	if tokens := normalize.Tokenize(""); tokens != nil {
		t.Errorf("Tokenize(\"\") = %v, want nil", tokens)
	}
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		expected  bool
	}{
		{"exact", "LeBron James", "LeBron James", true},
		{"accents", "Jose Alvarado", "José Alvarado", true},
		{"single token superset", "James", "LeBron James", true},
		{"multi token all present", "lebron james", "LeBron James Over 25.5", true},
		{"one token missing", "LeBron Davis", "LeBron James", false},
		{"empty query", "", "LeBron James", false},
		{"reversed order still matches", "james lebron", "LeBron James", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.MatchesQuery(tt.query, tt.candidate)
			if got != tt.expected {
				t.Errorf("MatchesQuery(%q, %q) = %v, want %v", tt.query, tt.candidate, got, tt.expected)
			}
		})
	}
}
