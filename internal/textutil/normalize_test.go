package textutil

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  NormalizeOptions
		want  []string
	}{
		{
			name:  "simple words",
			input: "the cat sat",
			want:  []string{"the", "cat", "sat"},
		},
		{
			name:  "case insensitive",
			input: "The CAT Sat",
			opts:  NormalizeOptions{CaseInsensitive: true},
			want:  []string{"the", "cat", "sat"},
		},
		{
			name:  "case sensitive keeps case",
			input: "The CAT",
			want:  []string{"The", "CAT"},
		},
		{
			name:  "cyrillic folding",
			input: "Привет МИР",
			opts:  NormalizeOptions{CaseInsensitive: true},
			want:  []string{"привет", "мир"},
		},
		{
			name:  "trims and collapses long runs",
			input: "   the" + strings.Repeat(" ", 7) + "cat     sat  ",
			want:  []string{"the", "cat", "sat"},
		},
		{
			name:  "tabs and newlines act as spaces",
			input: "the\tcat\n sat",
			want:  []string{"the", "cat", "sat"},
		},
		{
			name:  "custom delimiter",
			input: "a||b|c",
			opts:  NormalizeOptions{Delimiter: '|'},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "custom delimiter keeps spaces inside tokens",
			input: "new york|boston",
			opts:  NormalizeOptions{Delimiter: '|'},
			want:  []string{"new york", "boston"},
		},
		{
			name:  "punctuation untouched",
			input: "hello, world!",
			want:  []string{"hello,", "world!"},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
		{
			name:  "only whitespace",
			input: " \t  \n",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input, tt.opts)
			if got == nil {
				t.Fatal("Normalize returned nil, want non-nil sequence")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Normalize() = %q (len %d), want %q (len %d)", got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeNeverYieldsEmptyTokens(t *testing.T) {
	for run := 1; run <= 12; run++ {
		input := "a" + strings.Repeat(" ", run) + "b" + strings.Repeat(" ", run)
		for _, tok := range Normalize(input, NormalizeOptions{}) {
			if tok == "" {
				t.Fatalf("empty token for run length %d", run)
			}
		}
	}
}

func TestTokensEqual(t *testing.T) {
	a := Tokens{"the", "cat"}
	if !a.Equal(Tokens{"the", "cat"}) {
		t.Error("expected equal sequences")
	}
	if a.Equal(Tokens{"the", "dog"}) {
		t.Error("expected different tokens to be unequal")
	}
	if a.Equal(Tokens{"the"}) {
		t.Error("expected different lengths to be unequal")
	}
	if !(Tokens{}).Equal(nil) {
		t.Error("expected empty and nil to compare equal by value")
	}
}

func TestFold(t *testing.T) {
	if got := Fold("ÀÉÎ Ёлка"); got != "àéî ёлка" {
		t.Errorf("Fold() = %q", got)
	}
}
