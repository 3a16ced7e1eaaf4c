package textutil

import "testing"

func TestForeignRunes(t *testing.T) {
	foreign, err := CompileCharset(DefaultAllowedChars)
	if err != nil {
		t.Fatalf("CompileCharset: %v", err)
	}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"clean", "привет мир", nil},
		{"empty", "", nil},
		{"latin and digits", "привет hi 2", []string{"h", "i", "2"}},
		{"distinct in order", "мир!! мир?", []string{"!", "?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForeignRunes(tt.text, foreign)
			if len(got) != len(tt.want) {
				t.Fatalf("ForeignRunes() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rune[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompileCharsetRejectsInvalid(t *testing.T) {
	if _, err := CompileCharset(""); err == nil {
		t.Error("expected error for empty class")
	}
	if _, err := CompileCharset("z-a"); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestForeignRunesNilPattern(t *testing.T) {
	if got := ForeignRunes("anything", nil); got != nil {
		t.Errorf("expected nil, got %q", got)
	}
}
