package editdist

import (
	"math/rand/v2"
	"testing"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"asreval/internal/textutil"
)

func tokens(s string) textutil.Tokens {
	return textutil.Normalize(s, textutil.NormalizeOptions{CaseInsensitive: true})
}

func TestComputeScenarios(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		hyp      string
		wantDist int
		wantRef  int
	}{
		{"identical", "the cat sat", "the cat sat", 0, 3},
		{"one substitution", "the cat sat", "the dog sat", 1, 3},
		{"two insertions", "the cat", "the cat sat down", 2, 2},
		{"two deletions", "the cat sat down", "the cat", 2, 4},
		{"empty hypothesis", "the cat sat", "", 3, 3},
		{"empty reference", "", "hello", 1, 0},
		{"both empty", "", "", 0, 0},
		{"all different", "a b c", "x y z", 3, 3},
		{"shifted", "a b c d", "b c d e", 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tokens(tt.ref), tokens(tt.hyp))
			if got.Distance != tt.wantDist {
				t.Errorf("Distance = %d, want %d", got.Distance, tt.wantDist)
			}
			if got.RefLen != tt.wantRef {
				t.Errorf("RefLen = %d, want %d", got.RefLen, tt.wantRef)
			}
		})
	}
}

func TestComputeReportsReferenceLengthAfterSwap(t *testing.T) {
	// hyp is longer, so the DP swaps operands internally.
	got := Compute(tokens("a b"), tokens("a b c d e"))
	if got.RefLen != 2 {
		t.Fatalf("RefLen = %d, want 2", got.RefLen)
	}
	if got.Distance != 3 {
		t.Fatalf("Distance = %d, want 3", got.Distance)
	}
}

func TestLevenshteinIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	if d := Levenshtein(textutil.Tokens{}, textutil.Tokens{}); d != 0 {
		t.Fatalf("distance(empty, empty) = %d", d)
	}
	for i := 0; i < 200; i++ {
		a := randomTokens(rng, 12)
		// Copy to make sure equality is by value, not by backing array.
		b := append(textutil.Tokens(nil), a...)
		if d := Levenshtein(a, b); d != 0 {
			t.Fatalf("distance(%q, copy) = %d, want 0", a, d)
		}
	}
}

func TestLevenshteinEmptyBaseCases(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		a := randomTokens(rng, 15)
		if d := Levenshtein(a, textutil.Tokens{}); d != len(a) {
			t.Fatalf("distance(%q, empty) = %d, want %d", a, d, len(a))
		}
		if d := Levenshtein(textutil.Tokens{}, a); d != len(a) {
			t.Fatalf("distance(empty, %q) = %d, want %d", a, d, len(a))
		}
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 500; i++ {
		a := randomTokens(rng, 10)
		b := randomTokens(rng, 14)
		ab := Levenshtein(a, b)
		ba := Levenshtein(b, a)
		if ab != ba {
			t.Fatalf("not symmetric: d(%q,%q)=%d d(%q,%q)=%d", a, b, ab, b, a, ba)
		}
	}
}

func TestLevenshteinTriangleInequality(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 500; i++ {
		a := randomTokens(rng, 8)
		b := randomTokens(rng, 8)
		c := randomTokens(rng, 8)
		ac := Levenshtein(a, c)
		ab := Levenshtein(a, b)
		bc := Levenshtein(b, c)
		if ac > ab+bc {
			t.Fatalf("triangle violated: d(a,c)=%d > d(a,b)=%d + d(b,c)=%d for %q %q %q", ac, ab, bc, a, b, c)
		}
	}
}

func TestLevenshteinMatchesReferenceImplementation(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	opts := levenshtein.Options{
		InsCost: 1,
		DelCost: 1,
		SubCost: 1,
		Matches: levenshtein.IdenticalRunes,
	}
	for i := 0; i < 500; i++ {
		a := randomTokens(rng, 16)
		b := randomTokens(rng, 16)
		ra, rb := encodeWords(a, b)
		want := levenshtein.DistanceForStrings(ra, rb, opts)
		if got := Levenshtein(a, b); got != want {
			t.Fatalf("Levenshtein(%q, %q) = %d, reference says %d", a, b, got, want)
		}
	}
}

func TestLevenshteinGenericOverRunes(t *testing.T) {
	if d := Levenshtein([]rune("kitten"), []rune("sitting")); d != 3 {
		t.Fatalf("kitten/sitting = %d, want 3", d)
	}
}

var vocabulary = []string{"the", "cat", "sat", "on", "mat", "dog", "ran", "a"}

// randomTokens draws from a small vocabulary so matches are frequent.
func randomTokens(rng *rand.Rand, maxLen int) textutil.Tokens {
	n := rng.IntN(maxLen + 1)
	out := make(textutil.Tokens, n)
	for i := range out {
		out[i] = vocabulary[rng.IntN(len(vocabulary))]
	}
	return out
}

// encodeWords maps each distinct word to one rune so a character-level
// Levenshtein can score word sequences.
func encodeWords(a, b textutil.Tokens) ([]rune, []rune) {
	ids := map[string]rune{}
	encode := func(words textutil.Tokens) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			id, ok := ids[w]
			if !ok {
				id = rune('A' + len(ids))
				ids[w] = id
			}
			out[i] = id
		}
		return out
	}
	return encode(a), encode(b)
}
