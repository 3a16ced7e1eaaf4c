package editdist

import "asreval/internal/textutil"

// Result is a word-level edit distance together with the reference length
// needed to turn it into an error rate.
type Result struct {
	Distance int
	// RefLen counts tokens of the reference passed to Compute, regardless of
	// which operand the DP used for its rows.
	RefLen int
}

// Compute returns the minimum number of token substitutions, insertions, and
// deletions that transform ref into hyp.
func Compute(ref, hyp textutil.Tokens) Result {
	return Result{
		Distance: Levenshtein(ref, hyp),
		RefLen:   len(ref),
	}
}

// Levenshtein computes unit-cost edit distance between two sequences using two
// rolling rows sized by the shorter operand.
func Levenshtein[T comparable](a, b []T) int {
	if equal(a, b) {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Rows span the shorter sequence; distance is symmetric so the swap is safe.
	if len(a) < len(b) {
		a, b = b, a
	}
	m, n := len(a), len(b)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			sub := prev[j-1]
			ins := curr[j-1]
			del := prev[j]
			curr[j] = 1 + min(sub, ins, del)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
