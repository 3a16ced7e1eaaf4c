// Package editdist computes word-level Levenshtein distance.
//
// The engine keeps only two rows of the dynamic-programming table, each sized
// by the shorter sequence, so memory stays O(min(m, n)) for long utterances.
// Substitution, insertion, and deletion all cost one. Only the minimum cost is
// produced; the edit path is never reconstructed.
package editdist
