// Package textutil turns raw transcript text into word tokens for scoring.
//
// Normalization is deliberately narrow: optional Unicode lowercasing, trimming,
// and splitting on a single delimiter with runs of that delimiter collapsed.
// Punctuation, numerals, and spelling variants pass through untouched so the
// scorer sees exactly what the recognizer produced.
//
// The package also reports characters that fall outside an allowed alphabet,
// which manifest inspection uses to flag dirty reference text.
package textutil
