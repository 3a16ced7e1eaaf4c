package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDelimiter separates words when NormalizeOptions.Delimiter is unset.
const DefaultDelimiter = ' '

// Tokens is an ordered sequence of words derived from one text string.
// A nil Tokens means no input; an empty non-nil Tokens is a valid empty sequence.
type Tokens []string

// Len returns the number of tokens.
func (t Tokens) Len() int { return len(t) }

// Equal reports whether both sequences hold the same tokens in the same order.
func (t Tokens) Equal(other Tokens) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// String joins the tokens with single spaces.
func (t Tokens) String() string {
	return strings.Join(t, " ")
}

// NormalizeOptions controls how Normalize tokenizes text.
type NormalizeOptions struct {
	CaseInsensitive bool
	// Delimiter splits words. Zero means DefaultDelimiter. A whitespace
	// delimiter matches every Unicode whitespace rune.
	Delimiter rune
}

func (o NormalizeOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// Normalize lowercases (when configured), trims, and splits text into tokens.
// Consecutive delimiters never produce empty tokens, whatever the run length.
func Normalize(text string, opts NormalizeOptions) Tokens {
	if opts.CaseInsensitive {
		text = Fold(text)
	}
	text = strings.TrimSpace(text)

	delim := opts.delimiter()
	var isDelim func(rune) bool
	if unicode.IsSpace(delim) {
		isDelim = unicode.IsSpace
	} else {
		isDelim = func(r rune) bool { return r == delim }
	}

	fields := strings.FieldsFunc(text, isDelim)
	if fields == nil {
		return Tokens{}
	}
	return Tokens(fields)
}

// Fold lowercases text using Unicode case mapping rules.
func Fold(text string) string {
	// cases.Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(text)
}
