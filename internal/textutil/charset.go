package textutil

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultAllowedChars is the character class body for clean Russian transcripts.
const DefaultAllowedChars = "а-яё "

// CompileCharset builds a pattern matching any single character outside the
// allowed class. allowed is a regexp character class body such as "a-z' ".
func CompileCharset(allowed string) (*regexp.Regexp, error) {
	if allowed == "" {
		return nil, errors.New("charset: empty character class")
	}
	pattern, err := regexp.Compile("[^" + allowed + "]")
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", allowed, err)
	}
	return pattern, nil
}

// ForeignRunes returns the distinct characters of text matched by foreign, in
// order of first appearance. It returns nil for clean text.
func ForeignRunes(text string, foreign *regexp.Regexp) []string {
	if foreign == nil || text == "" {
		return nil
	}
	matches := foreign.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
