package wer

import (
	"fmt"

	"asreval/internal/editdist"
	"asreval/internal/textutil"
)

// Options controls normalization before scoring.
type Options struct {
	CaseInsensitive bool
	// Delimiter splits words; zero means a space.
	Delimiter rune
}

func (o Options) normalize() textutil.NormalizeOptions {
	return textutil.NormalizeOptions{CaseInsensitive: o.CaseInsensitive, Delimiter: o.Delimiter}
}

// Pair holds one utterance's normalized reference and hypothesis.
type Pair struct {
	Index      int
	Reference  string
	Hypothesis string
	RefTokens  textutil.Tokens
	HypTokens  textutil.Tokens
}

// NewPair normalizes both strings exactly once.
func NewPair(index int, reference, hypothesis string, opts Options) Pair {
	norm := opts.normalize()
	return Pair{
		Index:      index,
		Reference:  reference,
		Hypothesis: hypothesis,
		RefTokens:  textutil.Normalize(reference, norm),
		HypTokens:  textutil.Normalize(hypothesis, norm),
	}
}

// Score is one utterance's word error rate with the inputs that produced it.
type Score struct {
	Index      int     `json:"index"`
	WER        float64 `json:"wer"`
	Distance   int     `json:"distance"`
	RefWords   int     `json:"ref_words"`
	HypWords   int     `json:"hyp_words"`
	Reference  string  `json:"reference"`
	Hypothesis string  `json:"hypothesis"`
}

// Score computes the pair's WER. It fails with ErrInvalidReference when the
// reference has no tokens.
func (p Pair) Score() (Score, error) {
	res := editdist.Compute(p.RefTokens, p.HypTokens)
	if res.RefLen == 0 {
		return Score{}, fmt.Errorf("utterance %d: %w", p.Index, ErrInvalidReference)
	}
	return Score{
		Index:      p.Index,
		WER:        float64(res.Distance) / float64(res.RefLen),
		Distance:   res.Distance,
		RefWords:   res.RefLen,
		HypWords:   len(p.HypTokens),
		Reference:  p.Reference,
		Hypothesis: p.Hypothesis,
	}, nil
}

// ComputeUtterance normalizes reference and hypothesis and returns their word
// error rate. WER may exceed 1.0 when insertions dominate. An empty reference
// fails with ErrInvalidReference regardless of the hypothesis.
func ComputeUtterance(reference, hypothesis string, opts Options) (Score, error) {
	return NewPair(0, reference, hypothesis, opts).Score()
}
