package wer

import (
	"math"
	"slices"
)

// DefaultThreshold is the utterance WER above which a score is retained as an
// offender.
const DefaultThreshold = 0.5

// Summary is the read-only result of a corpus run.
type Summary struct {
	GlobalWER  float64 `json:"global_wer"`
	AverageWER float64 `json:"average_wer"`
	MinWER     float64 `json:"min_wer"`
	MaxWER     float64 `json:"max_wer"`
	Scored     int     `json:"scored"`
	Excluded   int     `json:"excluded"`
	TotalEdits int     `json:"total_edits"`
	TotalWords int     `json:"total_words"`
	Threshold  float64 `json:"threshold"`
}

// Corpus accumulates utterance scores. Totals only grow; nothing is retracted.
// A Corpus is not safe for concurrent use; parallel callers score into
// separate corpora and Merge them.
type Corpus struct {
	threshold float64

	edits    int
	words    int
	scored   int
	excluded int

	// Neumaier-compensated sum of utterance WERs.
	werSum  float64
	werComp float64

	minWER float64
	maxWER float64

	offenders []Score
	finalized bool
}

// NewCorpus returns an empty corpus retaining scores with WER above threshold.
// A negative threshold falls back to DefaultThreshold.
func NewCorpus(threshold float64) *Corpus {
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	return &Corpus{threshold: threshold}
}

// Threshold returns the offender retention threshold.
func (c *Corpus) Threshold() float64 { return c.threshold }

// Add folds one utterance score into the running totals.
func (c *Corpus) Add(s Score) error {
	if c.finalized {
		return ErrFinalized
	}
	if c.scored == 0 {
		c.minWER, c.maxWER = s.WER, s.WER
	} else {
		c.minWER = min(c.minWER, s.WER)
		c.maxWER = max(c.maxWER, s.WER)
	}
	c.edits += s.Distance
	c.words += s.RefWords
	c.scored++
	c.addWER(s.WER)
	if s.WER > c.threshold {
		c.offenders = append(c.offenders, s)
	}
	return nil
}

// Exclude records an utterance rejected with ErrInvalidReference.
func (c *Corpus) Exclude() error {
	if c.finalized {
		return ErrFinalized
	}
	c.excluded++
	return nil
}

// Merge folds a partial corpus into c. Offenders from other are appended
// after c's own, so merging partials in input order preserves input order.
func (c *Corpus) Merge(other *Corpus) error {
	if c.finalized {
		return ErrFinalized
	}
	if other == nil {
		return nil
	}
	if other.scored > 0 {
		if c.scored == 0 {
			c.minWER, c.maxWER = other.minWER, other.maxWER
		} else {
			c.minWER = min(c.minWER, other.minWER)
			c.maxWER = max(c.maxWER, other.maxWER)
		}
	}
	c.edits += other.edits
	c.words += other.words
	c.scored += other.scored
	c.excluded += other.excluded
	c.addWER(other.werSum)
	c.werComp += other.werComp
	for _, s := range other.offenders {
		if s.WER > c.threshold {
			c.offenders = append(c.offenders, s)
		}
	}
	return nil
}

func (c *Corpus) addWER(v float64) {
	t := c.werSum + v
	if math.Abs(c.werSum) >= math.Abs(v) {
		c.werComp += (c.werSum - t) + v
	} else {
		c.werComp += (v - t) + c.werSum
	}
	c.werSum = t
}

// Summary derives corpus statistics from the current totals. Global WER is 0
// when no reference words were seen; average, min and max are 0 when nothing
// was scored.
func (c *Corpus) Summary() Summary {
	s := Summary{
		Scored:     c.scored,
		Excluded:   c.excluded,
		TotalEdits: c.edits,
		TotalWords: c.words,
		Threshold:  c.threshold,
	}
	if c.words > 0 {
		s.GlobalWER = float64(c.edits) / float64(c.words)
	}
	if c.scored > 0 {
		s.AverageWER = (c.werSum + c.werComp) / float64(c.scored)
		s.MinWER = c.minWER
		s.MaxWER = c.maxWER
	}
	return s
}

// Finalize freezes the corpus and returns its summary. Later calls to Add,
// Exclude, or Merge fail with ErrFinalized.
func (c *Corpus) Finalize() Summary {
	c.finalized = true
	return c.Summary()
}

// Finalized reports whether Finalize has been called.
func (c *Corpus) Finalized() bool { return c.finalized }

// Offenders returns retained scores in insertion order.
func (c *Corpus) Offenders() []Score {
	return slices.Clone(c.offenders)
}

// TopOffenders returns up to k retained scores ordered by descending WER. Ties
// keep insertion order. k <= 0 returns every offender.
func (c *Corpus) TopOffenders(k int) []Score {
	ranked := slices.Clone(c.offenders)
	slices.SortStableFunc(ranked, func(a, b Score) int {
		switch {
		case a.WER > b.WER:
			return -1
		case a.WER < b.WER:
			return 1
		default:
			return 0
		}
	})
	if k > 0 && k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
