package manifest

import (
	"math/rand/v2"
	"time"
)

// DefaultEstimateSample is how many leading entries EstimateHours averages.
const DefaultEstimateSample = 1000

// FilterByDuration keeps entries no longer than maxDuration seconds. Order is
// preserved in both results.
func FilterByDuration(entries []Entry, maxDuration float64) (kept, removed []Entry) {
	kept = make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Duration <= maxDuration {
			kept = append(kept, e)
		} else {
			removed = append(removed, e)
		}
	}
	return kept, removed
}

// Shuffle permutes entries in place. A non-zero seed yields the same order
// on every run; zero seeds from the clock.
func Shuffle(entries []Entry, seed uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
}

// EstimateHours extrapolates total audio hours from the mean duration of the
// first sample entries. sample <= 0 uses DefaultEstimateSample.
func EstimateHours(entries []Entry, sample int) float64 {
	if len(entries) == 0 {
		return 0
	}
	if sample <= 0 {
		sample = DefaultEstimateSample
	}
	n := min(sample, len(entries))
	var sum float64
	for _, e := range entries[:n] {
		sum += e.Duration
	}
	avg := sum / float64(n)
	return avg * float64(len(entries)) / 3600
}
