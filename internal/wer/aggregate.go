package wer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Result is the outcome of scoring one utterance: a score, or the error that
// prevented it.
type Result struct {
	Score Score
	Err   error
}

// Aggregate folds per-utterance results into a corpus, in order.
//
// The results must already be paired one-to-one with the corpus utterances;
// Aggregate cannot detect a reference/hypothesis misalignment. Results failing
// with ErrInvalidReference are counted as excluded; any other error aborts.
func Aggregate(results []Result, threshold float64) (*Corpus, error) {
	corpus := NewCorpus(threshold)
	for i, r := range results {
		if err := fold(corpus, r); err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
	}
	return corpus, nil
}

func fold(c *Corpus, r Result) error {
	if r.Err != nil {
		if errors.Is(r.Err, ErrInvalidReference) {
			return c.Exclude()
		}
		return r.Err
	}
	return c.Add(r.Score)
}

// EvalOptions configures Evaluate.
type EvalOptions struct {
	Options
	Threshold float64
	// Workers bounds parallel scoring; zero means runtime.NumCPU().
	Workers int
}

// Evaluate scores parallel reference and hypothesis slices and aggregates them.
// Mismatched lengths fail with ErrLengthMismatch before any scoring.
//
// Work is split into contiguous chunks, one per worker, each scoring into its
// own partial corpus. Partials are merged in chunk order, so totals, offender
// order, and summation order do not depend on goroutine scheduling.
func Evaluate(ctx context.Context, refs, hyps []string, opts EvalOptions) (*Corpus, error) {
	if len(refs) != len(hyps) {
		return nil, fmt.Errorf("%w: %d references, %d hypotheses", ErrLengthMismatch, len(refs), len(hyps))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	n := len(refs)
	if workers > n {
		workers = n
	}

	total := NewCorpus(opts.Threshold)
	if n == 0 {
		return total, nil
	}

	chunk := (n + workers - 1) / workers
	partials := make([]*Corpus, 0, workers)
	errs := make([]error, 0, workers)
	for start := 0; start < n; start += chunk {
		partials = append(partials, NewCorpus(total.Threshold()))
		errs = append(errs, nil)
	}

	var wg sync.WaitGroup
	for w := range partials {
		start := w * chunk
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[w] = scoreRange(ctx, partials[w], refs, hyps, start, end, opts.Options)
		}()
	}
	wg.Wait()

	for w, partial := range partials {
		if errs[w] != nil {
			return nil, errs[w]
		}
		if err := total.Merge(partial); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func scoreRange(ctx context.Context, c *Corpus, refs, hyps []string, start, end int, opts Options) error {
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		score, scoreErr := NewPair(i, refs[i], hyps[i], opts).Score()
		if err := fold(c, Result{Score: score, Err: scoreErr}); err != nil {
			return fmt.Errorf("utterance %d: %w", i, err)
		}
	}
	return nil
}
