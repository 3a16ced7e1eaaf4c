// Package wer scores recognizer output against reference transcripts.
//
// ComputeUtterance produces one utterance's word error rate. Corpus folds many
// utterance scores into running totals and derives the two corpus metrics that
// matter for model comparison: global WER (total edits over total reference
// words, weighting long utterances more) and average WER (the unweighted mean
// of utterance scores, sensitive to short-utterance outliers). Both are
// reported because they answer different questions.
//
// Utterances with an empty reference have no defined WER. They fail with
// ErrInvalidReference individually and are counted as excluded by the corpus
// entry points, so one bad line never discards a whole run.
package wer
