package wer

import "errors"

var (
	// ErrInvalidReference indicates a reference with no tokens after
	// normalization, for which WER is undefined.
	ErrInvalidReference = errors.New("reference has no words")

	// ErrLengthMismatch indicates reference and hypothesis inputs of different
	// lengths, which makes utterance pairing impossible.
	ErrLengthMismatch = errors.New("reference and hypothesis counts differ")

	// ErrFinalized indicates an attempt to modify a corpus after its summary
	// was derived.
	ErrFinalized = errors.New("corpus already finalized")
)
