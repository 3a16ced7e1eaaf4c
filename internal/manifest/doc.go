// Package manifest reads and rewrites JSON-lines ASR manifests and the
// line-per-utterance prediction files scored against them.
//
// A manifest line is an object with audio_filepath, duration (seconds) and
// text. Decoding is lenient: malformed lines are counted rather than fatal,
// and every entry keeps its original line so filtering and shuffling never
// drop fields this package does not model.
package manifest
