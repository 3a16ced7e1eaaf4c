// Package watch re-runs scoring whenever a predictions file changes.
//
// Change detection uses fsnotify on the parent directory, with a polling
// ticker as a safety net for filesystems that drop inotify events. Events are
// debounced and deduplicated by content hash, so a model writing predictions
// line by line triggers one rescore rather than hundreds. A flock under the
// configured lock directory keeps one watcher per predictions file.
package watch
