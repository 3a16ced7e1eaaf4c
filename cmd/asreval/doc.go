// Package main hosts the asreval CLI entrypoint and command graph.
//
// The Cobra command tree scores ASR predictions against a reference manifest,
// filters and inspects manifests, watches prediction files for changes, and
// browses recorded runs. It centralizes configuration resolution and logger
// setup so subcommands only parse flags and render results.
//
// Keep this package lean: scoring, manifest handling, persistence, and metrics
// live in internal packages and are surfaced here through dedicated commands.
package main
