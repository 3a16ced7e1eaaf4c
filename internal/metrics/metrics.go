// Package metrics exports corpus WER results in the Prometheus text format so
// node_exporter's textfile collector can track model quality over time.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"asreval/internal/wer"
)

// LabelManifest identifies the evaluated manifest on every series.
const LabelManifest = "manifest"

// Exporter holds the WER gauges of one process on a private registry.
type Exporter struct {
	registry *prometheus.Registry

	GlobalWER      *prometheus.GaugeVec
	AverageWER     *prometheus.GaugeVec
	MinWER         *prometheus.GaugeVec
	MaxWER         *prometheus.GaugeVec
	Scored         *prometheus.GaugeVec
	Excluded       *prometheus.GaugeVec
	ReferenceWords *prometheus.GaugeVec
	EditDistance   *prometheus.GaugeVec
	LastRun        *prometheus.GaugeVec
}

// NewExporter registers the WER gauges on a fresh registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{LabelManifest}

	return &Exporter{
		registry: reg,
		GlobalWER: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_wer_global",
			Help: "Corpus WER: total edits over total reference words",
		}, labels),
		AverageWER: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_wer_average",
			Help: "Mean of per-utterance WER",
		}, labels),
		MinWER: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_wer_min",
			Help: "Lowest per-utterance WER",
		}, labels),
		MaxWER: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_wer_max",
			Help: "Highest per-utterance WER",
		}, labels),
		Scored: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_utterances_scored",
			Help: "Utterances included in the corpus WER",
		}, labels),
		Excluded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_utterances_excluded",
			Help: "Utterances skipped for having an empty reference",
		}, labels),
		ReferenceWords: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_reference_words",
			Help: "Reference words across scored utterances",
		}, labels),
		EditDistance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_edit_distance_total",
			Help: "Word edits across scored utterances",
		}, labels),
		LastRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asr_last_run_timestamp_seconds",
			Help: "Unix time of the latest scoring run",
		}, labels),
	}
}

// Registry exposes the underlying registry for gathering.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Observe sets every gauge for label from the corpus summary.
func (e *Exporter) Observe(label string, s wer.Summary) {
	e.GlobalWER.WithLabelValues(label).Set(s.GlobalWER)
	e.AverageWER.WithLabelValues(label).Set(s.AverageWER)
	e.MinWER.WithLabelValues(label).Set(s.MinWER)
	e.MaxWER.WithLabelValues(label).Set(s.MaxWER)
	e.Scored.WithLabelValues(label).Set(float64(s.Scored))
	e.Excluded.WithLabelValues(label).Set(float64(s.Excluded))
	e.ReferenceWords.WithLabelValues(label).Set(float64(s.TotalWords))
	e.EditDistance.WithLabelValues(label).Set(float64(s.TotalEdits))
	e.LastRun.WithLabelValues(label).SetToCurrentTime()
}

// WriteTextfile writes the registry to path atomically, creating parent
// directories as needed.
func (e *Exporter) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
