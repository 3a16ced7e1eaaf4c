package manifest

import (
	"regexp"
	"strings"

	"asreval/internal/textutil"
)

// OtherSource labels entries no source rule matched.
const OtherSource = "Other"

// SourceRule assigns entries to a named source when the lowercased audio path
// contains any of its patterns.
type SourceRule struct {
	Name     string
	Patterns []string
}

// InspectOptions configures Inspect.
type InspectOptions struct {
	Sources     []SourceRule
	MaxDuration float64
	// Foreign matches disallowed characters, see textutil.CompileCharset.
	Foreign     *regexp.Regexp
	SampleLimit int
}

// SourceCount is the number of entries attributed to one source.
type SourceCount struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Report summarizes a manifest's sources, durations and transcript hygiene.
type Report struct {
	Path            string        `json:"path"`
	TotalLines      int           `json:"total_lines"`
	Entries         int           `json:"entries"`
	SkippedLines    []int         `json:"skipped_lines,omitempty"`
	Sources         []SourceCount `json:"sources"`
	TotalDuration   float64       `json:"total_duration_seconds"`
	AverageDuration float64       `json:"average_duration_seconds"`
	MaxDuration     float64       `json:"max_duration_seconds"`
	DurationLimit   float64       `json:"duration_limit_seconds"`
	OverLimit       int           `json:"over_limit"`
	ForeignChars    []string      `json:"foreign_chars,omitempty"`
	DirtySamples    []string      `json:"dirty_samples,omitempty"`
}

// TotalHours returns the summed audio duration in hours.
func (r Report) TotalHours() float64 { return r.TotalDuration / 3600 }

// Clean reports whether no transcript contained foreign characters.
func (r Report) Clean() bool { return len(r.ForeignChars) == 0 }

// Inspect builds a report over every decoded entry of m.
func Inspect(m *Manifest, opts InspectOptions) Report {
	report := Report{
		Path:          m.Path,
		TotalLines:    m.TotalLines(),
		Entries:       len(m.Entries),
		DurationLimit: opts.MaxDuration,
	}
	for _, s := range m.Skipped {
		report.SkippedLines = append(report.SkippedLines, s.Line)
	}

	counts := make(map[string]int, len(opts.Sources)+1)
	seenChars := make(map[string]struct{})
	for i, e := range m.Entries {
		counts[classify(e.AudioFilepath, opts.Sources)]++

		report.TotalDuration += e.Duration
		if i == 0 || e.Duration > report.MaxDuration {
			report.MaxDuration = e.Duration
		}
		if e.Duration > opts.MaxDuration {
			report.OverLimit++
		}

		text := textutil.Fold(e.Text)
		foreign := textutil.ForeignRunes(text, opts.Foreign)
		if len(foreign) == 0 {
			continue
		}
		for _, ch := range foreign {
			if _, ok := seenChars[ch]; ok {
				continue
			}
			seenChars[ch] = struct{}{}
			report.ForeignChars = append(report.ForeignChars, ch)
		}
		if len(report.DirtySamples) < opts.SampleLimit {
			report.DirtySamples = append(report.DirtySamples, text)
		}
	}

	if report.Entries > 0 {
		report.AverageDuration = report.TotalDuration / float64(report.Entries)
	}
	report.Sources = sourceCounts(counts, opts.Sources, report.Entries)
	return report
}

func classify(path string, rules []SourceRule) string {
	path = strings.ToLower(path)
	for _, rule := range rules {
		for _, p := range rule.Patterns {
			if p != "" && strings.Contains(path, strings.ToLower(p)) {
				return rule.Name
			}
		}
	}
	return OtherSource
}

// sourceCounts lists non-empty sources in rule order, Other last.
func sourceCounts(counts map[string]int, rules []SourceRule, total int) []SourceCount {
	names := make([]string, 0, len(rules)+1)
	seen := make(map[string]struct{}, len(rules)+1)
	for _, rule := range rules {
		if _, ok := seen[rule.Name]; ok {
			continue
		}
		seen[rule.Name] = struct{}{}
		names = append(names, rule.Name)
	}
	if _, ok := seen[OtherSource]; !ok {
		names = append(names, OtherSource)
	}

	out := make([]SourceCount, 0, len(names))
	for _, name := range names {
		n := counts[name]
		if n == 0 {
			continue
		}
		out = append(out, SourceCount{
			Name:    name,
			Count:   n,
			Percent: float64(n) / float64(total) * 100,
		})
	}
	return out
}
