package manifest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"asreval/internal/fileutil"
)

// Entry is one utterance record of a JSON-lines manifest.
type Entry struct {
	AudioFilepath string  `json:"audio_filepath"`
	Duration      float64 `json:"duration"`
	Text          string  `json:"text"`

	// Line is the 1-based line number the entry was read from.
	Line int `json:"-"`
	// Raw is the original line without its trailing newline. Write emits it
	// unchanged so fields this package does not model survive a rewrite.
	Raw string `json:"-"`
}

// SkippedLine records a line that could not be decoded.
type SkippedLine struct {
	Line int
	Err  error
}

// Manifest holds the decoded entries of a manifest file in file order.
type Manifest struct {
	Path    string
	Entries []Entry
	Skipped []SkippedLine
}

// Len returns the number of decoded entries.
func (m *Manifest) Len() int { return len(m.Entries) }

// TotalLines returns decoded plus skipped lines.
func (m *Manifest) TotalLines() int { return len(m.Entries) + len(m.Skipped) }

// References returns the transcript of every entry, in order.
func (m *Manifest) References() []string {
	refs := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		refs[i] = e.Text
	}
	return refs
}

// Read opens and decodes the manifest at path.
func Read(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Decode reads JSON-lines entries from r. Blank lines are ignored; lines that
// are not JSON objects are recorded in Skipped and do not abort the read.
func Decode(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	lineNum := 0
	err := eachLine(r, func(line string) {
		lineNum++
		if strings.TrimSpace(line) == "" {
			return
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			m.Skipped = append(m.Skipped, SkippedLine{Line: lineNum, Err: err})
			return
		}
		entry.Line = lineNum
		entry.Raw = line
		m.Entries = append(m.Entries, entry)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Write stores entries at path, one original line per entry. The file is
// replaced atomically.
func Write(path string, entries []Entry) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		for _, e := range entries {
			line := e.Raw
			if line == "" {
				encoded, err := json.Marshal(e)
				if err != nil {
					return fmt.Errorf("encode line %d: %w", e.Line, err)
				}
				line = string(encoded)
			}
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadPredictions reads one hypothesis per line with surrounding whitespace
// trimmed. Blank lines are kept as empty hypotheses so line N always pairs
// with manifest entry N.
func ReadPredictions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open predictions: %w", err)
	}
	defer f.Close()

	var hyps []string
	if err := eachLine(f, func(line string) {
		hyps = append(hyps, strings.TrimSpace(line))
	}); err != nil {
		return nil, fmt.Errorf("read predictions %s: %w", path, err)
	}
	return hyps, nil
}

// eachLine calls fn for every line of r without its line terminator. A final
// line lacking a newline is still delivered; no line length limit applies.
func eachLine(r io.Reader, fn func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			fn(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
