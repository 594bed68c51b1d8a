// Package perflog records timing observations as plain text lines of the
// form "<label> login took: <ms> ms". The file is append only.
package perflog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const separator = " login took: "

// ErrMalformedLine is returned for lines that are not timing records
var ErrMalformedLine = errors.New("malformed performance log line")

// Record is one timing observation
type Record struct {
	Label   string
	Elapsed time.Duration
}

// String renders the record without a trailing newline
func (r Record) String() string {
	return fmt.Sprintf("%s%s%d ms", r.Label, separator, r.Elapsed.Milliseconds())
}

// ParseLine parses a single record line
func ParseLine(line string) (Record, error) {
	label, rest, ok := strings.Cut(strings.TrimRight(line, "\r\n"), separator)
	if !ok || label == "" {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	msText, ok := strings.CutSuffix(rest, " ms")
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	ms, err := strconv.ParseInt(msText, 10, 64)
	if err != nil || ms < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return Record{Label: label, Elapsed: time.Duration(ms) * time.Millisecond}, nil
}

// Writer appends records to a log file. Appends within the process are
// serialised, and each line goes out in a single O_APPEND write so lines
// from other processes never interleave with ours.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter returns a Writer for path. The file is created on first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the log file location
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record line
func (w *Writer) Append(r Record) error {
	if strings.ContainsAny(r.Label, "\r\n") {
		return fmt.Errorf("%w: label contains a line break", ErrMalformedLine)
	}
	line := []byte(r.String() + "\n")

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create performance log directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open performance log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to append performance record: %w", err)
	}
	return f.Close()
}

// Read parses every record in r. Blank lines are skipped.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := ParseLine(text)
		if err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

// ReadFile parses the log at path. A missing file holds no records.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open performance log: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Stats aggregates the records sharing a label
type Stats struct {
	Label string
	Count int
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
}

// Summarize groups records by label, sorted by label
func Summarize(records []Record) []Stats {
	byLabel := map[string]*Stats{}
	totals := map[string]time.Duration{}
	for _, r := range records {
		s, ok := byLabel[r.Label]
		if !ok {
			s = &Stats{Label: r.Label, Min: r.Elapsed, Max: r.Elapsed}
			byLabel[r.Label] = s
		}
		s.Count++
		s.Min = min(s.Min, r.Elapsed)
		s.Max = max(s.Max, r.Elapsed)
		totals[r.Label] += r.Elapsed
	}

	stats := make([]Stats, 0, len(byLabel))
	for label, s := range byLabel {
		s.Mean = totals[label] / time.Duration(s.Count)
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Label < stats[j].Label })
	return stats
}
