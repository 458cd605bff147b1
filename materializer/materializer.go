package materializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bionotebook/seeddata/constants/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Producer builds the full content of one artifact.
type Producer func(ctx context.Context) ([]byte, error)

// BundleProducer builds the content of several artifacts from a single run,
// keyed by absolute path.
type BundleProducer func(ctx context.Context) (map[string][]byte, error)

// Status is the outcome of materializing one artifact.
type Status int

const (
	StatusSkipped Status = iota
	StatusWritten
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusWritten:
		return "written"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Report describes what happened to one path.
type Report struct {
	Path   string
	Status Status
	Bytes  int
	Err    error
}

// Materializer writes artifacts that are absent or empty and leaves every
// non-empty file untouched.
type Materializer struct {
	out     io.Writer
	logger  *zap.SugaredLogger
	stats   *Stats
	printer *message.Printer
}

// New creates a Materializer printing progress lines to out.
func New(out io.Writer, logger *zap.SugaredLogger) *Materializer {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Materializer{out: out, logger: logger, stats: newStats(), printer: message.NewPrinter(language.English)}
}

// Present reports whether path holds a regular file with size > 0.
func Present(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// Ensure produces path unless it is already present. Failures are logged and
// returned in the report; they never panic or abort the caller.
// Tag names the kind of work in the progress line, e.g. "NCBI" or "generating".
func (m *Materializer) Ensure(ctx context.Context, path, tag, label string, produce Producer) Report {
	name := filepath.Base(path)
	if Present(path) {
		m.stats.recordSkip()
		m.skip(name)
		return Report{Path: path, Status: StatusSkipped}
	}
	if label == "" {
		label = name
	}
	if tag == "" {
		tag = "fetch"
	}
	m.progress(tag, label)

	data, err := produce(ctx)
	if err == nil {
		err = writeFile(path, data)
	}
	if err != nil {
		return m.fail(path, err)
	}
	return m.written(path, len(data))
}

// EnsureBundle runs produce once when any of paths is missing and writes only
// the missing members. The bundle is skipped when every member is present.
func (m *Materializer) EnsureBundle(ctx context.Context, paths []string, label string, produce BundleProducer) []Report {
	var missing []string
	for _, p := range paths {
		if !Present(p) {
			missing = append(missing, p)
		}
	}

	reports := make([]Report, 0, len(paths))
	if len(missing) == 0 {
		m.skip(label)
		for _, p := range paths {
			m.stats.recordSkip()
			reports = append(reports, Report{Path: p, Status: StatusSkipped})
		}
		return reports
	}

	m.progress("generating", label)
	contents, err := produce(ctx)
	if err != nil {
		for _, p := range paths {
			if Present(p) {
				m.stats.recordSkip()
				reports = append(reports, Report{Path: p, Status: StatusSkipped})
				continue
			}
			reports = append(reports, m.fail(p, err))
		}
		return reports
	}

	for _, p := range paths {
		if Present(p) {
			m.stats.recordSkip()
			reports = append(reports, Report{Path: p, Status: StatusSkipped})
			continue
		}
		data, ok := contents[p]
		if !ok {
			reports = append(reports, m.fail(p, fmt.Errorf("generator produced no content for %s", filepath.Base(p))))
			continue
		}
		if err := writeFile(p, data); err != nil {
			reports = append(reports, m.fail(p, err))
			continue
		}
		reports = append(reports, m.written(p, len(data)))
	}
	return reports
}

// Stats returns a snapshot of the counters accumulated so far.
func (m *Materializer) Stats() Snapshot {
	return m.stats.snapshot()
}

// RecordFallback notes that an artifact was produced from a fallback source.
func (m *Materializer) RecordFallback() {
	m.stats.recordFallback()
}

func (m *Materializer) progress(tag, label string) {
	fmt.Fprintln(m.out, lipgloss.BlueSky.Render(fmt.Sprintf("  [%s] ", tag))+label+"...")
}

func (m *Materializer) skip(name string) {
	fmt.Fprintln(m.out, lipgloss.Gray.Render(fmt.Sprintf("  [skip] %s already exists", name)))
}

func (m *Materializer) written(path string, n int) Report {
	m.stats.recordWrite(n)
	fmt.Fprintln(m.out, lipgloss.Green.Render(m.printer.Sprintf("           -> %d bytes", n)))
	return Report{Path: path, Status: StatusWritten, Bytes: n}
}

func (m *Materializer) fail(path string, err error) Report {
	m.stats.recordFailure()
	fmt.Fprintln(m.out, lipgloss.Red.Render(fmt.Sprintf("  [ERROR] %v", err)))
	m.logger.Errorw("artifact not produced", "path", path, "error", err)
	return Report{Path: path, Status: StatusFailed, Err: err}
}

// writeFile creates parent directories and writes data. A failed write may
// leave a truncated file behind; the next run retries only if it is empty.
func writeFile(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("refusing to write empty content to %s", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Artifact describes a file on disk as seen by Inspect.
type Artifact struct {
	Path    string
	Present bool
	Size    int64
}

// Inspect stats each path without reading content. Missing files are not
// an error.
func Inspect(paths []string) ([]Artifact, error) {
	out := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			out = append(out, Artifact{Path: p})
		case err != nil:
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		default:
			out = append(out, Artifact{Path: p, Present: info.Mode().IsRegular() && info.Size() > 0, Size: info.Size()})
		}
	}
	return out, nil
}
