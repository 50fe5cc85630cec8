package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sanket-telunagi/pyautos/internal/logging"
)

// FileName is the shared raw request/response log. The file is opened in
// append mode, so history accumulates across runs.
const FileName = "api_responses.log"

// Log records the raw request and response text of every executed step.
type Log struct {
	w      io.Writer
	closer io.Closer
}

// Open creates or opens the diagnostic log under dir (the current directory
// when dir is empty) and appends a header for this run.
func Open(dir, runID string) (*Log, error) {
	path := FileName
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory '%s': %w", dir, err)
		}
		path = filepath.Join(dir, FileName)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostic log '%s': %w", path, err)
	}
	l := &Log{w: f, closer: f}
	l.writef("=== Run %s started %s ===\n\n", runID, time.Now().Format(time.RFC3339))
	return l, nil
}

// NewWithWriter wraps an arbitrary writer. Used by tests.
func NewWithWriter(w io.Writer) *Log {
	return &Log{w: w}
}

// LogStep appends one entry of raw request and response text. Write errors
// are reported through the logger and otherwise swallowed: a broken
// diagnostic log must never affect the run's results.
func (l *Log) LogStep(name, requestLine, responseText string) {
	l.writef("API: %s\nRequest: %s\nResponse: %s\n\n", name, requestLine, responseText)
}

// Close releases the underlying file, if any.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Log) writef(format string, v ...interface{}) {
	if _, err := fmt.Fprintf(l.w, format, v...); err != nil {
		logging.Logf(logging.Error, "Failed to write diagnostic log entry: %v", err)
	}
}
