package payload

import (
	"io"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/sanket-telunagi/pyautos/internal/logging"
)

// FileReader abstracts filesystem reads so tests can inject failures.
type FileReader interface {
	Open(name string) (io.ReadCloser, error)
}

type defaultFileReader struct{}

func (defaultFileReader) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

// Loader reads JSON payload documents for body-bearing steps.
type Loader struct {
	reader FileReader
}

// NewLoader creates a loader backed by the real filesystem.
func NewLoader() *Loader {
	return NewLoaderWithReader(nil)
}

// NewLoaderWithReader creates a loader with an injected FileReader. A nil
// reader falls back to the filesystem.
func NewLoaderWithReader(r FileReader) *Loader {
	if r == nil {
		r = defaultFileReader{}
	}
	return &Loader{reader: r}
}

// Load reads the JSON document at dir/name. Failure is soft: a missing or
// unreadable file, or one that does not hold valid JSON, logs a warning and
// yields an empty JSON object so the step proceeds with a well-formed body
// instead of aborting the run.
func (l *Loader) Load(dir, name string) []byte {
	path := name
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	f, err := l.reader.Open(path)
	if err != nil {
		logging.Logf(logging.Warning, "Could not open payload file '%s': %v. Substituting an empty JSON object.", path, err)
		return emptyDocument()
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		logging.Logf(logging.Warning, "Could not read payload file '%s': %v. Substituting an empty JSON object.", path, err)
		return emptyDocument()
	}
	if !gjson.ValidBytes(data) {
		logging.Logf(logging.Warning, "Payload file '%s' does not contain valid JSON. Substituting an empty JSON object.", path)
		return emptyDocument()
	}
	return data
}

// emptyDocument returns a fresh copy so callers can never alias a shared
// fallback buffer.
func emptyDocument() []byte {
	return []byte("{}")
}
