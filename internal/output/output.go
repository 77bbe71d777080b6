// Package output writes latency records to line-oriented streams.
package output

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"rtt-prober/internal/models"
)

// Stdout is the OutputPath value that selects standard output
const Stdout = "-"

// Writer streams records as tab-separated lines, one write per record
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// TSV creates a Writer on top of w
func TSV(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write emits "<timestamp>\t<host>\t<rtt>\n"
func (o *Writer) Write(rec models.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := io.WriteString(o.w, rec.String()+"\n"); err != nil {
		return errors.Wrap(err, "write record")
	}
	return nil
}

// FileWriter is a Writer that owns an append-mode file
type FileWriter struct {
	*Writer
	file afero.File
}

// OpenFile opens path for appending, creating it when needed. Stdout
// returns a writer on stdout whose Close is a no-op.
func OpenFile(fs afero.Fs, path string, stdout io.Writer) (*FileWriter, error) {
	if path == Stdout || path == "" {
		return &FileWriter{Writer: TSV(stdout)}, nil
	}

	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %s", path)
	}
	return &FileWriter{Writer: TSV(f), file: f}, nil
}

// Close closes the underlying file
func (o *FileWriter) Close() error {
	if o.file == nil {
		return nil
	}
	return o.file.Close()
}

type multi []models.Sink

// Multi fans every record out to sinks in order and stops at the first
// failing sink.
func Multi(sinks ...models.Sink) models.Sink {
	return multi(sinks)
}

func (m multi) Write(rec models.Record) error {
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
