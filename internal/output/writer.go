package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText   = "text"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

type encoder interface {
	Encode(v interface{}) error
}

// Writer handles streaming records to a file or io.Writer in one format.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	format    string
	encoder   encoder
	flush     func() error
	count     int
	closeFunc func() error
}

// NewWriter creates a new NDJSON writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		output:  w,
		format:  FormatNDJSON,
		encoder: json.NewEncoder(w),
	}
}

// NewYAMLWriter creates a writer that emits one YAML document per record.
func NewYAMLWriter(w io.Writer) *Writer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Writer{
		output:  w,
		format:  FormatYAML,
		encoder: enc,
		flush:   enc.Close,
	}
}

// NewTextWriter creates a writer for human readable lines.
func NewTextWriter(w io.Writer) *Writer {
	return &Writer{
		output:  w,
		format:  FormatText,
		encoder: &textEncoder{w: w},
	}
}

// New creates a writer for format.
func New(format string, w io.Writer) (*Writer, error) {
	switch format {
	case FormatNDJSON:
		return NewWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	case FormatText, "":
		return NewTextWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// NewFileWriter creates a writer for format that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(format, filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := New(format, file)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(filename)
		return nil, err
	}
	w.closeFunc = file.Close
	return w, nil
}

// Write writes a single record.
func (w *Writer) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Format returns the output format of the writer.
func (w *Writer) Format() string {
	return w.format
}

// Close flushes the encoder and closes the underlying writer if it's a file.
// Calling Close more than once is safe.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if w.flush != nil {
		errs = append(errs, w.flush())
		w.flush = nil
	}
	if w.closeFunc != nil {
		errs = append(errs, w.closeFunc())
		w.closeFunc = nil
	}
	return errors.Join(errs...)
}

// TextRecord is implemented by records with a human readable form.
type TextRecord interface {
	TextLine() string
}

type textEncoder struct {
	w io.Writer
}

func (e *textEncoder) Encode(v interface{}) error {
	var line string
	switch r := v.(type) {
	case TextRecord:
		line = r.TextLine()
	case fmt.Stringer:
		line = r.String()
	default:
		line = fmt.Sprintf("%v", v)
	}
	_, err := fmt.Fprintln(e.w, line)
	return err
}
