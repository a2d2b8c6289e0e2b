// Package tabular provides row-oriented access to flat tabular files.
//
// Every pipeline stage reads and writes through this package so the rest
// of the code stays format-agnostic. Files ending in ".gz" are
// transparently compressed. Writers flush and close on every exit path;
// there is no separate save step.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	// ErrMissingInput indicates a required source file is absent.
	ErrMissingInput = errors.New("input file not found")
	// ErrMissingColumn indicates a required column is absent from a header.
	ErrMissingColumn = errors.New("required column missing")
)

// Reader streams rows from a tabular file. The header row is consumed on
// open and exposed via Header.
type Reader struct {
	file   *os.File
	gz     *gzip.Reader
	csv    *csv.Reader
	header []string
	path   string
}

// Open opens a tabular file for reading and consumes its header row.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := &Reader{file: file, path: path}

	var src io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, gzErr := gzip.NewReader(file)
		if gzErr != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to open %s: %w", path, gzErr)
		}
		r.gz = gz
		src = gz
	}

	r.csv = csv.NewReader(src)
	r.csv.FieldsPerRecord = -1 // ragged rows surface as validation failures, not parse aborts

	header, err := r.csv.Read()
	if err != nil {
		_ = r.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file, no header row", path)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	r.header = header

	return r, nil
}

// Header returns the header row consumed on open.
func (r *Reader) Header() []string {
	return r.header
}

// Path returns the file path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Read returns the next data row, or io.EOF when the file is exhausted.
func (r *Reader) Read() ([]string, error) {
	return r.csv.Read()
}

// Cell returns row[i], or "" when the row is too short to have column i.
// Readers permit ragged rows, so every consumer must treat a missing cell
// as empty rather than index past the row's end.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// RequireColumns verifies that every named column exists in the header and
// returns a name → index map. A missing column is a structural error and
// must abort the run before any output is produced.
func (r *Reader) RequireColumns(names ...string) (map[string]int, error) {
	index := make(map[string]int, len(r.header))
	for i, col := range r.header {
		index[strings.TrimSpace(col)] = i
	}

	cols := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, name, r.path)
		}
		cols[name] = i
	}

	return cols, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	var errs []error
	if r.gz != nil {
		errs = append(errs, r.gz.Close())
	}
	if r.file != nil {
		errs = append(errs, r.file.Close())
	}
	return errors.Join(errs...)
}

// Writer streams rows into a tabular file. Close flushes all buffered
// rows; Flush may additionally be called mid-stream to bound the writer
// buffer without changing output contents.
type Writer struct {
	file *os.File
	gz   *gzip.Writer
	csv  *csv.Writer
	path string
}

// Create creates (or truncates) a tabular file, creating parent
// directories as needed, and writes the header row.
func Create(path string, header []string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := &Writer{file: file, path: path}

	var dst io.Writer = file
	if strings.HasSuffix(path, ".gz") {
		w.gz = gzip.NewWriter(file)
		dst = w.gz
	}
	w.csv = csv.NewWriter(dst)

	if err := w.csv.Write(header); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write header of %s: %w", path, err)
	}

	return w, nil
}

// Path returns the file path the writer was created with.
func (w *Writer) Path() string {
	return w.path
}

// Write appends one data row.
func (w *Writer) Write(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", w.path, err)
	}
	return nil
}

// Flush forces buffered rows to the underlying file.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}
	return nil
}

// Close flushes and releases the file. Safe to call once on every exit path.
func (w *Writer) Close() error {
	var errs []error
	errs = append(errs, w.Flush())
	if w.gz != nil {
		errs = append(errs, w.gz.Close())
	}
	if w.file != nil {
		errs = append(errs, w.file.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to close %s: %w", w.path, err)
	}
	return nil
}
