package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// TempFilePrefix marks in-progress output files.
const TempFilePrefix = "tenor-tmp-"

// Output is one rendered document waiting to be written.
type Output struct {
	ID   string
	Data []byte
}

// Writer stores rendered documents as DIR/<stem>.<ext>, where stem is the
// document identifier without its extension.
type Writer struct {
	dir    string
	ext    string
	perm   os.FileMode
	limit  int
	logger *slog.Logger

	written atomic.Int64
	failed  atomic.Int64
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithPerm sets the file mode of written files. Defaults to 0644.
func WithPerm(perm os.FileMode) WriterOption {
	return func(w *Writer) { w.perm = perm }
}

// WithConcurrency bounds how many files are written at once. Defaults to 4.
func WithConcurrency(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.limit = n
		}
	}
}

// WithWriterLogger sets the logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWriter creates a Writer for dir. ext is used without a leading dot.
func NewWriter(dir, ext string, opts ...WriterOption) *Writer {
	w := &Writer{
		dir:    dir,
		ext:    strings.TrimPrefix(ext, "."),
		perm:   0644,
		limit:  4,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(slog.String("component", "writer"))
	return w
}

// Target returns the path a document with this identifier is written to.
func (w *Writer) Target(id string) string {
	stem := strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))
	return filepath.Join(w.dir, stem+"."+w.ext)
}

// WriteAll writes every output concurrently and returns the written paths in
// input order. Two outputs that map to the same target are rejected before
// anything is written. Each file is replaced atomically, so a reader never
// observes a partially written result.
func (w *Writer) WriteAll(ctx context.Context, outputs []Output) ([]string, error) {
	targets := make([]string, len(outputs))
	owner := make(map[string]string, len(outputs))
	for i, o := range outputs {
		t := w.Target(o.ID)
		if prev, ok := owner[t]; ok {
			return nil, fmt.Errorf("documents %s and %s both write %s", prev, o.ID, t)
		}
		owner[t] = o.ID
		targets[i] = t
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit)
	for i, o := range outputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := replaceFile(targets[i], o.Data, w.perm); err != nil {
				w.failed.Add(1)
				return fmt.Errorf("write %s: %w", o.ID, err)
			}
			w.written.Add(1)
			w.logger.Debug("output written", "document", o.ID, "path", targets[i], "bytes", len(o.Data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return targets, nil
}

// replaceFile writes data next to target under a temporary name, syncs it and
// renames it into place. The temporary file is removed on every failure path.
func replaceFile(target string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename into %s: %w", target, err)
	}
	return nil
}
