// Package fs adapts the local filesystem to the annotation pipeline: it finds
// input documents, loads and segments them, and writes rendered results.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/tenor/pkg/core"
)

// Loader reads documents from disk. It implements core.Loader.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger selects slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load parses the file name into metadata, strips and merges any YAML
// frontmatter, and segments the body into paragraphs. File name keys take
// precedence over frontmatter keys of the same name.
func (l *Loader) Load(ctx context.Context, path string) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}

	meta, err := ParseMetadata(path)
	if err != nil {
		return core.Document{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	front, body, err := SplitFrontmatter(data)
	if err != nil {
		return core.Document{}, &core.ParseError{Filename: filepath.Base(path), Reason: err.Error()}
	}
	for k, v := range meta {
		front[k] = v
	}

	doc := core.Document{
		ID:         filepath.Base(path),
		Metadata:   front,
		Paragraphs: Segment(string(body)),
	}
	l.logger.Debug("document loaded", "path", path, "paragraphs", len(doc.Paragraphs))
	return doc, nil
}

var _ core.Loader = (*Loader)(nil)
