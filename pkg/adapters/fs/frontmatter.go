package fs

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/core"
)

// SplitFrontmatter separates a leading YAML block delimited by "---" lines
// from the body. Data without frontmatter is returned unchanged with empty
// metadata.
func SplitFrontmatter(data []byte) (core.Metadata, []byte, error) {
	meta := make(core.Metadata)

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return meta, data, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, nil, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return nil, nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if meta == nil {
		meta = make(core.Metadata)
	}

	body := parts[1]
	body = bytes.TrimPrefix(body, []byte("\r\n"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, body, nil
}
