package fs

import (
	"path/filepath"
	"regexp"

	"github.com/aretw0/tenor/pkg/core"
)

// Metadata keys derived from the file name.
const (
	KeyIdentifier = "identifier"
	KeyName       = "name"
	KeyExtension  = "extension"
	KeySource     = "source"
)

// filenamePattern is <identifier>-<name>.<extension>. The identifier stops
// at the first dash; the name may contain further dashes and dots.
var filenamePattern = regexp.MustCompile(`^([^-\s][^-]*)-(.+)\.([A-Za-z0-9]+)$`)

// ParseMetadata derives document metadata from the base name of path.
// Anything that does not follow <identifier>-<name>.<extension> fails with a
// *core.ParseError.
func ParseMetadata(path string) (core.Metadata, error) {
	base := filepath.Base(path)
	m := filenamePattern.FindStringSubmatch(base)
	if m == nil {
		return nil, &core.ParseError{Filename: base, Reason: "expected <identifier>-<name>.<extension>"}
	}
	return core.Metadata{
		KeyIdentifier: m[1],
		KeyName:       m[2],
		KeyExtension:  m[3],
		KeySource:     filepath.ToSlash(path),
	}, nil
}
