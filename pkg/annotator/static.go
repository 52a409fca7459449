package annotator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/core"
)

// Static answers from a fixed table of paragraph text to sentences.
// Lookups trim surrounding whitespace. It is read-only and safe for
// concurrent use.
type Static struct {
	responses map[string][]core.SentenceResult
}

// NewStatic copies responses into a new Static engine.
func NewStatic(responses map[string][]core.SentenceResult) *Static {
	s := &Static{responses: make(map[string][]core.SentenceResult, len(responses))}
	for k, v := range responses {
		s.responses[strings.TrimSpace(k)] = append([]core.SentenceResult(nil), v...)
	}
	return s
}

// LoadStatic reads a YAML list of fixtures:
//
//   - paragraph: "Hello world. Good day."
//     sentences:
//   - {text: "Hello world.", label: Positive}
//   - {text: "Good day.", label: Neutral}
//
// Labels go through core.ParseLabel, so engine spellings are accepted.
func LoadStatic(r io.Reader) (*Static, error) {
	var fixtures []struct {
		Paragraph string `yaml:"paragraph"`
		Sentences []struct {
			Text  string `yaml:"text"`
			Label string `yaml:"label"`
		} `yaml:"sentences"`
	}
	if err := yaml.NewDecoder(r).Decode(&fixtures); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	responses := make(map[string][]core.SentenceResult, len(fixtures))
	for i, f := range fixtures {
		out := make([]core.SentenceResult, len(f.Sentences))
		for j, s := range f.Sentences {
			label, ok := core.ParseLabel(s.Label)
			if !ok {
				return nil, fmt.Errorf("fixture %d sentence %d: unknown label %q", i, j, s.Label)
			}
			out[j] = core.SentenceResult{Text: s.Text, Label: label}
		}
		responses[f.Paragraph] = out
	}
	return NewStatic(responses), nil
}

// Concurrency reports that a Static engine needs no guard.
func (s *Static) Concurrency() core.Concurrency { return core.Reentrant }

// Annotate implements core.Annotator.
func (s *Static) Annotate(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	out, ok := s.responses[strings.TrimSpace(paragraph)]
	if !ok {
		return nil, &core.AnnotationError{Sentence: -1, Reason: "no canned response for paragraph"}
	}
	return append([]core.SentenceResult(nil), out...), nil
}
