// Package core holds the annotation domain: documents, sentiment labels,
// the Annotator capability and the error taxonomy shared by every stage.
package core

import (
	"maps"
	"strings"
)

// Metadata represents the flexible key-value pairs associated with a document.
type Metadata map[string]any

// Clone returns a shallow copy so callers never alias the source map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}

// Document is a segmented input document.
// It is created once per input path and never mutated after segmentation.
type Document struct {
	ID         string
	Metadata   Metadata
	Paragraphs []string
}

// SentimentLabel is one of the five sentence polarity classes.
type SentimentLabel string

const (
	VeryNegative SentimentLabel = "Very negative"
	Negative     SentimentLabel = "Negative"
	Neutral      SentimentLabel = "Neutral"
	Positive     SentimentLabel = "Positive"
	VeryPositive SentimentLabel = "Very positive"
)

// Labels lists the closed label set from most negative to most positive.
func Labels() []SentimentLabel {
	return []SentimentLabel{VeryNegative, Negative, Neutral, Positive, VeryPositive}
}

// Valid reports whether l belongs to the closed label set.
func (l SentimentLabel) Valid() bool {
	switch l {
	case VeryNegative, Negative, Neutral, Positive, VeryPositive:
		return true
	}
	return false
}

// Rank maps the label to 0 (very negative) through 4 (very positive), or -1.
func (l SentimentLabel) Rank() int {
	for i, v := range Labels() {
		if v == l {
			return i
		}
	}
	return -1
}

func (l SentimentLabel) String() string { return string(l) }

// ParseLabel accepts the engine spellings seen in the wild
// ("Verynegative", "very_positive", "VeryPositive", "2") and returns the
// canonical label.
func ParseLabel(s string) (SentimentLabel, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "verynegative", "0":
		return VeryNegative, true
	case "negative", "1":
		return Negative, true
	case "neutral", "2":
		return Neutral, true
	case "positive", "3":
		return Positive, true
	case "verypositive", "4":
		return VeryPositive, true
	}
	return "", false
}

// SentenceResult is one labelled sentence. Values are never mutated after
// the Annotator returns them.
type SentenceResult struct {
	Text  string         `json:"text" yaml:"text"`
	Label SentimentLabel `json:"label" yaml:"label"`
}

// Paragraph is the annotated form of one source paragraph.
type Paragraph struct {
	Index     int              `json:"index" yaml:"index"`
	Sentences []SentenceResult `json:"sentences" yaml:"sentences"`
}

// AnnotatedDocument is the final record for one document.
type AnnotatedDocument struct {
	ID         string      `json:"id" yaml:"id"`
	Metadata   Metadata    `json:"metadata" yaml:"metadata"`
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs"`
}

// SentenceCount returns the number of sentences across all paragraphs.
func (d *AnnotatedDocument) SentenceCount() int {
	n := 0
	for _, p := range d.Paragraphs {
		n += len(p.Sentences)
	}
	return n
}

// LabelCounts tallies sentences per label.
func (d *AnnotatedDocument) LabelCounts() map[SentimentLabel]int {
	counts := make(map[SentimentLabel]int, len(Labels()))
	for _, p := range d.Paragraphs {
		for _, s := range p.Sentences {
			counts[s.Label]++
		}
	}
	return counts
}

// Outcome pairs a document identifier with either its record or its failure.
type Outcome struct {
	ID       string
	Document *AnnotatedDocument
	Err      error
}
