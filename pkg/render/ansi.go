package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/tenor/pkg/core"
)

var labelColors = map[core.SentimentLabel]lipgloss.Color{
	core.VeryNegative: lipgloss.Color("#D7263D"),
	core.Negative:     lipgloss.Color("#F46036"),
	core.Neutral:      lipgloss.Color("#8D99AE"),
	core.Positive:     lipgloss.Color("#2E9E5B"),
	core.VeryPositive: lipgloss.Color("#1B998B"),
}

// ANSI renders documents for a terminal, one colour per label. Colour is
// dropped automatically when the destination is not a colour terminal.
type ANSI struct{}

func (ANSI) Name() string      { return "ansi" }
func (ANSI) Extension() string { return "ansi" }

func (a ANSI) Document(doc *core.AnnotatedDocument) ([]byte, error) {
	return []byte(a.render(lipgloss.DefaultRenderer(), doc)), nil
}

func (a ANSI) Run(w io.Writer, outcomes []core.Outcome) error {
	r := lipgloss.NewRenderer(w)
	failed := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	for i, o := range outcomes {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		var out string
		if o.Err != nil || o.Document == nil {
			out = failed.Render("✗ "+o.ID) + " " + NewRecord(o).Error + "\n"
		} else {
			out = a.render(r, o.Document)
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}

func (ANSI) render(r *lipgloss.Renderer, doc *core.AnnotatedDocument) string {
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	dim := r.NewStyle().Foreground(lipgloss.Color("#888888"))

	var b strings.Builder
	b.WriteString(title.Render(doc.ID))
	b.WriteString(" ")
	b.WriteString(dim.Render(fmt.Sprintf("(%d paragraphs, %d sentences)", len(doc.Paragraphs), doc.SentenceCount())))
	b.WriteString("\n")
	for _, p := range doc.Paragraphs {
		b.WriteString(dim.Render(fmt.Sprintf("¶%d", p.Index+1)))
		b.WriteString("\n")
		for _, s := range p.Sentences {
			label := r.NewStyle().Bold(true).Foreground(labelColors[s.Label])
			b.WriteString("  ")
			b.WriteString(label.Render("[" + s.Label.String() + "]"))
			b.WriteString(" ")
			b.WriteString(s.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
