package render

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/aretw0/tenor/pkg/core"
)

// Table renders a label histogram, one row per document, with totals in the
// footer. With Markdown set it emits a GitHub-flavoured markdown table.
type Table struct {
	Markdown bool
}

func (t Table) Name() string {
	if t.Markdown {
		return "table-md"
	}
	return "table"
}

func (t Table) Extension() string {
	if t.Markdown {
		return "md"
	}
	return "txt"
}

func (t Table) Document(doc *core.AnnotatedDocument) ([]byte, error) {
	return []byte(t.build([]core.Outcome{{ID: doc.ID, Document: doc}}) + "\n"), nil
}

func (t Table) Run(w io.Writer, outcomes []core.Outcome) error {
	_, err := io.WriteString(w, t.build(outcomes)+"\n")
	return err
}

func (t Table) build(outcomes []core.Outcome) string {
	labels := core.Labels()

	tw := table.NewWriter()
	if !t.Markdown {
		tw.SetStyle(table.StyleLight)
	}

	header := table.Row{"Document", "Paragraphs", "Sentences"}
	for _, l := range labels {
		header = append(header, l.String())
	}
	header = append(header, "Status")
	tw.AppendHeader(header)

	totals := make([]int, len(labels))
	var paragraphs, sentences, failed int
	for _, o := range outcomes {
		if o.Err != nil || o.Document == nil {
			failed++
			row := table.Row{o.ID, "-", "-"}
			for range labels {
				row = append(row, "-")
			}
			tw.AppendRow(append(row, "failed: "+NewRecord(o).Error))
			continue
		}
		counts := o.Document.LabelCounts()
		row := table.Row{o.ID, len(o.Document.Paragraphs), o.Document.SentenceCount()}
		for i, l := range labels {
			row = append(row, counts[l])
			totals[i] += counts[l]
		}
		paragraphs += len(o.Document.Paragraphs)
		sentences += o.Document.SentenceCount()
		tw.AppendRow(append(row, "ok"))
	}

	footer := table.Row{"Total", paragraphs, sentences}
	for _, n := range totals {
		footer = append(footer, n)
	}
	status := "ok"
	if failed > 0 {
		status = "failed: " + strconv.Itoa(failed)
	}
	tw.AppendFooter(append(footer, status))

	configs := make([]table.ColumnConfig, 0, len(labels)+2)
	for n := 2; n <= len(labels)+3; n++ {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	if t.Markdown {
		return tw.RenderMarkdown()
	}
	return tw.Render()
}
