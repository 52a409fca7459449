package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aretw0/tenor/internal/platform"
	"github.com/aretw0/tenor/pkg/adapters/fs"
)

var inspectJSON bool

type inspectRow struct {
	Path       string         `json:"path"`
	ID         string         `json:"id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Paragraphs int            `json:"paragraphs"`
	Error      string         `json:"error,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [paths...]",
	Short: "Show parsed metadata and paragraph counts without annotating",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal("loading config", err)
		}

		items, err := platform.Inspect(context.Background(), args,
			platform.WithConfig(cfg),
			platform.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("inspecting documents", err)
		}

		rows := make([]inspectRow, len(items))
		failed := false
		for i, it := range items {
			rows[i] = inspectRow{
				Path:       it.Path,
				ID:         it.Document.ID,
				Metadata:   it.Document.Metadata,
				Paragraphs: len(it.Document.Paragraphs),
			}
			if it.Err != nil {
				rows[i].Error = it.Err.Error()
				failed = true
			}
		}

		if inspectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rows); err != nil {
				fatal("encoding output", err)
			}
		} else {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Path", "Identifier", "Name", "Paragraphs", "Status"})
			for _, r := range rows {
				status := "ok"
				if r.Error != "" {
					status = r.Error
				}
				t.AppendRow(table.Row{r.Path, r.Metadata[fs.KeyIdentifier], r.Metadata[fs.KeyName], r.Paragraphs, status})
			}
			t.Render()
		}

		if failed {
			fmt.Fprintln(os.Stderr, "some documents could not be loaded")
			os.Exit(1)
		}
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output as JSON")
	inspectCmd.Flags().StringVar(&flagInclude, "include", "", "Glob for files inside directories (default **/*.{txt,md})")
	rootCmd.AddCommand(inspectCmd)
}
