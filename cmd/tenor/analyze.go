package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/tenor/internal/platform"
	"github.com/aretw0/tenor/pkg/render"
)

var showState bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Annotate documents with sentence-level sentiment",
	Long: `Annotate every document found under the given files and directories.

Directories are walked and filtered by --include. Each file name must look
like <identifier>-<name>.<extension>. Results are printed in input order, or
written one file per document with --out.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fatal("loading config", err)
		}
		renderer, err := render.Lookup(cfg.Format)
		if err != nil {
			fatal("selecting format", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		outcomes, runner, err := platform.Analyze(ctx, args,
			platform.WithConfig(cfg),
			platform.WithLogger(slog.Default()),
		)
		if showState && runner != nil {
			printState(runner.State())
		}
		if err != nil {
			fatal("analyzing documents", err)
		}

		if cfg.Out != "" {
			paths, err := platform.Export(ctx, outcomes, renderer, cfg.Out, platform.WithLogger(slog.Default()))
			if err != nil {
				fatal("writing results", err)
			}
			for _, p := range paths {
				fmt.Println(p)
			}
		} else if err := renderer.Run(os.Stdout, outcomes); err != nil {
			fatal("rendering results", err)
		}

		for _, o := range outcomes {
			if o.Err != nil {
				os.Exit(1)
			}
		}
	},
}

func printState(state any) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		slog.Warn("state not serializable", "error", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&flagFormat, "format", "f", "json", fmt.Sprintf("Output format %v", render.Names()))
	f.StringVarP(&flagOut, "out", "o", "", "Write one file per document into this directory")
	f.IntVarP(&flagWorkers, "workers", "w", 0, "Pool size (0 = two more than the CPU count)")
	f.StringVar(&flagPolicy, "policy", "fail-fast", "On document failure: fail-fast or isolate")
	f.StringVar(&flagInclude, "include", "", "Glob for files inside directories (default **/*.{txt,md})")
	f.StringVarP(&flagAnnotator, "annotator", "a", platform.KindLexicon, "Engine: lexicon, corenlp or static")
	f.StringVar(&flagConcurrency, "concurrency", "", "Override engine concurrency: reentrant, serialized or per-worker")
	f.StringVar(&flagCoreNLPURL, "corenlp-url", "", "CoreNLP server URL")
	f.StringVar(&flagLexicon, "lexicon", "", "YAML lexicon for the lexicon engine")
	f.StringVar(&flagFixtures, "fixtures", "", "YAML fixtures for the static engine")
	f.Float64Var(&flagRate, "rate", 0, "Max engine calls per second (0 = unlimited)")
	f.IntVar(&flagBurst, "burst", 1, "Rate limiter burst")
	f.BoolVar(&showState, "state", false, "Print runner state as JSON on stderr")

	rootCmd.AddCommand(analyzeCmd)
}
