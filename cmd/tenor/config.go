package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/tenor/internal/platform"
)

// Flags shared by analyze and inspect. They override the config file only
// when set on the command line.
var (
	flagWorkers     int
	flagPolicy      string
	flagFormat      string
	flagOut         string
	flagInclude     string
	flagAnnotator   string
	flagConcurrency string
	flagCoreNLPURL  string
	flagLexicon     string
	flagFixtures    string
	flagRate        float64
	flagBurst       int
)

// loadConfig reads --config, or the nearest tenor.yaml, then applies the
// flags that were set and validates the result.
func loadConfig(cmd *cobra.Command) (platform.Config, error) {
	cfg := platform.DefaultConfig()

	path := configPath
	if path == "" {
		found, err := platform.FindConfig(".")
		switch {
		case err == nil:
			path = found
		case !errors.Is(err, platform.ErrConfigNotFound):
			return cfg, err
		}
	}
	if path != "" {
		loaded, err := platform.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		slog.Debug("config loaded", "path", path)
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("workers", func() { cfg.Workers = flagWorkers })
	set("policy", func() { cfg.Policy = flagPolicy })
	set("format", func() { cfg.Format = flagFormat })
	set("out", func() { cfg.Out = flagOut })
	set("include", func() { cfg.Include = flagInclude })
	set("annotator", func() { cfg.Annotator.Kind = flagAnnotator })
	set("concurrency", func() { cfg.Annotator.Concurrency = flagConcurrency })
	set("corenlp-url", func() { cfg.Annotator.URL = flagCoreNLPURL })
	set("lexicon", func() { cfg.Annotator.Lexicon = flagLexicon })
	set("fixtures", func() { cfg.Annotator.Fixtures = flagFixtures })
	set("rate", func() { cfg.Annotator.Rate = flagRate })
	set("burst", func() { cfg.Annotator.Burst = flagBurst })

	return cfg, cfg.Validate()
}
