package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/tenor"
	"github.com/aretw0/tenor/pkg/annotator"
	"github.com/aretw0/tenor/pkg/core"
)

func main() {
	count := flag.Int("count", 200, "Number of documents to generate")
	paragraphs := flag.Int("paragraphs", 12, "Paragraphs per document")
	latency := flag.Duration("latency", 2*time.Millisecond, "Simulated engine latency per paragraph")
	workers := flag.String("workers", "1,2,4,8", "Comma separated pool sizes to compare")
	keep := flag.Bool("keep", false, "Keep the benchmark corpus after running")
	flag.Parse()

	// 1. Setup corpus
	benchDir, err := os.MkdirTemp("", "tenor_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d documents in %s...\n", *count, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		var b strings.Builder
		for p := 0; p < *paragraphs; p++ {
			fmt.Fprintf(&b, "Paragraph %d brings peace. The war was terrible. It is Tuesday.\n\n", p)
		}
		filename := filepath.Join(benchDir, fmt.Sprintf("%05d-speech.txt", i))
		if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Engine: the lexicon plus a fixed delay, standing in for a remote model
	lexicon := annotator.NewLexicon()
	slow := core.AnnotatorFunc(func(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
		select {
		case <-time.After(*latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return lexicon.Annotate(ctx, paragraph)
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	var baseline time.Duration
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d documents x %d paragraphs, %v latency):\n", *count, *paragraphs, *latency)
	for _, field := range strings.Split(*workers, ",") {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(field), "%d", &n); err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "skipping invalid worker count %q\n", field)
			continue
		}

		start := time.Now()
		outcomes, err := tenor.Analyze(ctx, []string{benchDir},
			tenor.WithWorkers(n),
			tenor.WithAnnotator(declaredReentrant{slow}),
			tenor.WithLogger(logger),
		)
		if err != nil {
			panic(err)
		}
		took := time.Since(start)
		if baseline == 0 {
			baseline = took
		}
		fmt.Printf("  workers=%-3d %12v  (%d docs, x%.1f)\n", n, took.Round(time.Millisecond), len(outcomes), float64(baseline)/float64(took))
	}
	fmt.Printf("--------------------------------------------------\n")
}

// declaredReentrant marks the benchmark engine as safe to share, so the
// numbers measure the pool rather than a serializing guard.
type declaredReentrant struct {
	core.AnnotatorFunc
}

func (declaredReentrant) Concurrency() core.Concurrency { return core.Reentrant }
