// Command localeprobe probes web endpoints with ambiguous ISO 639 codes in
// the Accept-Language header and reports which locale each server actually
// served. Interactive mode probes one site/device combination; --report runs
// the whole matrix and summarizes Occitan and Kabyle, the two codes servers
// are known to confuse with the ka* cluster.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrymomot/localeprobe/pkg/langtag"
	"github.com/dmitrymomot/localeprobe/pkg/locale"
	"github.com/dmitrymomot/localeprobe/pkg/logger"
	"github.com/dmitrymomot/localeprobe/pkg/probe"
)

func main() {
	loose := flag.Bool("loose", false, "accept language variants (prefix match instead of exact)")
	reportMode := flag.Bool("report", false, "run all site × device combinations and print the Occitan & Kabyle report")
	targetsFile := flag.String("targets", "", "YAML file overriding the built-in site × device matrix")
	concurrency := flag.Int("concurrency", 4, "max targets probed at once in report mode")
	jsonLogs := flag.Bool("json-logs", false, "emit logs as JSON")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log, flush := logger.New(logger.Config{
		JSON:        *jsonLogs,
		Level:       level,
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: os.Getenv("SENTRY_ENVIRONMENT"),
	})
	defer flush()

	matrix := probe.DefaultMatrix()
	if *targetsFile != "" {
		var err error
		matrix, err = probe.LoadMatrix(*targetsFile)
		if err != nil {
			log.Error("failed to load target matrix", slog.String("error", err.Error()))
			flush()
			os.Exit(1)
		}
	}

	runner := probe.NewRunner(
		locale.NewClassifier(langtag.New()),
		probe.WithLogger(log),
	)
	strict := !*loose
	ctx := context.Background()

	if *reportMode {
		runReport(ctx, log, runner, matrix, strict, *concurrency)
		return
	}
	if err := runInteractive(ctx, runner, matrix, strict); err != nil {
		log.Error("probe failed", slog.String("error", err.Error()))
		flush()
		os.Exit(1)
	}
}

func runInteractive(ctx context.Context, runner *probe.Runner, matrix probe.Matrix, strict bool) error {
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("\nChoose site to test:")
	for i, s := range matrix.Sites {
		fmt.Printf("  %d  %s\n", i+1, s.Name)
	}
	site := matrix.Sites[choose(in, len(matrix.Sites))]

	fmt.Println("\nChoose device profile:")
	for i, d := range matrix.Devices {
		fmt.Printf("  %d  %s\n", i+1, d.Name)
	}
	device := matrix.Devices[choose(in, len(matrix.Devices))]

	target := matrix.Target(site, device)
	fmt.Printf("\nTesting %s  (%s) ...\n\n", target.URL, target.Device)

	results, err := runner.Probe(ctx, target, strict)
	if err != nil {
		return err
	}

	for _, c := range locale.Codes() {
		out := results[c.Tag]
		fmt.Printf("%-9s  %s  %-12s  ->  %s\n", out.Verdict, c.Tag, c.Name, out.Evidence)
	}
	return nil
}

// choose reads 1-based menu picks from in until one is within range.
func choose(in *bufio.Scanner, n int) int {
	for {
		fmt.Printf("Enter 1-%d: ", n)
		if !in.Scan() {
			fmt.Fprintln(os.Stderr, "no input")
			os.Exit(1)
		}
		pick, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && pick >= 1 && pick <= n {
			return pick - 1
		}
		fmt.Printf("Please type a number between 1 and %d.\n", n)
	}
}

func runReport(ctx context.Context, log *slog.Logger, runner *probe.Runner, matrix probe.Matrix, strict bool, concurrency int) {
	fmt.Println("Generating Occitan & Kabyle report ...")
	fmt.Println()

	report := probe.RunBatch(ctx, runner, matrix.Targets(), strict,
		probe.WithConcurrency(concurrency),
		probe.WithBatchLogger(log),
		probe.WithProgress(func(t probe.Target) {
			fmt.Printf("Done  %s  +  %s\n", t.Site, t.Device)
		}),
	)

	rule := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(rule)
	fmt.Println("Occitan & Kabyle summary")
	fmt.Println(rule)
	for _, e := range report.Entries() {
		fmt.Printf("%-10s | %-7s | %s (%-12s) -> %-12s  [%s]\n",
			e.Target.Site, e.Target.Device, e.Code, locale.CodeName(e.Code),
			e.Outcome.Evidence, e.Outcome.Verdict)
	}
	fmt.Println(rule)

	collisions := report.Collisions()
	if len(collisions) == 0 {
		fmt.Println("\nNo collisions for Occitan or Kabyle in this run.")
		return
	}
	fmt.Println("\nCollisions detected:")
	for _, e := range collisions {
		fmt.Printf("  - %s %s  %s\n", e.Target.Site, e.Target.Device, e.Code)
	}
}
