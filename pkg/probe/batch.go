package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/localeprobe/pkg/locale"
)

// defaultConcurrency matches the canonical four-combination deployment.
const defaultConcurrency = 4

type batchConfig struct {
	concurrency int
	logger      *slog.Logger
	progress    func(Target)
}

// BatchOption configures RunBatch.
type BatchOption func(*batchConfig)

// WithConcurrency bounds how many targets are probed at once.
func WithConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithBatchLogger sets the logger for batch progress and failures.
func WithBatchLogger(l *slog.Logger) BatchOption {
	return func(c *batchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress registers a callback invoked as each target finishes, in
// completion order.
func WithProgress(fn func(Target)) BatchOption {
	return func(c *batchConfig) {
		if fn != nil {
			c.progress = fn
		}
	}
}

// RunBatch probes every target concurrently with bounded parallelism and
// returns the codes-of-interest report. Every target contributes exactly one
// row per code of interest: a runner that fails catastrophically is recorded
// as error outcomes for its target rather than dropped.
func RunBatch(ctx context.Context, runner *Runner, targets []Target, strict bool, opts ...BatchOption) *Report {
	cfg := &batchConfig{
		concurrency: defaultConcurrency,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	report := newReport(uuid.NewString())

	g := new(errgroup.Group)
	g.SetLimit(cfg.concurrency)

	for _, target := range targets {
		g.Go(func() error {
			results, err := runner.Probe(ctx, target, strict)
			if err != nil {
				cfg.logger.ErrorContext(ctx, "probe failed",
					slog.String("run_id", report.RunID),
					slog.String("site", target.Site),
					slog.String("device", target.Device),
					slog.String("error", err.Error()),
				)
				for _, code := range locale.InterestCodes() {
					report.record(target, code, locale.Outcome{
						Verdict:  locale.VerdictError,
						Evidence: fmt.Sprintf("probe failed: %v", err),
					})
				}
			} else {
				for _, code := range locale.InterestCodes() {
					report.record(target, code, results[code])
				}
			}

			cfg.logger.InfoContext(ctx, "target probed",
				slog.String("run_id", report.RunID),
				slog.String("site", target.Site),
				slog.String("device", target.Device),
			)
			if cfg.progress != nil {
				cfg.progress(target)
			}
			return nil
		})
	}

	// Workers never return errors; failures are recorded per target.
	_ = g.Wait()

	return report
}
