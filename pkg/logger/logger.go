package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config holds logger construction settings.
type Config struct {
	// JSON switches the stderr handler from text to JSON.
	JSON bool
	// Level is the minimum level for stderr output.
	Level slog.Level
	// SentryDSN enables Sentry forwarding when non-empty.
	SentryDSN string
	// Environment tags Sentry events; defaults to "production".
	Environment string
}

// New creates the process logger and a flush function to call before exit.
// If the Sentry DSN is empty or Sentry fails to initialize, logging degrades
// to stderr only and flush is a no-op.
func New(cfg Config) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var base slog.Handler
	if cfg.JSON {
		base = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		base = slog.NewTextHandler(os.Stderr, opts)
	}

	if cfg.SentryDSN == "" {
		return slog.New(base), func() {}
	}

	env := cfg.Environment
	if env == "" {
		env = "production"
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: env,
		EnableLogs:  true,
	}); err != nil {
		log := slog.New(base)
		log.Error("sentry init failed, logging to stderr only", slog.String("error", err.Error()))
		return log, func() {}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	flush := func() { sentry.Flush(2 * time.Second) }
	return slog.New(fanout{base, sentryHandler}), flush
}

// fanout forwards each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, rec.Level) {
			if err := h.Handle(ctx, rec.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
