// Package logger builds the slog.Logger the localeprobe binary runs with.
//
// By default logs go to stderr as human-readable text, keeping stdout clean
// for probe output. JSON output and a minimum level are configurable, and
// when a Sentry DSN is provided warnings and errors are additionally
// forwarded to Sentry; without a DSN the Sentry path is a no-op, so local
// runs need no configuration.
//
//	log, flush := logger.New(logger.Config{
//		JSON:      false,
//		Level:     slog.LevelInfo,
//		SentryDSN: os.Getenv("SENTRY_DSN"),
//	})
//	defer flush()
//
//	log.Info("starting batch", slog.Int("targets", 4))
//
// The returned flush function drains buffered Sentry events and must be
// called before the process exits.
package logger
