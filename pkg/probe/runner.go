package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/dmitrymomot/localeprobe/pkg/locale"
)

const (
	// defaultTimeout bounds each individual request; no probe may hang.
	defaultTimeout = 15 * time.Second

	// maxBodyBytes caps how much of a response is scanned for locale
	// markers. Real pages put the lang attribute in the first kilobyte.
	maxBodyBytes = 2 << 20
)

// Doer issues a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Results maps a probe-table code to its outcome. Iterate locale.Codes() for
// deterministic order.
type Results map[string]locale.Outcome

// Runner probes one target across the whole code table.
type Runner struct {
	classifier *locale.Classifier
	logger     *slog.Logger
	timeout    time.Duration
	newSession func() Doer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger for per-request diagnostics.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSessionFactory replaces how per-target HTTP sessions are made. Each
// Probe call gets one session from the factory; tests use this to inject a
// fake transport.
func WithSessionFactory(f func() Doer) RunnerOption {
	return func(r *Runner) {
		if f != nil {
			r.newSession = f
		}
	}
}

// NewRunner creates a Runner that classifies served locales with cls.
func NewRunner(cls *locale.Classifier, opts ...RunnerOption) *Runner {
	r := &Runner{
		classifier: cls,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newSession == nil {
		timeout := r.timeout
		r.newSession = func() Doer { return newSession(timeout) }
	}
	return r
}

// newSession builds a cookie-carrying client for one target. Sessions are
// never reused across targets so cookies cannot leak between probes.
func newSession(timeout time.Duration) Doer {
	// cookiejar.New cannot fail with nil options; the only error path is a
	// broken PublicSuffixList, and none is supplied.
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}
}

// Probe issues one request per code in the probe table against target and
// returns exactly one outcome per code. strict selects exact-match
// comparison over prefix-match. Transport failures become error verdicts and
// never stop the remaining codes. The returned error is reserved for
// catastrophic failures where no request could be attempted at all.
func (r *Runner) Probe(ctx context.Context, target Target, strict bool) (Results, error) {
	if err := checkURL(target.URL); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, target.URL)
	}

	session := r.newSession()
	results := make(Results, len(locale.Codes()))

	for _, code := range locale.Codes() {
		out := r.probeCode(ctx, session, target, code.Tag, strict)
		results[code.Tag] = out
		r.logger.DebugContext(ctx, "code probed",
			slog.String("site", target.Site),
			slog.String("device", target.Device),
			slog.String("code", code.Tag),
			slog.String("verdict", string(out.Verdict)),
			slog.String("evidence", out.Evidence),
		)
	}
	return results, nil
}

func (r *Runner) probeCode(ctx context.Context, session Doer, target Target, code string, strict bool) locale.Outcome {
	body, cookie, err := r.fetch(ctx, session, target, code)
	if err != nil {
		return locale.Outcome{Verdict: locale.VerdictError, Evidence: err.Error()}
	}
	tag, found := locale.Extract(body, cookie)
	return r.classifier.Classify(code, tag, found, strict)
}

// fetch performs one GET with the code as Accept-Language and returns the
// body plus the raw Set-Cookie header text. Servers commonly set several
// cookies per response, so every Set-Cookie value is joined into one
// searchable string; the locale marker may sit in any of them.
func (r *Runner) fetch(ctx context.Context, session Doer, target Target, code string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept-Language", code)
	if target.UserAgent != "" {
		req.Header.Set("User-Agent", target.UserAgent)
	}

	resp, err := session.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", err
	}
	return string(body), strings.Join(resp.Header.Values("Set-Cookie"), ", "), nil
}
