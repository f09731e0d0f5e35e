package probe_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localeprobe/pkg/langtag"
	"github.com/dmitrymomot/localeprobe/pkg/locale"
	"github.com/dmitrymomot/localeprobe/pkg/probe"
)

func newTestRunner(opts ...probe.RunnerOption) *probe.Runner {
	return probe.NewRunner(locale.NewClassifier(langtag.New()), opts...)
}

// echoServer serves an HTML page whose lang attribute mirrors the requested
// Accept-Language header, i.e. a server with perfect locale negotiation.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<!doctype html><html lang=%q><body>ok</body></html>`, r.Header.Get("Accept-Language"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeEchoServer(t *testing.T) {
	t.Parallel()

	srv := echoServer(t)
	runner := newTestRunner()

	results, err := runner.Probe(t.Context(), probe.Target{Site: "echo", URL: srv.URL, Device: "desktop"}, false)
	require.NoError(t, err)
	require.Len(t, results, len(locale.Codes()))

	for _, c := range locale.Codes() {
		out, ok := results[c.Tag]
		require.True(t, ok, "missing outcome for %s", c.Tag)
		require.Equal(t, c.Tag, out.Evidence)
		// kab echoed back hits the alternate rule; everything else is a
		// plain match.
		if c.Tag == "kab" {
			require.Equal(t, locale.VerdictAlt, out.Verdict)
		} else {
			require.Equal(t, locale.VerdictOK, out.Verdict)
		}
	}
}

func TestProbeSendsHeaders(t *testing.T) {
	t.Parallel()

	var acceptLangs []string
	var userAgents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acceptLangs = append(acceptLangs, r.Header.Get("Accept-Language"))
		userAgents = append(userAgents, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `<html lang="en"><body></body></html>`)
	}))
	t.Cleanup(srv.Close)

	target := probe.Target{Site: "s", URL: srv.URL, Device: "mobile", UserAgent: "probe-agent/1.0"}
	_, err := newTestRunner().Probe(t.Context(), target, false)
	require.NoError(t, err)

	// One request per code, in table order.
	require.Len(t, acceptLangs, len(locale.Codes()))
	for i, c := range locale.Codes() {
		require.Equal(t, c.Tag, acceptLangs[i])
		require.Equal(t, "probe-agent/1.0", userAgents[i])
	}
}

func TestProbeCookieLocale(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Set-Cookie", "ae=l=fr; Path=/; Secure")
		fmt.Fprint(w, "no markup here")
	}))
	t.Cleanup(srv.Close)

	results, err := newTestRunner().Probe(t.Context(), probe.Target{Site: "s", URL: srv.URL, Device: "d"}, false)
	require.NoError(t, err)

	// fr is a valid locale that matches nothing requested: collision for
	// every code (fallback does not apply, fr is not en-prefixed).
	for _, c := range locale.Codes() {
		require.Equal(t, locale.VerdictCollision, results[c.Tag].Verdict)
		require.Equal(t, "fr", results[c.Tag].Evidence)
	}
}

func TestProbeCookieLocaleInLaterSetCookie(t *testing.T) {
	t.Parallel()

	// Sites set several cookies per response; the locale marker is rarely
	// the first one. Every Set-Cookie value must be searched.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "session=abc123; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "ae=l=fr; Path=/; Secure")
		w.Header().Add("Set-Cookie", "region=eu; Path=/")
		fmt.Fprint(w, "no markup here")
	}))
	t.Cleanup(srv.Close)

	results, err := newTestRunner().Probe(t.Context(), probe.Target{Site: "s", URL: srv.URL, Device: "d"}, false)
	require.NoError(t, err)

	for _, c := range locale.Codes() {
		require.Equal(t, locale.VerdictCollision, results[c.Tag].Verdict)
		require.Equal(t, "fr", results[c.Tag].Evidence)
	}
}

func TestProbeNoLocaleHint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "just text")
	}))
	t.Cleanup(srv.Close)

	results, err := newTestRunner().Probe(t.Context(), probe.Target{Site: "s", URL: srv.URL, Device: "d"}, false)
	require.NoError(t, err)

	for _, c := range locale.Codes() {
		require.Equal(t, locale.VerdictUnknown, results[c.Tag].Verdict)
		require.Equal(t, "no locale hint", results[c.Tag].Evidence)
	}
}

// flakySession fails transport for one Accept-Language value and answers the
// rest with a fixed page.
type flakySession struct {
	failCode string
	page     string
}

func (s *flakySession) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Language") == s.failCode {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(s.page)),
	}, nil
}

func TestProbeTransportFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	session := &flakySession{failCode: "kat", page: `<html lang="kaz">`}
	runner := newTestRunner(probe.WithSessionFactory(func() probe.Doer { return session }))

	results, err := runner.Probe(t.Context(), probe.Target{Site: "s", URL: "https://example.com/", Device: "d"}, true)
	require.NoError(t, err)
	require.Len(t, results, len(locale.Codes()))

	require.Equal(t, locale.VerdictError, results["kat"].Verdict)
	require.Contains(t, results["kat"].Evidence, "connection refused")

	// Every other code still got a classified verdict against lang="kaz".
	require.Equal(t, locale.VerdictOK, results["kaz"].Verdict)
	require.Equal(t, locale.VerdictCollision, results["kam"].Verdict)
	require.Equal(t, locale.VerdictCollision, results["oci"].Verdict)
}

func TestProbeInvalidTargetIsCatastrophic(t *testing.T) {
	t.Parallel()

	runner := newTestRunner()

	_, err := runner.Probe(t.Context(), probe.Target{Site: "bad", URL: "not a url", Device: "d"}, false)
	require.ErrorIs(t, err, probe.ErrInvalidTarget)
}

func TestProbeOneSessionPerTarget(t *testing.T) {
	t.Parallel()

	var factoryCalls atomic.Int64
	session := &flakySession{page: `<html lang="en">`}
	runner := newTestRunner(probe.WithSessionFactory(func() probe.Doer {
		factoryCalls.Add(1)
		return session
	}))

	target := probe.Target{Site: "s", URL: "https://example.com/", Device: "d"}
	_, err := runner.Probe(t.Context(), target, false)
	require.NoError(t, err)
	_, err = runner.Probe(t.Context(), target, false)
	require.NoError(t, err)

	require.Equal(t, int64(2), factoryCalls.Load())
}
