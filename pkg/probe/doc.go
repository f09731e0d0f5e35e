// Package probe issues Accept-Language probes against web endpoints and
// aggregates the verdicts.
//
// A Runner probes one Target: for every code in the fixed probe table it
// sends a GET with that code as the Accept-Language header (reusing one HTTP
// session per target), extracts the served locale from the response, and
// classifies it. A transport failure for one code records an error verdict
// and never aborts the remaining codes.
//
// RunBatch fans a Runner out over many targets with bounded parallelism and
// collects the outcomes for the two codes of interest into a Report, from
// which Collisions derives the list of confirmed locale collisions.
//
//	runner := probe.NewRunner(locale.NewClassifier(langtag.New()))
//	report := probe.RunBatch(ctx, runner, probe.DefaultMatrix().Targets(), false)
//	for _, e := range report.Collisions() {
//		fmt.Println(e.Target.Site, e.Target.Device, e.Code, e.Outcome.Evidence)
//	}
//
// Sessions are never shared across targets, so cookies set by one site cannot
// leak into another probe. Within a target, codes are probed sequentially in
// table order for reproducible output and to avoid hammering one endpoint.
package probe
