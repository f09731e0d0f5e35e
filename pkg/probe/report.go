package probe

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dmitrymomot/localeprobe/pkg/locale"
)

// Entry is one (target, code) row of a batch report.
type Entry struct {
	Target  Target
	Code    string
	Outcome locale.Outcome
}

type reportKey struct {
	target Target
	code   string
}

// Report collects codes-of-interest outcomes across a batch run. Writes
// happen while the batch is in flight (each key written exactly once); once
// RunBatch returns, the report is read-only.
type Report struct {
	// RunID correlates log lines and report output for one batch run.
	RunID string

	mu      sync.Mutex
	entries map[reportKey]locale.Outcome
}

func newReport(runID string) *Report {
	return &Report{
		RunID:   runID,
		entries: make(map[reportKey]locale.Outcome),
	}
}

func (r *Report) record(target Target, code string, out locale.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[reportKey{target: target, code: code}] = out
}

// Len returns the number of report entries.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Get returns the outcome for one (target, code) pair.
func (r *Report) Get(target Target, code string) (locale.Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, ok := r.entries[reportKey{target: target, code: code}]
	return out, ok
}

// Entries returns all rows sorted by site, device, then code, so output is
// stable regardless of worker completion order.
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.entries))
	for k, out := range r.entries {
		entries = append(entries, Entry{Target: k.target, Code: k.code, Outcome: out})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Target.Site, b.Target.Site); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Target.Device, b.Target.Device); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return entries
}

// Collisions returns the rows whose verdict is collision, in Entries order.
func (r *Report) Collisions() []Entry {
	var collisions []Entry
	for _, e := range r.Entries() {
		if e.Outcome.Verdict == locale.VerdictCollision {
			collisions = append(collisions, e)
		}
	}
	return collisions
}
