package langtag

import (
	"sync"

	"golang.org/x/text/language"
)

// Oracle reports whether tag is a valid language tag. Implementations must be
// pure: the same input always yields the same answer.
type Oracle func(tag string) bool

// Validator memoizes an Oracle by exact input string.
type Validator struct {
	oracle Oracle
	mu     sync.Mutex
	memo   map[string]bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithOracle replaces the default x/text oracle.
func WithOracle(o Oracle) Option {
	return func(v *Validator) {
		if o != nil {
			v.oracle = o
		}
	}
}

// New creates a Validator backed by the x/text language parser unless
// overridden with WithOracle.
func New(opts ...Option) *Validator {
	v := &Validator{
		oracle: parseOracle,
		memo:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate reports whether tag is a well-formed, registered language tag.
// The first call per distinct tag consults the oracle; later calls hit the
// memo cache. An oracle panic counts as invalid.
func (v *Validator) Validate(tag string) bool {
	v.mu.Lock()
	if valid, ok := v.memo[tag]; ok {
		v.mu.Unlock()
		return valid
	}
	v.mu.Unlock()

	// Oracle runs outside the lock so a slow oracle never serializes
	// unrelated lookups. The oracle is pure, so a duplicate first call
	// stores an identical result.
	valid := v.ask(tag)

	v.mu.Lock()
	v.memo[tag] = valid
	v.mu.Unlock()
	return valid
}

func (v *Validator) ask(tag string) (valid bool) {
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()
	return v.oracle(tag)
}

// parseOracle accepts a tag only when x/text parses it without complaint.
// language.Parse returns an error both for syntactically broken tags and for
// well-formed tags with unknown subtags, which matches the verdict semantics:
// either way the server did not serve a real locale.
func parseOracle(tag string) bool {
	if tag == "" {
		return false
	}
	_, err := language.Parse(tag)
	return err == nil
}
