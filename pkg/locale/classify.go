package locale

import (
	"fmt"
	"strings"
)

// Verdict labels one probe outcome.
type Verdict string

const (
	VerdictOK        Verdict = "ok"
	VerdictAlt       Verdict = "alt"
	VerdictFallback  Verdict = "fallback"
	VerdictCollision Verdict = "collision"
	VerdictUnknown   Verdict = "unk"
	VerdictError     Verdict = "error"
)

// Outcome is the verdict for one (target, code) probe plus its evidence: the
// served tag, or a diagnostic message when no tag was recoverable.
type Outcome struct {
	Verdict  Verdict
	Evidence string
}

// TagValidator reports whether a string is a valid language tag.
// *langtag.Validator satisfies it.
type TagValidator interface {
	Validate(tag string) bool
}

// alternate spellings accepted for the codes of interest. An exact entry
// accepts one spelling; a prefix entry accepts any sub-variant.
var (
	altExact  = map[string]string{"oci": "oc"}
	altPrefix = map[string]string{"kab": "kab"}
)

// defaultFallbackPrefixes are tag prefixes treated as the server's default
// locale rather than a collision, for the codes of interest only.
var defaultFallbackPrefixes = []string{"en"}

// probeInput is what one classification rule sees.
type probeInput struct {
	code   string
	tag    string
	found  bool
	strict bool
}

// rule inspects one input and either claims it with an outcome or passes.
type rule func(in probeInput) (Outcome, bool)

// Classifier assigns verdicts by walking an ordered rule list top to bottom.
type Classifier struct {
	validator TagValidator
	fallbacks []string
	rules     []rule
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithFallbackPrefixes overrides the tag prefixes treated as server-default
// fallbacks for the codes of interest.
func WithFallbackPrefixes(prefixes ...string) ClassifierOption {
	return func(c *Classifier) {
		if len(prefixes) > 0 {
			c.fallbacks = prefixes
		}
	}
}

// NewClassifier creates a Classifier that validates served tags with v.
func NewClassifier(v TagValidator, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		validator: v,
		fallbacks: defaultFallbackPrefixes,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Rule order is the contract; see the package comment.
	c.rules = []rule{
		c.missingRule,
		c.invalidRule,
		c.alternateRule,
		c.fallbackRule,
		c.comparisonRule,
	}
	return c
}

// Classify labels what the server served for a requested code. found is false
// when extraction produced no tag. Exactly one rule claims every input, so a
// code is never left unresolved.
func (c *Classifier) Classify(code, tag string, found, strict bool) Outcome {
	in := probeInput{code: code, tag: tag, found: found, strict: strict}
	for _, r := range c.rules {
		if out, ok := r(in); ok {
			return out
		}
	}
	// comparisonRule always claims; unreachable.
	return Outcome{Verdict: VerdictUnknown, Evidence: "no rule claimed input"}
}

func (c *Classifier) missingRule(in probeInput) (Outcome, bool) {
	if in.found {
		return Outcome{}, false
	}
	return Outcome{Verdict: VerdictUnknown, Evidence: "no locale hint"}, true
}

func (c *Classifier) invalidRule(in probeInput) (Outcome, bool) {
	if c.validator.Validate(in.tag) {
		return Outcome{}, false
	}
	return Outcome{Verdict: VerdictUnknown, Evidence: fmt.Sprintf("invalid locale '%s'", in.tag)}, true
}

func (c *Classifier) alternateRule(in probeInput) (Outcome, bool) {
	if exact, ok := altExact[in.code]; ok && in.tag == exact {
		return Outcome{Verdict: VerdictAlt, Evidence: in.tag}, true
	}
	if prefix, ok := altPrefix[in.code]; ok && strings.HasPrefix(in.tag, prefix) {
		return Outcome{Verdict: VerdictAlt, Evidence: in.tag}, true
	}
	return Outcome{}, false
}

func (c *Classifier) fallbackRule(in probeInput) (Outcome, bool) {
	if !isInterestCode(in.code) {
		return Outcome{}, false
	}
	for _, prefix := range c.fallbacks {
		if strings.HasPrefix(in.tag, prefix) {
			return Outcome{Verdict: VerdictFallback, Evidence: in.tag}, true
		}
	}
	return Outcome{}, false
}

func (c *Classifier) comparisonRule(in probeInput) (Outcome, bool) {
	matched := in.tag == in.code
	if !in.strict {
		matched = strings.HasPrefix(in.tag, in.code)
	}
	if matched {
		return Outcome{Verdict: VerdictOK, Evidence: in.tag}, true
	}
	return Outcome{Verdict: VerdictCollision, Evidence: in.tag}, true
}

func isInterestCode(code string) bool {
	for _, c := range interestCodes {
		if c == code {
			return true
		}
	}
	return false
}
