// Package langtag provides BCP 47 language tag validation with per-process
// memoization.
//
// A Validator answers a single question: is this string a well-formed language
// tag with a registered primary subtag? The default oracle is
// golang.org/x/text/language, which rejects both malformed tags and tags that
// parse but reference unknown subtags; the two failure modes are deliberately
// indistinguishable to callers. Results are cached by exact input string, so
// repeated validation of the same tag never re-invokes the oracle.
//
// # Basic Usage
//
//	v := langtag.New()
//	v.Validate("en-US") // true
//	v.Validate("kab")   // true
//	v.Validate("gibberish tag") // false
//
// # Custom Oracle
//
// Tests or callers with their own registry can inject an oracle:
//
//	v := langtag.New(langtag.WithOracle(func(tag string) bool {
//		return tag == "en"
//	}))
//
// # Thread Safety
//
// A Validator is safe for concurrent use. The memo cache is mutex-guarded;
// the oracle is assumed pure, so two goroutines racing on the first
// validation of a tag may both invoke it, but they store the same result.
package langtag
