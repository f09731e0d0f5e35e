// Package locale decides which locale a server actually served and labels the
// outcome with a verdict.
//
// The package has two halves. Extract pulls the served locale tag out of a raw
// response (an HTML lang attribute in the body, or an ae=l= marker in the
// Set-Cookie text). Classifier compares that tag against the requested
// language code and assigns exactly one verdict from a fixed vocabulary:
//
//	ok        server matched the requested code
//	alt       server used a known acceptable alternate spelling
//	fallback  server fell back to a known default locale (en-*)
//	collision server served a different, valid locale — the bug being hunted
//	unk       no locale recoverable, or the recovered tag is not a real locale
//	error     the request itself failed (recorded by the probe layer, never
//	          produced here)
//
// Classification walks an ordered rule list: missing, invalid, alternate,
// fallback, then the plain ok/collision comparison. The order is load-bearing:
// checking alternates or fallbacks after the plain comparison would misreport
// them as collisions, and skipping validation would misreport garbage tags as
// collisions instead of unknowns.
//
// The alternate and fallback rules apply only to the two codes of interest,
// Occitan (oci) and Kabyle (kab); every other code in the probe table gets
// only the plain comparison.
//
//	cls := locale.NewClassifier(langtag.New())
//	tag, found := locale.Extract(body, cookieHeader)
//	out := cls.Classify("oci", tag, found, false)
//	// out.Verdict == locale.VerdictAlt, out.Evidence == "oc" for <html lang="oc">
package locale
