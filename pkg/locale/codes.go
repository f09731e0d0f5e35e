package locale

// Code is one entry in the fixed probe table: a short ISO 639 identifier and
// its human-readable language name.
type Code struct {
	Tag  string
	Name string
}

// codes is the fixed probe table: Occitan and Kabyle (the two codes of
// interest) plus the ka* cluster that servers are known to confuse them with.
// Order is the presentation order; callers must not modify the slice.
var codes = []Code{
	{"oci", "Occitan"},
	{"kab", "Kabyle"},
	{"kam", "Kamba"},
	{"kac", "Kachin"},
	{"kal", "Greenlandic"},
	{"kar", "Karen"},
	{"kat", "Georgian"},
	{"kau", "Kanuri"},
	{"kaw", "Kawi"},
	{"kaz", "Kazakh"},
}

// interestCodes are the two codes the alternate/fallback rules and the batch
// report are scoped to, in report order.
var interestCodes = []string{"oci", "kab"}

// Codes returns the fixed probe table in iteration order. The returned slice
// is shared read-only reference data.
func Codes() []Code {
	return codes
}

// InterestCodes returns the two codes of interest in report order. The
// returned slice is shared read-only reference data.
func InterestCodes() []string {
	return interestCodes
}

// CodeName returns the human-readable name for a code tag, or the tag itself
// when it is not in the table.
func CodeName(tag string) string {
	for _, c := range codes {
		if c.Tag == tag {
			return c.Name
		}
	}
	return tag
}
