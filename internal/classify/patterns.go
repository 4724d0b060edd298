package classify

import "regexp"

// Tag vocabulary. Each pattern is independent; a name may carry any
// combination of tags.
var (
	sectionsPattern        = regexp.MustCompile(`\(([^()]+)\)`)
	biosPattern            = regexp.MustCompile(`(?i)\[BIOS\]`)
	programPattern         = regexp.MustCompile(`(?i)\((?:Test\s*)?Program\)`)
	enhancementChipPattern = regexp.MustCompile(`(?i)\(Enhancement\s*Chip\)`)
	unlicensedPattern      = regexp.MustCompile(`(?i)\(Unl\)`)
	piratePattern          = regexp.MustCompile(`(?i)\(Pirate\)`)
	promoPattern           = regexp.MustCompile(`(?i)\(Promo\)`)
	betaPattern            = regexp.MustCompile(`(?i)\(Beta(?:\s*([a-z0-9.]+))?\)`)
	protoPattern           = regexp.MustCompile(`(?i)\(Proto(?:\s*([a-z0-9.]+))?\)`)
	samplePattern          = regexp.MustCompile(`(?i)\(Sample(?:\s*([a-z0-9.]+))?\)`)
	demoPattern            = regexp.MustCompile(`(?i)\(Demo(?:\s*([a-z0-9.]+))?\)`)
	revisionPattern        = regexp.MustCompile(`(?i)\(Rev\s*([a-z0-9.]+)\)`)
	versionPattern         = regexp.MustCompile(`(?i)\(v\s*([a-z0-9.]+)\)`)
	languagesPattern       = regexp.MustCompile(`(?i)\(([a-z]{2}(?:[,+][a-z]{2})*)\)`)
	badDumpPattern         = regexp.MustCompile(`(?i)\[b\]`)
)

// capturedOrDefault returns the first capture group of a submatch result,
// or fallback when the pattern did not match or captured nothing.
func capturedOrDefault(submatch []string, fallback string) string {
	if len(submatch) > 1 && submatch[1] != "" {
		return submatch[1]
	}
	return fallback
}
