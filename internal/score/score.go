package score

import (
	"regexp"
	"strings"

	"rompick/internal/classify"
)

// Preferences carries the user's selection ordering configuration.
type Preferences struct {
	// Regions is the preference list, most preferred first, uppercase.
	Regions []string
	// Languages is the preference list, most preferred first, lowercase.
	Languages []string
	// LanguageWeight scales how strongly earlier-preferred languages
	// dominate later ones. Must be positive.
	LanguageWeight int
	// EarlyRevisions prefers the first revision instead of the latest.
	EarlyRevisions bool
	// EarlyVersions prefers the first version instead of the latest.
	EarlyVersions bool
}

var runPattern = regexp.MustCompile(`\d+|\D+`)

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// padValues zero-pads every digit run to the maximum width used by any
// value at the same run position. Two passes: collect widths, re-render.
func padValues(values []string) []string {
	parts := make([][]string, len(values))
	widths := make(map[int]int)
	for i, value := range values {
		parts[i] = runPattern.FindAllString(value, -1)
		for j, run := range parts[i] {
			if isDigits(run) && len(run) > widths[j] {
				widths[j] = len(run)
			}
		}
	}
	padded := make([]string, len(values))
	for i := range parts {
		var b strings.Builder
		for j, run := range parts[i] {
			if isDigits(run) && len(run) < widths[j] {
				b.WriteString(strings.Repeat("0", widths[j]-len(run)))
			}
			b.WriteString(run)
		}
		padded[i] = b.String()
	}
	return padded
}

// toIntVector maps every rune of s to its code point times sign. With a
// negative sign, ordinally greater strings yield ordinally smaller vectors,
// which turns "lowest key wins" into "latest wins".
func toIntVector(s string, sign int) []int {
	vector := make([]int, 0, len(s))
	for _, r := range s {
		vector = append(vector, sign*int(r))
	}
	return vector
}

// regionRank is the index of code in the preference list, or the
// Unselected sentinel when absent.
func regionRank(code string, regions []string) int {
	for i, preferred := range regions {
		if preferred == code {
			return i
		}
	}
	return classify.Unselected
}

// languageRank sums the weighted preference contributions of the
// candidate's languages. Preferred languages contribute negative values,
// more negative the earlier they appear in the preference list; languages
// outside the list contribute nothing.
func languageRank(languages []string, prefs Preferences) int {
	total := 0
	for _, lang := range languages {
		for i, preferred := range prefs.Languages {
			if preferred == lang {
				total -= (len(prefs.Languages) - i) * prefs.LanguageWeight
				break
			}
		}
	}
	return total
}

func padField(candidates []*classify.Candidate, get func(*classify.Candidate) string) []string {
	values := make([]string, len(candidates))
	for i, candidate := range candidates {
		values[i] = get(candidate)
	}
	return padValues(values)
}

// Assign computes and attaches a Score to every candidate of the family.
func Assign(family *classify.Family, prefs Preferences) {
	candidates := family.Candidates

	revisions := padField(candidates, func(c *classify.Candidate) string { return c.Revision })
	versions := padField(candidates, func(c *classify.Candidate) string { return c.Version })
	samples := padField(candidates, func(c *classify.Candidate) string { return c.Sample })
	demos := padField(candidates, func(c *classify.Candidate) string { return c.Demo })
	betas := padField(candidates, func(c *classify.Candidate) string { return c.Beta })
	protos := padField(candidates, func(c *classify.Candidate) string { return c.Proto })

	revisionSign, versionSign := -1, -1
	if prefs.EarlyRevisions {
		revisionSign = 1
	}
	if prefs.EarlyVersions {
		versionSign = 1
	}

	for i, candidate := range candidates {
		candidate.Score = classify.Score{
			Region:    regionRank(candidate.Region, prefs.Regions),
			Languages: languageRank(candidate.Languages, prefs),
			Revision:  toIntVector(revisions[i], revisionSign),
			Version:   toIntVector(versions[i], versionSign),
			Sample:    toIntVector(samples[i], -1),
			Demo:      toIntVector(demos[i], -1),
			Beta:      toIntVector(betas[i], -1),
			Proto:     toIntVector(protos[i], -1),
		}
	}
}
