package rank

import (
	"sort"

	"rompick/internal/classify"
	"rompick/internal/pattern"
)

// Options selects and parameterizes the optional comparator stages.
type Options struct {
	PrioritizeLanguages bool
	PreferPrereleases   bool
	PreferParents       bool
	InputOrder          bool
	Prefer              pattern.List
	Avoid               pattern.List
}

func rankBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareVectors orders int vectors lexicographically; a strict prefix
// sorts before its extension.
func compareVectors(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareInts(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}

// Compare returns a negative value when a ranks above b. Both candidates
// must carry scores computed within the same family.
func (o Options) Compare(a, b *classify.Candidate) int {
	if c := compareInts(rankBool(a.Bad), rankBool(b.Bad)); c != 0 {
		return c
	}
	if c := compareInts(rankBool(a.Prerelease != o.PreferPrereleases), rankBool(b.Prerelease != o.PreferPrereleases)); c != 0 {
		return c
	}
	if len(o.Avoid) > 0 {
		if c := compareInts(rankBool(o.Avoid.MatchesAny(a.Name)), rankBool(o.Avoid.MatchesAny(b.Name))); c != 0 {
			return c
		}
	}
	if o.PrioritizeLanguages {
		if c := compareInts(a.Score.Languages, b.Score.Languages); c != 0 {
			return c
		}
		if c := compareInts(a.Score.Region, b.Score.Region); c != 0 {
			return c
		}
	} else {
		if c := compareInts(a.Score.Region, b.Score.Region); c != 0 {
			return c
		}
		if c := compareInts(a.Score.Languages, b.Score.Languages); c != 0 {
			return c
		}
	}
	if o.PreferParents {
		if c := compareInts(rankBool(!a.Parent), rankBool(!b.Parent)); c != 0 {
			return c
		}
	}
	if o.InputOrder {
		if c := compareInts(a.InputIndex, b.InputIndex); c != 0 {
			return c
		}
	}
	if len(o.Prefer) > 0 {
		if c := compareInts(rankBool(!o.Prefer.MatchesAny(a.Name)), rankBool(!o.Prefer.MatchesAny(b.Name))); c != 0 {
			return c
		}
	}
	if c := compareVectors(a.Score.Revision, b.Score.Revision); c != 0 {
		return c
	}
	if c := compareVectors(a.Score.Version, b.Score.Version); c != 0 {
		return c
	}
	if c := compareVectors(a.Score.Sample, b.Score.Sample); c != 0 {
		return c
	}
	if c := compareVectors(a.Score.Demo, b.Score.Demo); c != 0 {
		return c
	}
	if c := compareVectors(a.Score.Beta, b.Score.Beta); c != 0 {
		return c
	}
	if c := compareVectors(a.Score.Proto, b.Score.Proto); c != 0 {
		return c
	}
	if c := compareInts(-len(a.Languages), -len(b.Languages)); c != 0 {
		return c
	}
	return compareInts(rankBool(!a.Parent), rankBool(!b.Parent))
}

// Sort orders candidates best-first, preserving discovery order on ties.
func Sort(candidates []*classify.Candidate, opts Options) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return opts.Compare(candidates[i], candidates[j]) < 0
	})
}
