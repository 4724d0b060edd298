package classify

import "rompick/internal/dat"

// Unselected is the region rank assigned when a candidate's region is
// absent from the preference list. It sorts after every explicit index.
const Unselected = 10000

// NotPrerelease marks a prerelease field that does not apply. 'Z' compares
// greater than any digit, keeping the marker distinct from every captured
// prerelease version after family-wide padding and sign inversion.
const NotPrerelease = "Z"

// Score is the composite ranking key computed for a candidate within its
// family. The vector fields are padded family-wide, so values are only
// comparable between candidates of the same family.
type Score struct {
	Region    int
	Languages int
	Revision  []int
	Version   []int
	Sample    []int
	Demo      []int
	Beta      []int
	Proto     []int
}

// Candidate is one (catalog entry, detected region) pair under
// consideration. All fields are fixed at classification time except Score,
// which is attached once the candidate's family is complete.
type Candidate struct {
	Name       string
	Bad        bool
	Prerelease bool
	Region     string
	Languages  []string
	InputIndex int
	Revision   string
	Version    string
	Sample     string
	Demo       string
	Beta       string
	Proto      string
	Parent     bool
	ParentKey  string
	Roms       []dat.Rom

	Score Score
}

// Family is the ordered list of candidates sharing one clone-of identity.
type Family struct {
	Key        string
	Candidates []*Candidate
}

// Group aggregates candidate lists into families keyed by parent identity,
// preserving discovery order of both families and candidates.
func Group(candidateLists [][]*Candidate) []*Family {
	index := make(map[string]int)
	var families []*Family
	for _, candidates := range candidateLists {
		for _, candidate := range candidates {
			i, ok := index[candidate.ParentKey]
			if !ok {
				i = len(families)
				index[candidate.ParentKey] = i
				families = append(families, &Family{Key: candidate.ParentKey})
			}
			families[i].Candidates = append(families[i].Candidates, candidate)
		}
	}
	return families
}
