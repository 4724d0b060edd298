package report

import (
	"fmt"
	"strconv"
	"time"

	"rompick/internal/classify"
	"rompick/internal/dat"
	"rompick/internal/rank"
	"rompick/internal/selector"
)

const ignored = " (Ignored)"

// Criteria renders the sixteen comparison stages in the order they are
// applied, marking stages the current options skip.
func Criteria(opts rank.Options, earlyRevisions, earlyVersions bool) string {
	regionText := "Best region match"
	langText := "Best language match"
	first, second := regionText, langText
	if opts.PrioritizeLanguages {
		first, second = langText, regionText
	}

	released := "Released entries"
	if opts.PreferPrereleases {
		released = "Prerelease entries"
	}

	parents := "Parent entries"
	if !opts.PreferParents {
		parents += ignored
	}
	inputOrder := "Input order"
	if !opts.InputOrder {
		inputOrder += ignored
	}
	avoided := "Non-avoided entries"
	if len(opts.Avoid) == 0 {
		avoided += ignored
	}
	preferred := "Preferred entries"
	if len(opts.Prefer) == 0 {
		preferred += ignored
	}

	revision := "Latest revision"
	if earlyRevisions {
		revision = "Earliest revision"
	}
	version := "Latest version"
	if earlyVersions {
		version = "Earliest version"
	}

	criteria := []string{
		"Good dumps",
		released,
		avoided,
		first,
		second,
		parents,
		inputOrder,
		preferred,
		revision,
		version,
		"Latest sample",
		"Latest demo",
		"Latest beta",
		"Latest prototype",
		"Most languages supported",
		"Parent entries",
	}

	rows := make([][2]string, 0, len(criteria))
	for i, criterion := range criteria {
		rows = append(rows, [2]string{strconv.Itoa(i + 1), criterion})
	}
	return twoColumnTable([2]string{"Stage", "Criterion"}, rows, 0)
}

// Filters lists the category filters a run drops, if any. An empty
// string means nothing is filtered.
func Filters(f classify.Filters, hasExclude, hasExcludeAfter bool) string {
	entries := []struct {
		enabled bool
		label   string
	}{
		{f.BIOS, "BIOSes"},
		{f.Program, "Programs"},
		{f.EnhancementChip, "Enhancement chips"},
		{f.Proto, "Prototypes"},
		{f.Beta, "Betas"},
		{f.Demo, "Demos"},
		{f.Sample, "Samples"},
		{f.Unlicensed, "Unlicensed entries"},
		{f.Pirate, "Pirate entries"},
		{f.Promo, "Promo entries"},
		{hasExclude, "Excluded entries by name"},
		{hasExcludeAfter, "Excluded entries by name (after selection)"},
	}

	var rows [][2]string
	for _, entry := range entries {
		if entry.enabled {
			rows = append(rows, [2]string{strconv.Itoa(len(rows) + 1), entry.label})
		}
	}
	if len(rows) == 0 {
		return ""
	}
	return twoColumnTable([2]string{"#", "Filtering out"}, rows, 0)
}

// CatalogCheck renders the structural check results for one catalog.
func CatalogCheck(name, version string, check dat.Check) string {
	sha1Row := "complete"
	if check.MissingSHA1 != "" {
		sha1Row = fmt.Sprintf("missing (first: %s)", check.MissingSHA1)
	}
	clones := "yes"
	if !check.HasCloneOf {
		clones = "no (every entry forms its own family)"
	}
	rows := [][2]string{
		{"Catalog", name},
		{"Version", version},
		{"Entries", strconv.Itoa(check.Games)},
		{"Clone relationships", clones},
		{"SHA1 coverage", sha1Row},
	}
	return twoColumnTable([2]string{"Property", "Value"}, rows, -1)
}

// Summary renders the end-of-run tallies.
func Summary(stats selector.Stats, elapsed time.Duration) string {
	rows := [][2]string{
		{"Families", strconv.Itoa(stats.Families)},
		{"Selected", strconv.Itoa(stats.Selected)},
		{"Unresolved", strconv.Itoa(stats.Unresolved)},
		{"Elapsed", fmt.Sprintf("%.1fs", elapsed.Seconds())},
	}
	return twoColumnTable([2]string{"Result", "Count"}, rows, 1)
}
