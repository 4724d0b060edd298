package classify

import (
	"io"
	"log/slog"
	"strings"

	"rompick/internal/dat"
	"rompick/internal/pattern"
	"rompick/internal/region"
)

// Filters enables dropping whole categories of catalog entries before any
// candidate is built.
type Filters struct {
	BIOS            bool
	Program         bool
	EnhancementChip bool
	Unlicensed      bool
	Pirate          bool
	Promo           bool
	Proto           bool
	Beta            bool
	Demo            bool
	Sample          bool
}

// Classifier turns catalog entries into selection candidates.
type Classifier struct {
	registry *region.Registry
	filters  Filters
	exclude  pattern.List
	logger   *slog.Logger
}

// New builds a classifier. The registry is shared so unknown region codes
// registered during one entry's classification stay known for the rest of
// the run.
func New(registry *region.Registry, filters Filters, exclude pattern.List, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Classifier{registry: registry, filters: filters, exclude: exclude, logger: logger}
}

// Candidates expands one catalog entry into one candidate per detected
// region. It returns nil when the entry is filtered out or no region could
// be recognized.
func (c *Classifier) Candidates(game *dat.Game, inputIndex int) []*Candidate {
	name := game.Name

	betaMatch := betaPattern.FindStringSubmatch(name)
	demoMatch := demoPattern.FindStringSubmatch(name)
	sampleMatch := samplePattern.FindStringSubmatch(name)
	protoMatch := protoPattern.FindStringSubmatch(name)

	switch {
	case c.filters.BIOS && biosPattern.MatchString(name),
		c.filters.Unlicensed && unlicensedPattern.MatchString(name),
		c.filters.Pirate && piratePattern.MatchString(name),
		c.filters.Promo && promoPattern.MatchString(name),
		c.filters.Program && programPattern.MatchString(name),
		c.filters.EnhancementChip && enhancementChipPattern.MatchString(name),
		c.filters.Beta && betaMatch != nil,
		c.filters.Demo && demoMatch != nil,
		c.filters.Sample && sampleMatch != nil,
		c.filters.Proto && protoMatch != nil,
		c.exclude.MatchesAny(name):
		return nil
	}

	regions := c.detectRegions(game)
	languages := parseLanguages(name)
	if len(languages) == 0 {
		languages = defaultLanguages(regions)
	}

	parentKey := game.CloneOf
	if parentKey == "" {
		parentKey = game.Name
	}

	prototype := Candidate{
		Name:       name,
		Bad:        badDumpPattern.MatchString(name),
		Prerelease: betaMatch != nil || demoMatch != nil || sampleMatch != nil || protoMatch != nil,
		Languages:  languages,
		InputIndex: inputIndex,
		Revision:   capturedOrDefault(revisionPattern.FindStringSubmatch(name), "0"),
		Version:    capturedOrDefault(versionPattern.FindStringSubmatch(name), "0"),
		Sample:     capturedOrDefault(sampleMatch, NotPrerelease),
		Demo:       capturedOrDefault(demoMatch, NotPrerelease),
		Beta:       capturedOrDefault(betaMatch, NotPrerelease),
		Proto:      capturedOrDefault(protoMatch, NotPrerelease),
		Parent:     game.CloneOf == "",
		ParentKey:  parentKey,
		Roms:       game.Roms,
	}

	candidates := make([]*Candidate, 0, len(regions))
	for _, entry := range regions {
		candidate := prototype
		candidate.Region = entry.Code
		candidates = append(candidates, &candidate)
	}

	if len(game.Roms) == 0 {
		c.logger.Warn("no rom files declared", slog.String("game", name))
	}
	if len(candidates) == 0 {
		c.logger.Warn("no recognizable regions found", slog.String("game", name))
		return nil
	}
	return candidates
}

// detectRegions collects region entries from name tokens, then appends any
// release-declared codes not already present, auto-registering unknown ones.
func (c *Classifier) detectRegions(game *dat.Game) []*region.Entry {
	var detected []*region.Entry
	for _, section := range sectionsPattern.FindAllStringSubmatch(game.Name, -1) {
		for _, element := range strings.Split(section[1], ",") {
			detected = append(detected, c.registry.Match(strings.TrimSpace(element))...)
		}
	}
	for _, release := range game.Releases {
		if release.Region == "" {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(release.Region))
		present := false
		for _, entry := range detected {
			if entry.Code == code {
				present = true
				break
			}
		}
		if !present {
			detected = append(detected, c.registry.Lookup(code))
		}
	}
	return detected
}

// parseLanguages extracts an explicit language tag such as (En,Fr+De).
func parseLanguages(name string) []string {
	match := languagesPattern.FindStringSubmatch(name)
	if match == nil {
		return nil
	}
	var languages []string
	for _, entry := range strings.Split(match[1], ",") {
		for _, lang := range strings.Split(entry, "+") {
			languages = append(languages, strings.ToLower(lang))
		}
	}
	return languages
}

// defaultLanguages unions the default languages of the matched regions in
// first-seen order.
func defaultLanguages(regions []*region.Entry) []string {
	var languages []string
	for _, entry := range regions {
		for _, lang := range entry.Languages {
			seen := false
			for _, have := range languages {
				if have == lang {
					seen = true
					break
				}
			}
			if !seen {
				languages = append(languages, lang)
			}
		}
	}
	return languages
}

// BuildFamilies classifies every catalog entry and aggregates the results.
func (c *Classifier) BuildFamilies(games []dat.Game) []*Family {
	lists := make([][]*Candidate, 0, len(games))
	for i := range games {
		if candidates := c.Candidates(&games[i], i); candidates != nil {
			lists = append(lists, candidates)
		}
	}
	return Group(lists)
}
