package region

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Entry correlates a region code with its detection pattern and the
// languages a release from that region defaults to.
type Entry struct {
	Code      string
	Pattern   *regexp.Regexp
	Languages []string
}

func seed(code, pattern string, languages ...string) *Entry {
	// Anchored so detection is a full match on the token, never partial.
	return &Entry{
		Code:      code,
		Pattern:   regexp.MustCompile(`(?i)\A(?:` + pattern + `)\z`),
		Languages: languages,
	}
}

// seedEntries is the built-in country/region correlation. A single name
// token may satisfy several entries; "World" counts as Europe, Japan and
// USA at once.
func seedEntries() []*Entry {
	return []*Entry{
		seed("ASI", `(Asia)`, "zh"),
		seed("ARG", `(Argentina)`, "es"),
		seed("AUS", `(Australia)`, "en"),
		seed("BRA", `(Brazil)`, "pt"),
		seed("CAN", `(Canada)`, "en", "fr"),
		seed("CHN", `((China)|(Hong Kong))`, "zh"),
		seed("DAN", `(Denmark)`, "da"),
		seed("EUR", `((Europe)|(World))`, "en"),
		seed("FRA", `(France)`, "fr"),
		seed("FYN", `(Finland)`, "fi"),
		seed("GER", `(Germany)`, "de"),
		seed("GRE", `(Greece)`, "el"),
		seed("ITA", `(Italy)`, "it"),
		seed("JPN", `((Japan)|(World))`, "ja"),
		seed("HOL", `(Netherlands)`, "nl"),
		seed("KOR", `(Korea)`, "ko"),
		seed("MEX", `(Mexico)`, "es"),
		seed("NOR", `(Norway)`, "no"),
		seed("RUS", `(Russia)`, "ru"),
		seed("SPA", `(Spain)`, "es"),
		seed("SWE", `(Sweden)`, "sv"),
		seed("USA", `((USA)|(World))`, "en"),
		seed("TAI", `(Taiwan)`, "zh"),
	}
}

// Registry is the lookup-or-insert table of region entries. It is not safe
// for concurrent use; classification is single-threaded.
type Registry struct {
	entries []*Entry
	byCode  map[string]*Entry
	logger  *slog.Logger
}

// NewRegistry builds a registry seeded with the built-in correlation table.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	entries := seedEntries()
	byCode := make(map[string]*Entry, len(entries))
	for _, entry := range entries {
		byCode[entry.Code] = entry
	}
	return &Registry{entries: entries, byCode: byCode, logger: logger}
}

// Lookup returns the entry for code, registering an empty entry for codes
// the table has never seen. Registration is logged once per code.
func (r *Registry) Lookup(code string) *Entry {
	code = strings.ToUpper(strings.TrimSpace(code))
	if entry, ok := r.byCode[code]; ok {
		return entry
	}
	r.logger.Warn("unrecognized region", slog.String("region", code))
	entry := &Entry{Code: code}
	r.entries = append(r.entries, entry)
	r.byCode[code] = entry
	return entry
}

// Known reports whether code is already registered, without inserting it.
func (r *Registry) Known(code string) bool {
	_, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Match returns every entry whose detection pattern fully matches the
// token. Tokens legitimately satisfy zero, one or several entries.
func (r *Registry) Match(token string) []*Entry {
	var matched []*Entry
	for _, entry := range r.entries {
		if entry.Pattern == nil {
			continue
		}
		if entry.Pattern.MatchString(token) {
			matched = append(matched, entry)
		}
	}
	return matched
}
