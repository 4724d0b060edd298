package pattern

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FilePrefix marks a list argument that names a file instead of inline entries.
const FilePrefix = "file:"

// Options controls how list entries are compiled.
type Options struct {
	// Separator splits inline lists. Defaults to "," when empty.
	Separator string
	// IgnoreCase folds case during matching.
	IgnoreCase bool
	// Regex treats entries as regular expressions instead of literals.
	Regex bool
}

// List is a compiled name list.
type List []*regexp.Regexp

// Parse compiles a list argument. An empty argument yields an empty list.
func Parse(arg string, opts Options) (List, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}

	var entries []string
	if strings.HasPrefix(arg, FilePrefix) {
		path := strings.TrimSpace(strings.TrimPrefix(arg, FilePrefix))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read list file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				entries = append(entries, line)
			}
		}
	} else {
		separator := opts.Separator
		if separator == "" {
			separator = ","
		}
		for _, entry := range strings.Split(arg, separator) {
			if entry = strings.TrimSpace(entry); entry != "" {
				entries = append(entries, entry)
			}
		}
	}

	list := make(List, 0, len(entries))
	for _, entry := range entries {
		expr := entry
		if !opts.Regex {
			expr = regexp.QuoteMeta(entry)
		}
		if opts.IgnoreCase {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile list entry %q: %w", entry, err)
		}
		list = append(list, compiled)
	}
	return list, nil
}

// MatchesAny reports whether any entry matches anywhere in name.
func (l List) MatchesAny(name string) bool {
	for _, entry := range l {
		if entry.MatchString(name) {
			return true
		}
	}
	return false
}
