package config

import (
	"errors"
	"fmt"
)

// Validate checks cross-field consistency. Call it after flag overrides
// have been merged so the checks see the effective configuration.
func (c *Config) Validate() error {
	var problems []error

	if len(c.Selection.Regions) == 0 {
		problems = append(problems, errors.New("selection.regions: at least one region is required"))
	}
	if c.Selection.LanguageWeight <= 0 {
		problems = append(problems, fmt.Errorf("selection.language_weight: must be positive, got %d", c.Selection.LanguageWeight))
	}

	if c.Selection.Extension != "" && c.Index.UseHashes {
		problems = append(problems, errors.New("selection.extension: cannot be combined with index.use_hashes"))
	}
	if c.Index.UseHashes && c.Paths.InputDir == "" {
		problems = append(problems, errors.New("index.use_hashes: requires paths.input_dir"))
	}
	if c.Paths.OutputDir != "" && c.Paths.InputDir == "" {
		problems = append(problems, errors.New("paths.output_dir: requires paths.input_dir"))
	}

	if c.Selection.EarlyRevisions && c.Selection.InputOrder {
		problems = append(problems, errors.New("selection.early_revisions: cannot be combined with input_order"))
	}
	if c.Selection.EarlyVersions && c.Selection.InputOrder {
		problems = append(problems, errors.New("selection.early_versions: cannot be combined with input_order"))
	}
	if c.Selection.EarlyRevisions && c.Selection.PreferParents {
		problems = append(problems, errors.New("selection.early_revisions: cannot be combined with prefer_parents"))
	}
	if c.Selection.EarlyVersions && c.Selection.PreferParents {
		problems = append(problems, errors.New("selection.early_versions: cannot be combined with prefer_parents"))
	}
	if c.Selection.PreferParents && c.Selection.InputOrder {
		problems = append(problems, errors.New("selection.prefer_parents: cannot be combined with input_order"))
	}
	if c.Selection.AllRegions && c.Selection.AllRegionsWithLang {
		problems = append(problems, errors.New("selection.all_regions: cannot be combined with all_regions_with_lang"))
	}

	if (c.Lists.IgnoreCase || c.Lists.Regex) && !c.hasLists() {
		problems = append(problems, errors.New("lists.ignore_case/regex: require at least one of prefer, avoid, exclude, exclude_after"))
	}

	if c.Index.Threads < 0 {
		problems = append(problems, fmt.Errorf("index.threads: must not be negative, got %d", c.Index.Threads))
	}
	if c.Index.ChunkSizeMiB <= 0 {
		problems = append(problems, fmt.Errorf("index.chunk_size_mib: must be positive, got %d", c.Index.ChunkSizeMiB))
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}

	return errors.Join(problems...)
}

func (c *Config) hasLists() bool {
	return c.Lists.Prefer != "" || c.Lists.Avoid != "" || c.Lists.Exclude != "" || c.Lists.ExcludeAfter != ""
}
