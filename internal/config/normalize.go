package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Normalize expands paths and canonicalizes region and language codes.
// It runs after Load and again is safe after flag overrides.
func (c *Config) Normalize() error {
	var err error
	if c.Paths.InputDir != "" {
		if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
			return err
		}
	}
	if c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return err
		}
	}

	regions := make([]string, 0, len(c.Selection.Regions))
	for _, code := range c.Selection.Regions {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			regions = append(regions, code)
		}
	}
	c.Selection.Regions = regions

	languages := make([]string, 0, len(c.Selection.Languages))
	for _, code := range c.Selection.Languages {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		canonical, err := canonicalLanguage(code)
		if err != nil {
			return err
		}
		languages = append(languages, canonical)
	}
	c.Selection.Languages = languages

	if c.Lists.Separator == "" {
		c.Lists.Separator = ","
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

func canonicalLanguage(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
