package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the repository directories.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
}

// Selection contains the ordering preferences driving candidate ranking.
type Selection struct {
	Regions             []string `toml:"regions"`
	Languages           []string `toml:"languages"`
	LanguageWeight      int      `toml:"language_weight"`
	PrioritizeLanguages bool     `toml:"prioritize_languages"`
	PreferParents       bool     `toml:"prefer_parents"`
	PreferPrereleases   bool     `toml:"prefer_prereleases"`
	EarlyRevisions      bool     `toml:"early_revisions"`
	EarlyVersions       bool     `toml:"early_versions"`
	InputOrder          bool     `toml:"input_order"`
	AllRegions          bool     `toml:"all_regions"`
	AllRegionsWithLang  bool     `toml:"all_regions_with_lang"`
	Extension           string   `toml:"extension"`
}

// Filters contains the category drops applied before candidate expansion.
type Filters struct {
	NoBios            bool `toml:"no_bios"`
	NoProgram         bool `toml:"no_program"`
	NoEnhancementChip bool `toml:"no_enhancement_chip"`
	NoUnlicensed      bool `toml:"no_unlicensed"`
	NoPirate          bool `toml:"no_pirate"`
	NoPromo           bool `toml:"no_promo"`
	NoProto           bool `toml:"no_proto"`
	NoBeta            bool `toml:"no_beta"`
	NoDemo            bool `toml:"no_demo"`
	NoSample          bool `toml:"no_sample"`
}

// Lists contains the name pattern lists and their matching switches.
type Lists struct {
	Prefer       string `toml:"prefer"`
	Avoid        string `toml:"avoid"`
	Exclude      string `toml:"exclude"`
	ExcludeAfter string `toml:"exclude_after"`
	Separator    string `toml:"separator"`
	IgnoreCase   bool   `toml:"ignore_case"`
	Regex        bool   `toml:"regex"`
}

// Index contains hash scan tuning.
type Index struct {
	UseHashes    bool `toml:"use_hashes"`
	Threads      int  `toml:"threads"`
	ChunkSizeMiB int  `toml:"chunk_size_mib"`
}

// Transfer contains file transfer behavior.
type Transfer struct {
	Move bool `toml:"move"`
}

// Logging contains diagnostic output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates every knob the CLI needs.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Selection Selection `toml:"selection"`
	Filters   Filters   `toml:"filters"`
	Lists     Lists     `toml:"lists"`
	Index     Index     `toml:"index"`
	Transfer  Transfer  `toml:"transfer"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rompick/config.toml")
}

// Load locates and parses a configuration file, merging it over the
// repository defaults. Path fields come back expanded; Validate is the
// caller's job once flag overrides have been applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("rompick.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
