package selector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rompick/internal/classify"
	"rompick/internal/fileutil"
	"rompick/internal/index"
	"rompick/internal/pattern"
)

// Mode names the resolution strategy.
type Mode int

const (
	// ModeNameOnly prints resolved candidate names without touching the
	// filesystem.
	ModeNameOnly Mode = iota
	// ModePath looks candidates up by file or directory name inside the
	// input repository.
	ModePath
	// ModeHash resolves each candidate file through the digest index.
	ModeHash
)

// Options configures a selector run.
type Options struct {
	Mode      Mode
	InputDir  string
	OutputDir string
	// Extension is appended to candidate names in name and path modes.
	Extension string
	// Move transfers files instead of copying them.
	Move bool
	// ExcludeAfter aborts an entire family when the top-ranked candidate
	// matches.
	ExcludeAfter pattern.List
	// AllRegions keeps candidates from regions outside the preference
	// list eligible.
	AllRegions bool
	// AllRegionsWithLang keeps out-of-preference regions eligible when
	// the candidate covers at least one preferred language.
	AllRegionsWithLang bool
	// Index supplies digest lookups in ModeHash.
	Index index.Index
	// Out receives primary output, one resolved name or path per line.
	Out    io.Writer
	Logger *slog.Logger
}

// Stats summarizes a run for reporting.
type Stats struct {
	Families   int
	Selected   int
	Unresolved int
}

// Selector resolves ranked families.
type Selector struct {
	opts Options
}

// New builds a selector.
func New(opts Options) *Selector {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Selector{opts: opts}
}

// Run resolves every family in order and tallies the outcome.
// Cancellation is checked between families so an interrupt lands before
// the next transfer starts; the stats cover the work done so far.
func (s *Selector) Run(ctx context.Context, families []*classify.Family) (Stats, error) {
	stats := Stats{Families: len(families)}
	for _, family := range families {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if s.SelectFamily(family) {
			stats.Selected++
		} else {
			stats.Unresolved++
		}
	}
	return stats, nil
}

// SelectFamily walks one ranked family best-first and reports whether a
// candidate was resolved.
func (s *Selector) SelectFamily(family *classify.Family) bool {
	entries := s.eligible(family.Candidates)
	for i, entry := range entries {
		if s.opts.ExcludeAfter.MatchesAny(entry.Name) {
			s.opts.Logger.Warn("top candidate matches exclude-after, skipping family",
				slog.String("family", family.Key), slog.String("candidate", entry.Name))
			return false
		}
		last := i == len(entries)-1
		switch s.opts.Mode {
		case ModeHash:
			if s.resolveByHash(family.Key, entry) {
				return true
			}
			if last {
				s.opts.Logger.Warn("no eligible candidates found", slog.String("family", family.Key))
			}
		case ModePath:
			if s.resolveByPath(family.Key, entry) {
				return true
			}
			if last {
				s.opts.Logger.Warn("no eligible candidates found", slog.String("family", family.Key))
			}
		default:
			fmt.Fprintln(s.opts.Out, addExtension(entry.Name, s.opts.Extension))
			return true
		}
	}
	return false
}

// eligible drops candidates from unselected regions unless configured
// otherwise.
func (s *Selector) eligible(candidates []*classify.Candidate) []*classify.Candidate {
	if s.opts.AllRegions {
		return candidates
	}
	kept := make([]*classify.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Score.Region != classify.Unselected {
			kept = append(kept, candidate)
			continue
		}
		if s.opts.AllRegionsWithLang && candidate.Score.Languages < 0 {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// resolveByHash locates each declared file through the digest index.
// Partial success counts: the candidate resolves when at least one file
// was found, and each source path is printed or transferred only once.
func (s *Selector) resolveByHash(familyKey string, entry *classify.Candidate) bool {
	handled := make(map[string]struct{})
	for _, rom := range entry.Roms {
		sourcePath := s.opts.Index[rom.SHA1]
		if sourcePath == "" {
			s.opts.Logger.Warn("rom file not found",
				slog.String("family", familyKey),
				slog.String("candidate", entry.Name),
				slog.String("rom", rom.Name))
			continue
		}
		if _, done := handled[sourcePath]; done {
			continue
		}

		relName := relativeToInput(sourcePath, s.opts.InputDir)
		if s.opts.OutputDir == "" {
			fmt.Fprintln(s.opts.Out, relName)
			handled[sourcePath] = struct{}{}
			continue
		}

		fromArchive := index.IsZip(sourcePath)
		destDir := s.opts.OutputDir
		if !fromArchive && (len(entry.Roms) > 1 || strings.ContainsRune(relName, os.PathSeparator)) {
			destDir = filepath.Join(s.opts.OutputDir, entry.Name)
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				s.opts.Logger.Warn("error while creating output directory",
					slog.String("dir", destDir), slog.Any("error", err))
				continue
			}
		}
		var destPath string
		if fromArchive {
			destPath = filepath.Join(destDir, addExtension(entry.Name, "zip"))
		} else {
			destPath = filepath.Join(destDir, rom.Name)
		}
		s.transfer(sourcePath, destPath)
		handled[sourcePath] = struct{}{}
	}
	return len(handled) > 0
}

// resolveByPath looks for the candidate as a loose file or a directory of
// files directly inside the input repository.
func (s *Selector) resolveByPath(familyKey string, entry *classify.Candidate) bool {
	fileName := addExtension(entry.Name, s.opts.Extension)
	fullPath := filepath.Join(s.opts.InputDir, fileName)

	info, err := os.Stat(fullPath)
	switch {
	case err == nil && !info.IsDir():
		if s.opts.OutputDir != "" {
			s.transfer(fullPath, s.opts.OutputDir)
		} else {
			fmt.Fprintln(s.opts.Out, fileName)
		}
		return true
	case err == nil && info.IsDir():
		for _, rom := range entry.Roms {
			romPath := filepath.Join(fullPath, rom.Name)
			if romInfo, err := os.Stat(romPath); err != nil || romInfo.IsDir() {
				s.opts.Logger.Warn("rom file not found",
					slog.String("family", familyKey),
					slog.String("candidate", fileName),
					slog.String("rom", rom.Name))
				continue
			}
			if s.opts.OutputDir != "" {
				destDir := filepath.Join(s.opts.OutputDir, fileName)
				if err := os.MkdirAll(destDir, 0o755); err != nil {
					s.opts.Logger.Warn("error while creating output directory",
						slog.String("dir", destDir), slog.Any("error", err))
					continue
				}
				s.transfer(romPath, destDir)
				if err := fileutil.CopyTimes(fullPath, destDir); err != nil {
					s.opts.Logger.Warn("error while copying directory times",
						slog.String("dir", destDir), slog.Any("error", err))
				}
			} else {
				fmt.Fprintln(s.opts.Out, fileName+string(os.PathSeparator)+rom.Name)
			}
		}
		return true
	default:
		s.opts.Logger.Warn("candidate not found, trying next one",
			slog.String("family", familyKey), slog.String("candidate", fileName))
		return false
	}
}

// transfer copies or moves one file; failures are diagnostics, never
// aborts.
func (s *Selector) transfer(src, dst string) {
	var err error
	if s.opts.Move {
		s.opts.Logger.Info("moving file", slog.String("from", src), slog.String("to", dst))
		err = fileutil.MoveFile(src, dst)
	} else {
		s.opts.Logger.Info("copying file", slog.String("from", src), slog.String("to", dst))
		err = fileutil.CopyFile(src, dst)
	}
	if err != nil {
		s.opts.Logger.Warn("error while transferring file",
			slog.String("from", src), slog.String("to", dst), slog.Any("error", err))
	}
}

func addExtension(name, extension string) string {
	if extension != "" {
		return name + "." + extension
	}
	return name
}

// relativeToInput strips the input directory prefix for display.
func relativeToInput(path, inputDir string) string {
	rel, err := filepath.Rel(inputDir, path)
	if err != nil {
		return path
	}
	return rel
}
