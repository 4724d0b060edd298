package selector

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rompick/internal/classify"
	"rompick/internal/dat"
	"rompick/internal/index"
	"rompick/internal/pattern"
)

func candidate(name, region string, roms ...dat.Rom) *classify.Candidate {
	return &classify.Candidate{
		Name:   name,
		Region: region,
		Roms:   roms,
		Score:  classify.Score{Region: 0},
	}
}

func familyOf(key string, candidates ...*classify.Candidate) *classify.Family {
	return &classify.Family{Key: key, Candidates: candidates}
}

func TestNameOnlyMode(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Mode: ModeNameOnly, Extension: "zip", Out: &out})

	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA", dat.Rom{Name: "Quest (USA).rom"}),
		candidate("Quest (Europe)", "EUR", dat.Rom{Name: "Quest (Europe).rom"}),
	))
	if !resolved {
		t.Fatal("expected resolution")
	}
	if got := out.String(); got != "Quest (USA).zip\n" {
		t.Errorf("output: %q", got)
	}
}

func TestExcludeAfterAbortsWholeFamily(t *testing.T) {
	excludeAfter, err := pattern.Parse("Quest (USA)", pattern.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	s := New(Options{Mode: ModeNameOnly, ExcludeAfter: excludeAfter, Out: &out})

	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA"),
		candidate("Quest (Europe)", "EUR"),
	))
	if resolved {
		t.Fatal("exclude-after must abort the family")
	}
	if out.Len() != 0 {
		t.Errorf("no output expected, got %q", out.String())
	}
}

func TestEligibilityFiltering(t *testing.T) {
	unselected := candidate("Quest (Japan)", "JPN")
	unselected.Score = classify.Score{Region: classify.Unselected, Languages: 0}
	withLang := candidate("Quest (Korea) (En)", "KOR")
	withLang.Score = classify.Score{Region: classify.Unselected, Languages: -3}

	var out bytes.Buffer
	s := New(Options{Mode: ModeNameOnly, Out: &out})
	if s.SelectFamily(familyOf("Quest", unselected)) {
		t.Error("unselected region must not resolve by default")
	}

	out.Reset()
	s = New(Options{Mode: ModeNameOnly, AllRegionsWithLang: true, Out: &out})
	if !s.SelectFamily(familyOf("Quest", unselected, withLang)) {
		t.Error("candidate with preferred language must stay eligible")
	}
	if got := out.String(); !strings.Contains(got, "Korea") {
		t.Errorf("output: %q", got)
	}

	out.Reset()
	s = New(Options{Mode: ModeNameOnly, AllRegions: true, Out: &out})
	if !s.SelectFamily(familyOf("Quest", unselected)) {
		t.Error("all-regions must keep every candidate eligible")
	}
}

func TestPathModeFile(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "Quest (USA).zip"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	s := New(Options{Mode: ModePath, InputDir: inputDir, Extension: "zip", Out: &out})
	if !s.SelectFamily(familyOf("Quest", candidate("Quest (USA)", "USA"))) {
		t.Fatal("expected resolution")
	}
	if got := out.String(); got != "Quest (USA).zip\n" {
		t.Errorf("output: %q", got)
	}

	// With an output directory the file is copied instead of printed.
	out.Reset()
	s = New(Options{Mode: ModePath, InputDir: inputDir, OutputDir: outputDir, Extension: "zip", Out: &out})
	if !s.SelectFamily(familyOf("Quest", candidate("Quest (USA)", "USA"))) {
		t.Fatal("expected resolution")
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Quest (USA).zip")); err != nil {
		t.Errorf("copied file missing: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("no primary output expected when copying, got %q", out.String())
	}
}

func TestPathModeDirectory(t *testing.T) {
	inputDir := t.TempDir()
	gameDir := filepath.Join(inputDir, "Quest (USA)")
	if err := os.Mkdir(gameDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gameDir, "disc1.rom"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	s := New(Options{Mode: ModePath, InputDir: inputDir, Out: &out})
	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA",
			dat.Rom{Name: "disc1.rom"},
			dat.Rom{Name: "disc2.rom"}, // missing, diagnostic only
		),
	))
	if !resolved {
		t.Fatal("expected resolution despite missing sibling")
	}
	want := "Quest (USA)" + string(os.PathSeparator) + "disc1.rom\n"
	if got := out.String(); got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}

func TestPathModeFallsThroughToNextCandidate(t *testing.T) {
	inputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "Quest (Europe)"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	s := New(Options{Mode: ModePath, InputDir: inputDir, Out: &out})
	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA"),
		candidate("Quest (Europe)", "EUR"),
	))
	if !resolved {
		t.Fatal("expected second candidate to resolve")
	}
	if got := out.String(); got != "Quest (Europe)\n" {
		t.Errorf("output: %q", got)
	}
}

func TestHashModePrintsRelativePaths(t *testing.T) {
	inputDir := t.TempDir()
	sub := filepath.Join(inputDir, "roms")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	sourcePath := filepath.Join(sub, "quest.rom")
	if err := os.WriteFile(sourcePath, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := index.Index{"aa": sourcePath, "bb": ""}
	var out bytes.Buffer
	s := New(Options{Mode: ModeHash, InputDir: inputDir, Index: idx, Out: &out})
	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA",
			dat.Rom{Name: "quest.rom", SHA1: "aa"},
			dat.Rom{Name: "manual.rom", SHA1: "bb"}, // unresolved, partial success
		),
	))
	if !resolved {
		t.Fatal("expected partial resolution")
	}
	want := filepath.Join("roms", "quest.rom") + "\n"
	if got := out.String(); got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}

func TestHashModeUnresolvedAdvances(t *testing.T) {
	inputDir := t.TempDir()
	found := filepath.Join(inputDir, "second.rom")
	if err := os.WriteFile(found, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := index.Index{"aa": "", "bb": found}
	var out bytes.Buffer
	s := New(Options{Mode: ModeHash, InputDir: inputDir, Index: idx, Out: &out})
	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA", dat.Rom{Name: "first.rom", SHA1: "aa"}),
		candidate("Quest (Europe)", "EUR", dat.Rom{Name: "second.rom", SHA1: "bb"}),
	))
	if !resolved {
		t.Fatal("expected second candidate to resolve")
	}
	if got := out.String(); got != "second.rom\n" {
		t.Errorf("output: %q", got)
	}
}

func TestHashModeTransfersArchiveUnderCandidateName(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	zipPath := filepath.Join(inputDir, "bundle.zip")
	if err := os.WriteFile(zipPath, []byte("zipdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := index.Index{"aa": zipPath}
	s := New(Options{Mode: ModeHash, InputDir: inputDir, OutputDir: outputDir, Index: idx})
	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA", dat.Rom{Name: "quest.rom", SHA1: "aa"}),
	))
	if !resolved {
		t.Fatal("expected resolution")
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Quest (USA).zip")); err != nil {
		t.Errorf("archive should be renamed to the candidate: %v", err)
	}
}

func TestHashModeMultiRomLooseFilesGetCandidateDirectory(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	first := filepath.Join(inputDir, "disc1.rom")
	second := filepath.Join(inputDir, "disc2.rom")
	for _, p := range []string{first, second} {
		if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	idx := index.Index{"aa": first, "bb": second}
	s := New(Options{Mode: ModeHash, InputDir: inputDir, OutputDir: outputDir, Index: idx})
	resolved := s.SelectFamily(familyOf("Quest",
		candidate("Quest (USA)", "USA",
			dat.Rom{Name: "disc1.rom", SHA1: "aa"},
			dat.Rom{Name: "disc2.rom", SHA1: "bb"},
		),
	))
	if !resolved {
		t.Fatal("expected resolution")
	}
	for _, name := range []string{"disc1.rom", "disc2.rom"} {
		if _, err := os.Stat(filepath.Join(outputDir, "Quest (USA)", name)); err != nil {
			t.Errorf("%s missing from candidate directory: %v", name, err)
		}
	}
}

func TestRunTallies(t *testing.T) {
	var out bytes.Buffer
	s := New(Options{Mode: ModeNameOnly, Out: &out})
	unselected := candidate("Lost (Japan)", "JPN")
	unselected.Score = classify.Score{Region: classify.Unselected}

	stats, err := s.Run(context.Background(), []*classify.Family{
		familyOf("Quest", candidate("Quest (USA)", "USA")),
		familyOf("Lost", unselected),
	})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Families != 2 || stats.Selected != 1 || stats.Unresolved != 1 {
		t.Errorf("stats: %+v", stats)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := New(Options{Mode: ModeNameOnly, Out: &out})
	stats, err := s.Run(ctx, []*classify.Family{
		familyOf("Quest", candidate("Quest (USA)", "USA")),
		familyOf("Saga", candidate("Saga (USA)", "USA")),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats.Selected != 0 {
		t.Errorf("no family should resolve after cancellation: %+v", stats)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %q", out.String())
	}
}
