package pattern

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseInlineLiteral(t *testing.T) {
	list, err := Parse("Virtual Console, Beta", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("entries: got %d, want 2", len(list))
	}
	if !list.MatchesAny("Some Game (Virtual Console)") {
		t.Error("expected substring match")
	}
	if list.MatchesAny("Some Game (virtual console)") {
		t.Error("matching should be case sensitive by default")
	}
}

func TestParseIgnoreCase(t *testing.T) {
	list, err := Parse("Virtual Console", Options{IgnoreCase: true})
	if err != nil {
		t.Fatal(err)
	}
	if !list.MatchesAny("Some Game (VIRTUAL CONSOLE)") {
		t.Error("expected case-insensitive match")
	}
}

func TestParseLiteralEscapesMetaCharacters(t *testing.T) {
	list, err := Parse("Game (USA)", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !list.MatchesAny("Game (USA) (Rev 1)") {
		t.Error("literal parentheses should match")
	}
	if list.MatchesAny("Game USA") {
		t.Error("literal mode should not interpret parentheses as groups")
	}
}

func TestParseRegex(t *testing.T) {
	list, err := Parse(`\(Rev [0-9]+\)`, Options{Regex: true})
	if err != nil {
		t.Fatal(err)
	}
	if !list.MatchesAny("Game (Rev 12)") {
		t.Error("expected regex match")
	}
	if list.MatchesAny("Game (Rev A)") {
		t.Error("unexpected regex match")
	}
}

func TestParseRejectsBadRegex(t *testing.T) {
	if _, err := Parse("(unclosed", Options{Regex: true}); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestParseCustomSeparator(t *testing.T) {
	list, err := Parse("a,b;c,d", Options{Separator: ";"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("entries: got %d, want 2", len(list))
	}
	if !list.MatchesAny("xx a,b xx") {
		t.Error("expected match on first entry")
	}
}

func TestParseFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avoid.txt")
	if err := os.WriteFile(path, []byte("Alpha\n\n  Beta  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := Parse(FilePrefix+path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("entries: got %d, want 2", len(list))
	}
	if !list.MatchesAny("Beta Game") {
		t.Error("expected match from file entry")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(FilePrefix+"/no/such/file", Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEmptyListNeverMatches(t *testing.T) {
	list, err := Parse("", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if list.MatchesAny("anything") {
		t.Error("empty list must not match")
	}
}
