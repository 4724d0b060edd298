package index

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func digestOf(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, path string, members map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.Bytes())
}

func wantedSet(digests ...string) map[string]struct{} {
	wanted := make(map[string]struct{}, len(digests))
	for _, d := range digests {
		wanted[d] = struct{}{}
	}
	return wanted
}

func TestBuildLooseFiles(t *testing.T) {
	dir := t.TempDir()
	data := []byte("game contents")
	path := filepath.Join(dir, "game.rom")
	writeFile(t, path, data)

	idx, err := Build(context.Background(), dir, wantedSet(digestOf(data), "feedface"), Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx[digestOf(data)]; got != path {
		t.Errorf("digest path: got %q, want %q", got, path)
	}
	if got := idx["feedface"]; got != "" {
		t.Errorf("unresolved digest must stay empty, got %q", got)
	}
}

func TestBuildZipMembers(t *testing.T) {
	dir := t.TempDir()
	inner := []byte("inner rom data")
	zipPath := filepath.Join(dir, "bundle.zip")
	writeZip(t, zipPath, map[string][]byte{"inner.rom": inner})

	idx, err := Build(context.Background(), dir, wantedSet(digestOf(inner)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx[digestOf(inner)]; got != zipPath {
		t.Errorf("member digest: got %q, want %q", got, zipPath)
	}
}

func TestBuildLooseBeatsArchive(t *testing.T) {
	dir := t.TempDir()
	data := []byte("shared content")
	loosePath := filepath.Join(dir, "loose.rom")
	writeFile(t, loosePath, data)
	writeZip(t, filepath.Join(dir, "archived.zip"), map[string][]byte{"member.rom": data})

	// Regardless of scan order the loose path must win.
	for i := 0; i < 10; i++ {
		idx, err := Build(context.Background(), dir, wantedSet(digestOf(data)), Options{Workers: 4})
		if err != nil {
			t.Fatal(err)
		}
		if got := idx[digestOf(data)]; got != loosePath {
			t.Fatalf("run %d: got %q, want loose path %q", i, got, loosePath)
		}
	}
}

// Known nondeterminism: a digest found only inside two different archives
// resolves to whichever archive a worker finished first. The index must
// still name one of them.
func TestBuildArchiveOnlyDigestIsEitherArchive(t *testing.T) {
	dir := t.TempDir()
	data := []byte("archive only content")
	first := filepath.Join(dir, "first.zip")
	second := filepath.Join(dir, "second.zip")
	writeZip(t, first, map[string][]byte{"member.rom": data})
	writeZip(t, second, map[string][]byte{"member.rom": data})

	idx, err := Build(context.Background(), dir, wantedSet(digestOf(data)), Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx[digestOf(data)]; got != first && got != second {
		t.Errorf("got %q, want one of the two archives", got)
	}
}

func TestBuildCorruptArchiveStillHashesWholeFile(t *testing.T) {
	dir := t.TempDir()
	garbage := []byte("this is not a zip file")
	path := filepath.Join(dir, "broken.zip")
	writeFile(t, path, garbage)

	idx, err := Build(context.Background(), dir, wantedSet(digestOf(garbage)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx[digestOf(garbage)]; got != path {
		t.Errorf("whole-file digest: got %q, want %q", got, path)
	}
}

func TestBuildCancellationDiscardsResults(t *testing.T) {
	dir := t.TempDir()
	var digests []string
	for i := 0; i < 8; i++ {
		data := []byte{byte(i), byte(i + 1), byte(i + 2)}
		writeFile(t, filepath.Join(dir, string(rune('a'+i))+".rom"), data)
		digests = append(digests, digestOf(data))
	}

	ctx, cancel := context.WithCancel(context.Background())
	idx, err := Build(ctx, dir, wantedSet(digests...), Options{
		Workers:  1,
		Progress: cancel, // cancel as soon as the first file completes
	})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if idx != nil {
		t.Errorf("cancelled scan must not publish an index, got %d entries", len(idx))
	}
}

func TestBuildEmptyDirectory(t *testing.T) {
	idx, err := Build(context.Background(), t.TempDir(), wantedSet("cafebabe"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx["cafebabe"]; got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestBuildReportsTotalBeforeProgress(t *testing.T) {
	dir := t.TempDir()
	first := []byte("first rom")
	second := []byte("second rom")
	writeFile(t, filepath.Join(dir, "first.rom"), first)
	writeFile(t, filepath.Join(dir, "second.rom"), second)

	total := -1
	processed := 0
	opts := Options{
		Workers: 1,
		Total:   func(n int) { total = n },
		Progress: func() {
			if total < 0 {
				t.Error("progress reported before the total")
			}
			processed++
		},
	}
	if _, err := Build(context.Background(), dir, wantedSet(digestOf(first)), opts); err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("total: got %d, want 2", total)
	}
	if processed != 2 {
		t.Errorf("processed: got %d, want 2", processed)
	}
}

func TestIsZip(t *testing.T) {
	if !IsZip("a/b/c.ZIP") || !IsZip("rom.zip") {
		t.Error("zip suffixes must match case-insensitively")
	}
	if IsZip("rom.zip.bak") || IsZip("rom.7z") {
		t.Error("non-zip suffixes must not match")
	}
}
