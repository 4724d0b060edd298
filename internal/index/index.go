package index

import (
	"archive/zip"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"sync"
)

// DefaultChunkSize bounds per-read memory while hashing (32 MiB).
const DefaultChunkSize = 32 << 20

var zipSuffix = regexp.MustCompile(`(?i)\.zip$`)

// IsZip reports whether path names a zip archive by suffix.
func IsZip(path string) bool {
	return zipSuffix.MatchString(path)
}

// Index maps a lowercase SHA1 digest to the repository path providing it.
// Digests declared in the catalog but never found map to the empty string.
type Index map[string]string

// Options tunes the scan.
type Options struct {
	// Workers is the pool size; zero or negative picks one per CPU.
	Workers int
	// ChunkSize is the read granularity; zero picks DefaultChunkSize.
	// Cancellation is checked between chunks, so smaller chunks abort
	// faster at the cost of more read calls.
	ChunkSize int64
	// Total, when non-nil, is called once with the number of files the
	// scan will hash, before any Progress call.
	Total func(int)
	// Progress, when non-nil, is called once per processed file.
	Progress func()
	Logger   *slog.Logger
}

type fileEntry struct {
	path string
	size int64
}

// Build scans dir and returns the index for the wanted digest set. The
// returned index contains every wanted digest; unresolved ones keep an
// empty path. On cancellation the partial per-file results are discarded
// and ctx.Err is returned.
func Build(ctx context.Context, dir string, wanted map[string]struct{}, opts Options) (Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	result := make(Index, len(wanted))
	for digest := range wanted {
		result[digest] = ""
	}

	files := listFiles(dir, logger)
	logger.Info("scanned input directory", slog.String("dir", dir), slog.Int("files", len(files)))
	if opts.Total != nil {
		opts.Total(len(files))
	}
	if len(files) == 0 {
		return result, nil
	}

	jobs := make(chan fileEntry)
	partials := make([]map[string]string, 0, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, chunkSize)
			for entry := range jobs {
				if ctx.Err() != nil {
					return
				}
				partial := hashFile(ctx, entry.path, buf, logger)
				if ctx.Err() != nil {
					return
				}
				mu.Lock()
				partials = append(partials, partial)
				mu.Unlock()
				if opts.Progress != nil {
					opts.Progress()
				}
			}
		}()
	}

dispatch:
	for _, entry := range files {
		select {
		case jobs <- entry:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	// Merge single-threaded after the pool drains; a cancelled scan must
	// never publish partial results.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, partial := range partials {
		for digest, path := range partial {
			current, tracked := result[digest]
			if !tracked {
				continue
			}
			switch {
			case current == "":
				result[digest] = path
			case IsZip(current) && !IsZip(path):
				// A loose file always beats an archive member.
				result[digest] = path
			}
		}
	}
	return result, nil
}

// listFiles walks dir and returns regular files ordered largest first.
// Unreadable entries are reported and skipped.
func listFiles(dir string, logger *slog.Logger) []fileEntry {
	var files []fileEntry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("error while listing", slog.Any("error", err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Warn("error while reading file info", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		files = append(files, fileEntry{path: path, size: info.Size()})
		return nil
	})
	if err != nil {
		logger.Warn("error while walking input directory", slog.Any("error", err))
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].size > files[j].size })
	return files
}

// hashFile produces the digest map of one repository file: each archive
// member independently, plus the monolithic file. Within one file's map a
// loose digest overrides an archive-sourced one.
func hashFile(ctx context.Context, path string, buf []byte, logger *slog.Logger) map[string]string {
	result := make(map[string]string)

	if IsZip(path) {
		archive, err := zip.OpenReader(path)
		if err != nil {
			logger.Warn("error while reading archive", slog.String("path", path), slog.Any("error", err))
		} else {
			for _, member := range archive.File {
				if ctx.Err() != nil {
					break
				}
				digest, err := hashZipMember(ctx, member, buf)
				if err != nil {
					logger.Warn("error while hashing archive member",
						slog.String("path", path), slog.String("member", member.Name), slog.Any("error", err))
					continue
				}
				result[digest] = path
			}
			archive.Close()
		}
	}

	if ctx.Err() != nil {
		return result
	}
	digest, err := hashWholeFile(ctx, path, buf)
	if err != nil {
		logger.Warn("error while reading file", slog.String("path", path), slog.Any("error", err))
		return result
	}
	if current, ok := result[digest]; !ok || IsZip(current) {
		result[digest] = path
	}
	return result
}

func hashZipMember(ctx context.Context, member *zip.File, buf []byte) (string, error) {
	stream, err := member.Open()
	if err != nil {
		return "", err
	}
	defer stream.Close()
	return hashStream(ctx, stream, buf)
}

func hashWholeFile(ctx context.Context, path string, buf []byte) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hashStream(ctx, f, buf)
}

// hashStream hashes r in chunks, checking for cancellation between reads.
func hashStream(ctx context.Context, r io.Reader, buf []byte) (string, error) {
	hasher := sha1.New()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
