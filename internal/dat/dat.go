package dat

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Rom is one file belonging to a game entry.
type Rom struct {
	Name string `xml:"name,attr"`
	Size int64  `xml:"size,attr"`
	CRC  string `xml:"crc,attr"`
	MD5  string `xml:"md5,attr"`
	SHA1 string `xml:"sha1,attr"`
}

// Release is a declared regional release of a game.
type Release struct {
	Name   string `xml:"name,attr"`
	Region string `xml:"region,attr"`
}

// Game is one logical catalog entry with its releases and files.
type Game struct {
	Name        string    `xml:"name,attr"`
	CloneOf     string    `xml:"cloneof,attr"`
	Description string    `xml:"description"`
	Releases    []Release `xml:"release"`
	Roms        []Rom     `xml:"rom"`
}

// Header carries the DAT self-description block.
type Header struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Version     string `xml:"version"`
	Author      string `xml:"author"`
}

// File is a parsed DAT catalog.
type File struct {
	XMLName xml.Name `xml:"datafile"`
	Header  Header   `xml:"header"`
	Games   []Game   `xml:"game"`
}

// Parse reads a DAT catalog from r. SHA1 digests are lowercased so they can
// be compared against hash index keys without further normalization.
func Parse(r io.Reader) (*File, error) {
	decoder := xml.NewDecoder(r)
	// Many DAT files in the wild declare legacy encodings.
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	var file File
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse dat: %w", err)
	}
	for i := range file.Games {
		game := &file.Games[i]
		for j := range game.Roms {
			game.Roms[j].SHA1 = strings.ToLower(strings.TrimSpace(game.Roms[j].SHA1))
		}
	}
	return &file, nil
}

// ParseFile parses the DAT catalog at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dat: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Digests returns the set of every SHA1 digest declared in the catalog.
func (f *File) Digests() map[string]struct{} {
	digests := make(map[string]struct{})
	for i := range f.Games {
		for _, rom := range f.Games[i].Roms {
			if rom.SHA1 != "" {
				digests[rom.SHA1] = struct{}{}
			}
		}
	}
	return digests
}

// Check summarizes structural properties the pipeline cares about.
type Check struct {
	// HasCloneOf reports whether any game declares a parent. Without
	// clone relationships the DAT is a "Standard" DAT and every game
	// forms its own family.
	HasCloneOf bool
	// MissingSHA1 names the first game that declares a ROM without a
	// SHA1 digest, which makes hash-based resolution impossible.
	MissingSHA1 string
	// Games is the number of catalog entries.
	Games int
}

// Inspect validates the catalog's structure for downstream use.
func (f *File) Inspect() Check {
	check := Check{Games: len(f.Games)}
	for i := range f.Games {
		if f.Games[i].CloneOf != "" {
			check.HasCloneOf = true
			break
		}
	}
	for i := range f.Games {
		for _, rom := range f.Games[i].Roms {
			if rom.SHA1 == "" {
				check.MissingSHA1 = f.Games[i].Name
				return check
			}
		}
	}
	return check
}
