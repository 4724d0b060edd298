package region

import (
	"testing"
)

func TestMatch(t *testing.T) {
	registry := NewRegistry(nil)

	tests := []struct {
		token string
		codes []string
	}{
		{"USA", []string{"USA"}},
		{"usa", []string{"USA"}},
		{"Europe", []string{"EUR"}},
		{"World", []string{"EUR", "JPN", "USA"}},
		{"Hong Kong", []string{"CHN"}},
		{"Europe Extra", nil},
		{"Rev 1", nil},
	}
	for _, tc := range tests {
		entries := registry.Match(tc.token)
		var codes []string
		for _, entry := range entries {
			codes = append(codes, entry.Code)
		}
		if len(codes) != len(tc.codes) {
			t.Errorf("Match(%q): got %v, want %v", tc.token, codes, tc.codes)
			continue
		}
		for i := range codes {
			if codes[i] != tc.codes[i] {
				t.Errorf("Match(%q): got %v, want %v", tc.token, codes, tc.codes)
				break
			}
		}
	}
}

func TestMatchIsFullMatchOnly(t *testing.T) {
	registry := NewRegistry(nil)
	if entries := registry.Match("Made in Japan"); len(entries) != 0 {
		t.Errorf("partial token matched: %v", entries)
	}
}

func TestLookupRegistersUnknownCodes(t *testing.T) {
	registry := NewRegistry(nil)

	if registry.Known("XYZ") {
		t.Fatal("XYZ should not be seeded")
	}
	entry := registry.Lookup("xyz")
	if entry.Code != "XYZ" {
		t.Errorf("code: got %q, want XYZ", entry.Code)
	}
	if entry.Pattern != nil || len(entry.Languages) != 0 {
		t.Errorf("auto-registered entry should be empty: %+v", entry)
	}
	if !registry.Known("XYZ") {
		t.Error("XYZ should be registered after lookup")
	}
	if again := registry.Lookup("XYZ"); again != entry {
		t.Error("lookup should return the same entry")
	}
}

func TestLookupSeededLanguages(t *testing.T) {
	registry := NewRegistry(nil)
	entry := registry.Lookup("CAN")
	if len(entry.Languages) != 2 || entry.Languages[0] != "en" || entry.Languages[1] != "fr" {
		t.Errorf("CAN languages: %v", entry.Languages)
	}
}
