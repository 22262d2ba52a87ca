package catalog_test

import (
	"testing"

	"willena/internal/catalog"
	"willena/internal/model"
)

var matchEntries = []model.CatalogEntry{
	{File: "data/wordlists/animals_1.json", Label: "Animals 1", ProgressKey: "animals_1", Type: model.ListTypeWordlist},
	{File: "data/wordlists/colors_shapes.json", Label: "Colors & Shapes", ProgressKey: "colors_shapes", Type: model.ListTypeWordlist},
	{File: "data/phonics/short_vowels.json", Label: "Short Vowels", ProgressKey: "phonics_short_vowels", Type: model.ListTypePhonics},
}

func TestMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		ref     string
		wantKey string
		wantOK  bool
	}{
		{"progress key", "animals_1", "animals_1", true},
		{"progress key trimmed and cased", "  Animals_1 ", "animals_1", true},
		{"label", "Colors & Shapes", "colors_shapes", true},
		{"file basename", "short_vowels.json", "phonics_short_vowels", true},
		{"full path", "data/wordlists/animals_1.json", "animals_1", true},
		{"key with stray extension", "colors_shapes.json", "colors_shapes", true},
		{"token overlap", "animals 1 review", "animals_1", true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"no match", "dinosaurs_7", "", false},
		{"single shared token is not enough", "animals", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := catalog.Match(tc.ref, matchEntries)
			if ok != tc.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tc.ref, ok, tc.wantOK)
			}
			if ok && got.ProgressKey != tc.wantKey {
				t.Fatalf("Match(%q) = %q, want %q", tc.ref, got.ProgressKey, tc.wantKey)
			}
		})
	}
}

func TestMatchPrefersExactKeyOverLabel(t *testing.T) {
	t.Parallel()

	entries := []model.CatalogEntry{
		{File: "a.json", Label: "colors", ProgressKey: "old_colors"},
		{File: "b.json", Label: "Colors New", ProgressKey: "colors"},
	}
	got, ok := catalog.Match("colors", entries)
	if !ok || got.ProgressKey != "colors" {
		t.Fatalf("Match(colors) = %+v ok=%v, want exact key winner", got, ok)
	}
}
