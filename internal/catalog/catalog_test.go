package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"willena/internal/catalog"
	"willena/internal/model"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	entries := c.Entries()
	if len(entries) == 0 {
		t.Fatal("Load() returned empty embedded catalog")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Level < entries[i-1].Level {
			t.Fatalf("entries not ordered by level: %q (level %d) after %q (level %d)",
				entries[i].ProgressKey, entries[i].Level, entries[i-1].ProgressKey, entries[i-1].Level)
		}
	}
	if _, ok := c.Get("animals_1"); !ok {
		t.Fatal("Get(animals_1) missing from embedded catalog")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `{"lists":[
		{"file":"a.json","label":"A","progress_key":"a_list","level":1},
		{"file":"b.json","label":"B","progress_key":"","level":0},
		{"file":"c.json","label":"C","progress_key":"c_list","level":0,"type":"phonics"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", path, err)
	}
	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(Entries()) = %d, want 2 (keyless entry dropped)", len(entries))
	}
	if entries[0].ProgressKey != "c_list" || entries[1].ProgressKey != "a_list" {
		t.Fatalf("entries order = [%s %s], want level order [c_list a_list]",
			entries[0].ProgressKey, entries[1].ProgressKey)
	}
	if entries[1].Type != model.ListTypeWordlist {
		t.Fatalf("missing type defaulted to %q, want wordlist", entries[1].Type)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	if _, err := catalog.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Load() with missing file expected error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := catalog.Load(path); err == nil {
		t.Fatal("Load() with malformed JSON expected error")
	}
}

func TestByType(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	phonics := c.ByType(model.ListTypePhonics)
	if len(phonics) == 0 {
		t.Fatal("ByType(phonics) returned no entries")
	}
	for _, e := range phonics {
		if e.Type != model.ListTypePhonics {
			t.Fatalf("ByType(phonics) returned %q of type %q", e.ProgressKey, e.Type)
		}
	}
}
