package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"willena/internal/model"
)

//go:embed catalog.json
var defaultCatalogRawJSON []byte

type catalogFile struct {
	Lists []model.CatalogEntry `json:"lists"`
}

// Catalog is the static set of learnable lists. Loaded once at startup;
// read-only afterwards.
type Catalog struct {
	entries []model.CatalogEntry
	byKey   map[string]model.CatalogEntry
}

// Load reads the catalog from the given path, or from the embedded default
// when path is empty.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalogRawJSON
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		raw = data
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	entries := make([]model.CatalogEntry, 0, len(file.Lists))
	byKey := make(map[string]model.CatalogEntry, len(file.Lists))
	for _, e := range file.Lists {
		e.ProgressKey = strings.TrimSpace(e.ProgressKey)
		if e.ProgressKey == "" {
			continue
		}
		if e.Type == "" {
			e.Type = model.ListTypeWordlist
		}
		entries = append(entries, e)
		byKey[e.ProgressKey] = e
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level < entries[j].Level
		}
		return entries[i].ProgressKey < entries[j].ProgressKey
	})

	return &Catalog{entries: entries, byKey: byKey}, nil
}

// Entries returns all catalog entries ordered by level then key.
func (c *Catalog) Entries() []model.CatalogEntry {
	return c.entries
}

// ByType returns the entries of one category, preserving catalog order.
func (c *Catalog) ByType(t model.ListType) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Get looks an entry up by progress key.
func (c *Catalog) Get(progressKey string) (model.CatalogEntry, bool) {
	e, ok := c.byKey[progressKey]
	return e, ok
}

// Match resolves a raw list reference against this catalog.
func (c *Catalog) Match(ref string) (model.CatalogEntry, bool) {
	return Match(ref, c.entries)
}
