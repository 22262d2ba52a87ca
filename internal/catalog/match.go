package catalog

import (
	"path"
	"strings"

	"willena/internal/model"
)

// Match resolves a session's raw list reference against the catalog. The
// games recorded whatever they had at hand: a progress key, a display
// label, a filename, sometimes a full path. Tried in order:
//
//  1. exact progress key
//  2. exact label
//  3. basename without extension on both sides
//  4. stripped-extension equality on either side
//  5. token overlap: at least two shared tokens (heuristic, last resort)
//
// The second result is false when nothing matches; callers treat that as
// "this session counts toward no list", never as an error.
func Match(ref string, entries []model.CatalogEntry) (model.CatalogEntry, bool) {
	ref = normalize(ref)
	if ref == "" {
		return model.CatalogEntry{}, false
	}

	for _, e := range entries {
		if normalize(e.ProgressKey) == ref {
			return e, true
		}
	}
	for _, e := range entries {
		if normalize(e.Label) == ref {
			return e, true
		}
	}
	refBase := stripExt(path.Base(ref))
	for _, e := range entries {
		if stripExt(path.Base(normalize(e.File))) == refBase {
			return e, true
		}
	}
	refStripped := stripExt(ref)
	for _, e := range entries {
		if stripExt(normalize(e.ProgressKey)) == refStripped ||
			stripExt(normalize(e.Label)) == refStripped ||
			stripExt(normalize(e.File)) == refStripped {
			return e, true
		}
	}

	// Known limitation: on short names two shared tokens can false-match.
	refTokens := tokens(refBase)
	if len(refTokens) >= 2 {
		for _, e := range entries {
			if overlap(refTokens, tokens(normalize(e.Label))) >= 2 ||
				overlap(refTokens, tokens(stripExt(path.Base(normalize(e.File))))) >= 2 {
				return e, true
			}
		}
	}

	return model.CatalogEntry{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func stripExt(s string) string {
	if ext := path.Ext(s); ext != "" {
		return strings.TrimSuffix(s, ext)
	}
	return s
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '/':
			return true
		}
		return false
	})
}

func overlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
