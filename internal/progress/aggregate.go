package progress

import (
	"math"

	"willena/internal/catalog"
	"willena/internal/model"
)

// generalModes is the required mode set for wordlists and grammar lists.
// Completion is averaged over the full set, so a list only approaches 100%
// once every mode has been practiced well, not on the strength of one easy
// mode.
var generalModes = []Mode{
	ModeMeaning,
	ModeListening,
	ModeMultiChoice,
	ModeListenAndSpell,
	ModeSpelling,
	ModeSentence,
}

// phonicsModes is the smaller required set for phonics lists, which have
// no meaning or sentence games.
var phonicsModes = []Mode{
	ModeListening,
	ModeMultiChoice,
	ModeSpelling,
	ModeListenAndSpell,
}

// RequiredModes returns the fixed mode set completion is computed over for
// a list category.
func RequiredModes(t model.ListType) []Mode {
	if t == model.ListTypePhonics {
		return phonicsModes
	}
	return generalModes
}

// ListProgress is the derived progress for one catalog entry.
type ListProgress struct {
	Entry      model.CatalogEntry `json:"entry"`
	Best       map[Mode]float64   `json:"best"`
	Completion float64            `json:"completion"`
}

// Result is the aggregate over one consistent snapshot of a user's
// sessions, keyed by catalog progress key.
type Result struct {
	Lists map[string]*ListProgress `json:"lists"`

	// UnknownModes keeps the raw strings that resolved to no canonical
	// mode, so they can be surfaced instead of silently dropped.
	UnknownModes []string `json:"unknown_modes,omitempty"`
}

// Aggregate folds a batch of sessions into per-list best-score-per-mode
// maps and completion percentages. Sessions that match no catalog entry or
// carry no extractable score simply do not count; they are not errors.
// Best scores only ever grow as sessions accumulate because the full set
// is re-folded and the maximum kept.
func Aggregate(sessions []model.Session, entries []model.CatalogEntry) *Result {
	res := &Result{Lists: make(map[string]*ListProgress)}

	for _, s := range sessions {
		entry, ok := catalog.Match(s.ListName, entries)
		if !ok {
			continue
		}
		mode := Canonicalize(s.Mode)
		if mode == ModeUnknown {
			res.UnknownModes = append(res.UnknownModes, s.Mode)
			continue
		}
		pct, ok := ExtractPercent(s)
		if !ok {
			continue
		}
		lp := res.Lists[entry.ProgressKey]
		if lp == nil {
			lp = &ListProgress{Entry: entry, Best: make(map[Mode]float64)}
			res.Lists[entry.ProgressKey] = lp
		}
		if pct > lp.Best[mode] {
			lp.Best[mode] = pct
		}
	}

	for _, lp := range res.Lists {
		lp.Completion = completion(lp.Best, RequiredModes(lp.Entry.Type))
	}
	return res
}

// completion averages best scores over the fixed required set; modes never
// attempted contribute zero.
func completion(best map[Mode]float64, required []Mode) float64 {
	if len(required) == 0 {
		return 0
	}
	var sum float64
	for _, m := range required {
		sum += best[m]
	}
	return math.Round(sum / float64(len(required)))
}
