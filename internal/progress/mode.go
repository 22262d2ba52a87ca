package progress

import "strings"

// Mode is the canonical practice-mode category. The games write free-text
// mode strings; every raw string collapses into exactly one Mode.
type Mode string

const (
	ModeMeaning        Mode = "meaning"
	ModeListening      Mode = "listening"
	ModeMultiChoice    Mode = "multi_choice"
	ModeListenAndSpell Mode = "listen_and_spell"
	ModeSpelling       Mode = "spelling"
	ModeMissingLetter  Mode = "missing_letter"
	ModeSentence       Mode = "sentence"
	ModeLevelUp        Mode = "level_up"
	ModeUnknown        Mode = "unknown"
)

// modeRule pairs a predicate with the mode it resolves to. Rules are
// evaluated in order, first match wins; the order encodes specificity,
// so more distinctive substrings are tested before broader ones.
type modeRule struct {
	mode  Mode
	match func(s string) bool
}

func isSentence(s string) bool {
	return strings.Contains(s, "sentence")
}

func isMeaning(s string) bool {
	return s == "matching" || strings.HasPrefix(s, "matching_") || s == "meaning"
}

func isListening(s string) bool {
	switch s {
	case "phonics_listening", "listen", "listening":
		return true
	}
	return strings.HasPrefix(s, "listening_") && !strings.Contains(s, "spell")
}

func isListenAndSpell(s string) bool {
	return strings.Contains(s, "listen") && strings.Contains(s, "spell")
}

func isMissingLetter(s string) bool {
	return strings.Contains(s, "missing_letter")
}

func isSpelling(s string) bool {
	switch s {
	case "spelling", "missing_letter":
		return true
	}
	return strings.Contains(s, "spell") && !strings.Contains(s, "listen")
}

func isMultiChoice(s string) bool {
	switch s {
	case "multi_choice", "easy_picture", "picture", "picture_mode":
		return true
	}
	return strings.Contains(s, "multi_choice") ||
		strings.Contains(s, "picture_multi_choice") ||
		strings.Contains(s, "read")
}

func isLevelUp(s string) bool {
	return strings.Contains(s, "level_up")
}

// modeRules buckets missing_letter games together with spelling; the
// dashboard does not distinguish them.
var modeRules = []modeRule{
	{ModeSentence, isSentence},
	{ModeMeaning, isMeaning},
	{ModeListening, isListening},
	{ModeListenAndSpell, isListenAndSpell},
	{ModeSpelling, isSpelling},
	{ModeMultiChoice, isMultiChoice},
	{ModeLevelUp, isLevelUp},
}

// fineModeRules keeps missing_letter distinct for call sites that render
// per-game results.
var fineModeRules = []modeRule{
	{ModeSentence, isSentence},
	{ModeMeaning, isMeaning},
	{ModeListening, isListening},
	{ModeListenAndSpell, isListenAndSpell},
	{ModeMissingLetter, isMissingLetter},
	{ModeSpelling, isSpelling},
	{ModeMultiChoice, isMultiChoice},
	{ModeLevelUp, isLevelUp},
}

func canonicalizeWith(rules []modeRule, raw string) Mode {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ModeUnknown
	}
	for _, r := range rules {
		if r.match(s) {
			return r.mode
		}
	}
	return ModeUnknown
}

// Canonicalize maps a raw mode string to its canonical mode. It is total
// and case-insensitive; unrecognized strings map to ModeUnknown and the
// caller keeps the raw string for diagnostics.
func Canonicalize(raw string) Mode {
	return canonicalizeWith(modeRules, raw)
}

// CanonicalizeFine is Canonicalize with missing_letter kept as its own mode.
func CanonicalizeFine(raw string) Mode {
	return canonicalizeWith(fineModeRules, raw)
}
