package progress_test

import (
	"testing"

	"willena/internal/progress"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want progress.Mode
	}{
		{"sentence", progress.ModeSentence},
		{"sentence_unscramble", progress.ModeSentence},
		{"matching", progress.ModeMeaning},
		{"matching_eng_kor", progress.ModeMeaning},
		{"meaning", progress.ModeMeaning},
		{"listening", progress.ModeListening},
		{"listen", progress.ModeListening},
		{"phonics_listening", progress.ModeListening},
		{"listening_easy", progress.ModeListening},
		{"listen_and_spell", progress.ModeListenAndSpell},
		{"listening_spell", progress.ModeListenAndSpell},
		{"spelling", progress.ModeSpelling},
		{"missing_letter", progress.ModeSpelling},
		{"spell_it", progress.ModeSpelling},
		{"multi_choice", progress.ModeMultiChoice},
		{"multi_choice_eng_to_kor", progress.ModeMultiChoice},
		{"picture_multi_choice", progress.ModeMultiChoice},
		{"read", progress.ModeMultiChoice},
		{"easy_picture", progress.ModeMultiChoice},
		{"picture", progress.ModeMultiChoice},
		{"picture_mode", progress.ModeMultiChoice},
		{"level_up", progress.ModeLevelUp},
		{"time_attack_level_up", progress.ModeLevelUp},
		{"", progress.ModeUnknown},
		{"mystery_game", progress.ModeUnknown},
	}
	for _, tc := range cases {
		if got := progress.Canonicalize(tc.raw); got != tc.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCanonicalizeIsCaseInsensitiveAndTrims(t *testing.T) {
	t.Parallel()

	if got := progress.Canonicalize("  Multi_Choice  "); got != progress.ModeMultiChoice {
		t.Fatalf("Canonicalize() = %q, want %q", got, progress.ModeMultiChoice)
	}
	if got := progress.Canonicalize("LISTEN_AND_SPELL"); got != progress.ModeListenAndSpell {
		t.Fatalf("Canonicalize() = %q, want %q", got, progress.ModeListenAndSpell)
	}
}

// Any raw mode containing both "listen" and "spell" must resolve to
// listen_and_spell, regardless of which other listening/spelling rules
// its substrings might also satisfy.
func TestCanonicalizeListenAndSpellWinsOverBroaderRules(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"listen_and_spell",
		"Listen_And_Spell",
		"listening_spell_game",
		"spell_after_listen",
		"phonics_listen_spell",
	} {
		if got := progress.Canonicalize(raw); got != progress.ModeListenAndSpell {
			t.Errorf("Canonicalize(%q) = %q, want %q", raw, got, progress.ModeListenAndSpell)
		}
	}
}

func TestCanonicalizeIsPure(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"multi_choice_eng_to_kor", "mystery_game", "spelling"} {
		first := progress.Canonicalize(raw)
		second := progress.Canonicalize(raw)
		if first != second {
			t.Fatalf("Canonicalize(%q) not deterministic: %q then %q", raw, first, second)
		}
	}
}

func TestCanonicalizeFineKeepsMissingLetter(t *testing.T) {
	t.Parallel()

	if got := progress.CanonicalizeFine("missing_letter"); got != progress.ModeMissingLetter {
		t.Fatalf("CanonicalizeFine(missing_letter) = %q, want %q", got, progress.ModeMissingLetter)
	}
	if got := progress.Canonicalize("missing_letter"); got != progress.ModeSpelling {
		t.Fatalf("Canonicalize(missing_letter) = %q, want %q", got, progress.ModeSpelling)
	}
}
