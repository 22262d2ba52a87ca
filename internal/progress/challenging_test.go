package progress_test

import (
	"testing"

	"willena/internal/model"
	"willena/internal/progress"
)

func makeAttempts(word, mode string, correct, wrong int) []model.Attempt {
	var out []model.Attempt
	for i := 0; i < correct; i++ {
		out = append(out, model.Attempt{Word: word, Mode: mode, IsCorrect: true})
	}
	for i := 0; i < wrong; i++ {
		out = append(out, model.Attempt{Word: word, Mode: mode, IsCorrect: false})
	}
	return out
}

func TestSkillFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mode string
		want progress.Skill
	}{
		{"spelling", progress.SkillSpelling},
		{"listen_and_spell", progress.SkillSpelling},
		{"missing_letter", progress.SkillSpelling},
		{"listening", progress.SkillListening},
		{"phonics_listening", progress.SkillListening},
		{"matching", progress.SkillMeaning},
		{"meaning", progress.SkillMeaning},
		{"multi_choice_eng_to_kor", progress.SkillReading},
		{"flashcards", progress.SkillReading},
	}
	for _, tc := range cases {
		if got := progress.SkillFor(tc.mode); got != tc.want {
			t.Errorf("SkillFor(%q) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}

func TestChallengingAccuracyBoundary(t *testing.T) {
	t.Parallel()

	// 2/5 correct is exactly 40% and must not be reported; 1/5 must be.
	attempts := append(
		makeAttempts("cat", "spelling", 2, 3),
		makeAttempts("dog", "spelling", 1, 4)...,
	)
	got := progress.Challenging(attempts)
	if len(got) != 1 {
		t.Fatalf("Challenging() returned %d words, want 1: %+v", len(got), got)
	}
	if got[0].Word != "dog" || got[0].Accuracy != 0.2 || got[0].Attempts != 5 {
		t.Fatalf("Challenging()[0] = %+v, want dog at 0.2 over 5", got[0])
	}
}

func TestChallengingMinAttempts(t *testing.T) {
	t.Parallel()

	// Two wrong attempts are not enough history to flag a word.
	got := progress.Challenging(makeAttempts("bee", "spelling", 0, 2))
	if len(got) != 0 {
		t.Fatalf("Challenging() = %+v, want empty below attempt floor", got)
	}
	got = progress.Challenging(makeAttempts("bee", "spelling", 0, 3))
	if len(got) != 1 {
		t.Fatalf("Challenging() = %+v, want one word at the attempt floor", got)
	}
}

func TestChallengingExcludesMeaningSkill(t *testing.T) {
	t.Parallel()

	got := progress.Challenging(makeAttempts("sun", "matching", 0, 10))
	if len(got) != 0 {
		t.Fatalf("Challenging() = %+v, want matching attempts excluded", got)
	}
}

func TestChallengingGroupsPerSkill(t *testing.T) {
	t.Parallel()

	// Same word failing in two skills shows up once per skill.
	attempts := append(
		makeAttempts("rain", "spelling", 0, 4),
		makeAttempts("rain", "listening", 1, 3)...,
	)
	got := progress.Challenging(attempts)
	if len(got) != 2 {
		t.Fatalf("Challenging() returned %d entries, want 2: %+v", len(got), got)
	}
}

func TestChallengingNormalizesWords(t *testing.T) {
	t.Parallel()

	attempts := append(
		makeAttempts("Apple", "spelling", 0, 2),
		makeAttempts(" apple ", "spelling", 1, 2)...,
	)
	got := progress.Challenging(attempts)
	if len(got) != 1 || got[0].Word != "apple" || got[0].Attempts != 5 {
		t.Fatalf("Challenging() = %+v, want single merged apple entry", got)
	}
}

func TestChallengingSortOrder(t *testing.T) {
	t.Parallel()

	attempts := append(
		makeAttempts("late", "spelling", 1, 3), // 0.25
		makeAttempts("early", "spelling", 0, 4)..., // 0.0
	)
	attempts = append(attempts, makeAttempts("many", "spelling", 0, 6)...) // 0.0, more attempts

	got := progress.Challenging(attempts)
	if len(got) != 3 {
		t.Fatalf("Challenging() returned %d entries, want 3", len(got))
	}
	if got[0].Word != "many" || got[1].Word != "early" || got[2].Word != "late" {
		t.Fatalf("Challenging() order = [%s %s %s], want [many early late]",
			got[0].Word, got[1].Word, got[2].Word)
	}
}
