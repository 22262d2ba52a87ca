package progress

import (
	"sort"
	"strings"

	"willena/internal/model"
)

// Skill buckets attempts for the challenging-word report. The mapping is
// deliberately coarser than the canonical mode table: teachers reason
// about "can't spell it" vs "can't hear it", not about individual games.
type Skill string

const (
	SkillSpelling  Skill = "spelling"
	SkillListening Skill = "listening"
	SkillReading   Skill = "reading"
	SkillMeaning   Skill = "meaning"
)

const (
	// Strict upper bound: a word at exactly 40% accuracy is not reported.
	challengingAccuracyLimit = 0.4
	challengingMinAttempts   = 3
)

// SkillFor maps a raw mode string to its skill bucket.
func SkillFor(rawMode string) Skill {
	s := strings.ToLower(strings.TrimSpace(rawMode))
	switch {
	case strings.Contains(s, "spell") || strings.Contains(s, "missing_letter"):
		return SkillSpelling
	case strings.Contains(s, "listen"):
		return SkillListening
	case strings.Contains(s, "matching") || strings.Contains(s, "meaning"):
		return SkillMeaning
	default:
		return SkillReading
	}
}

// ChallengingWord is one word the learner keeps getting wrong in one skill.
type ChallengingWord struct {
	Word     string  `json:"word"`
	Skill    Skill   `json:"skill"`
	Accuracy float64 `json:"accuracy"`
	Attempts int     `json:"attempts"`
}

type wordSkillKey struct {
	word  string
	skill Skill
}

// Challenging groups attempts by normalized word and skill and returns the
// groups the learner answers wrong more than 60% of the time, lowest
// accuracy first, then most-attempted first. Meaning-skill attempts are
// excluded: matching games produce too many accidental misses to be a
// useful signal.
func Challenging(attempts []model.Attempt) []ChallengingWord {
	type tally struct {
		correct int
		total   int
	}
	groups := make(map[wordSkillKey]*tally)

	for _, a := range attempts {
		word := strings.ToLower(strings.TrimSpace(a.Word))
		if word == "" {
			continue
		}
		skill := SkillFor(a.Mode)
		if skill == SkillMeaning {
			continue
		}
		key := wordSkillKey{word: word, skill: skill}
		t := groups[key]
		if t == nil {
			t = &tally{}
			groups[key] = t
		}
		t.total++
		if a.IsCorrect {
			t.correct++
		}
	}

	out := make([]ChallengingWord, 0, len(groups))
	for key, t := range groups {
		if t.total < challengingMinAttempts {
			continue
		}
		acc := float64(t.correct) / float64(t.total)
		if acc >= challengingAccuracyLimit {
			continue
		}
		out = append(out, ChallengingWord{
			Word:     key.word,
			Skill:    key.skill,
			Accuracy: acc,
			Attempts: t.total,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy < out[j].Accuracy
		}
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].Word < out[j].Word
	})
	return out
}
