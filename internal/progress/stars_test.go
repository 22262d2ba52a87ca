package progress_test

import (
	"testing"

	"willena/internal/progress"
)

func TestSessionStars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		percent float64
		want    int
	}{
		{100, 3},
		{99, 2},
		{90, 2},
		{89, 1},
		{80, 1},
		{79, 0},
		{0, 0},
	}
	for _, tc := range cases {
		if got := progress.SessionStars(tc.percent); got != tc.want {
			t.Errorf("SessionStars(%v) = %d, want %d", tc.percent, got, tc.want)
		}
	}
}

func TestLevelStars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		percent float64
		want    int
	}{
		{100, 5},
		{95, 4},
		{90, 3}, // exclusive boundary: exactly 90 is tier 3
		{85, 3},
		{80, 2}, // exclusive boundary: exactly 80 is tier 2
		{75, 2},
		{70, 1}, // exclusive boundary: exactly 70 is tier 1
		{60, 1}, // inclusive bottom tier
		{59, 0},
		{0, 0},
	}
	for _, tc := range cases {
		if got := progress.LevelStars(tc.percent); got != tc.want {
			t.Errorf("LevelStars(%v) = %d, want %d", tc.percent, got, tc.want)
		}
	}
}
