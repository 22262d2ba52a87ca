package progress_test

import (
	"encoding/json"
	"testing"

	"willena/internal/model"
	"willena/internal/progress"
)

func sessionWithSummary(raw string) model.Session {
	return model.Session{Summary: json.RawMessage(raw)}
}

func TestExtractPercentSummaryShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		session model.Session
		want    float64
		wantOK  bool
	}{
		{"score over total", sessionWithSummary(`{"score":8,"total":10}`), 80, true},
		{"score over max", sessionWithSummary(`{"score":3,"max":4}`), 75, true},
		{"accuracy fraction", sessionWithSummary(`{"accuracy":0.755}`), 76, true},
		{"score/total beats accuracy", sessionWithSummary(`{"score":1,"total":2,"accuracy":0.9}`), 50, true},
		{"zero total falls through", sessionWithSummary(`{"score":5,"total":0}`), 0, false},
		{"empty object", sessionWithSummary(`{}`), 0, false},
		{"malformed json", sessionWithSummary(`{"score":`), 0, false},
		{"double encoded", sessionWithSummary(`"{\"score\":9,\"total\":10}"`), 90, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := progress.ExtractPercent(tc.session)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("ExtractPercent() = (%v, %v), want (%v, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestExtractPercentSessionFallback(t *testing.T) {
	t.Parallel()

	correct, total := 7, 10
	s := model.Session{Correct: &correct, Total: &total}
	got, ok := progress.ExtractPercent(s)
	if !ok || got != 70 {
		t.Fatalf("ExtractPercent() = (%v, %v), want (70, true)", got, ok)
	}

	// The session columns are only consulted when no summary was stored.
	withSummary := model.Session{
		Summary: json.RawMessage(`{}`),
		Correct: &correct,
		Total:   &total,
	}
	if _, ok := progress.ExtractPercent(withSummary); ok {
		t.Fatalf("expected unusable summary to win over session columns")
	}
}

func TestExtractPercentClampsToRange(t *testing.T) {
	t.Parallel()

	high, ok := progress.ExtractPercent(sessionWithSummary(`{"score":15,"total":10}`))
	if !ok || high != 100 {
		t.Fatalf("ExtractPercent(over) = (%v, %v), want (100, true)", high, ok)
	}
	low, ok := progress.ExtractPercent(sessionWithSummary(`{"score":-3,"total":10}`))
	if !ok || low != 0 {
		t.Fatalf("ExtractPercent(under) = (%v, %v), want (0, true)", low, ok)
	}
}

func TestExtractPercentAbsentSummaryAndColumns(t *testing.T) {
	t.Parallel()

	if _, ok := progress.ExtractPercent(model.Session{}); ok {
		t.Fatalf("expected no percentage from an empty session")
	}
}
