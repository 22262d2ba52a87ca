package progress

import (
	"encoding/json"
	"math"

	"willena/internal/model"
)

// Summary is the typed view over the ad-hoc summary blobs the games attach
// when a session closes. Every field is optional; the games have written at
// least four different shapes over the years.
type Summary struct {
	Score    *float64 `json:"score"`
	Total    *float64 `json:"total"`
	Max      *float64 `json:"max"`
	Accuracy *float64 `json:"accuracy"`
}

// DecodeSummary decodes a session's summary blob. Some games stored the
// summary double-encoded (a JSON string holding JSON); that is unwrapped
// first. A malformed blob is reported as absent, never as an error.
func DecodeSummary(raw json.RawMessage) (Summary, bool) {
	if len(raw) == 0 {
		return Summary{}, false
	}
	data := []byte(raw)
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return Summary{}, false
		}
		data = []byte(inner)
	}
	var sum Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return Summary{}, false
	}
	return sum, true
}

// ExtractPercent derives a 0-100 percentage from a closed session. The
// fallback order is score/total, then score/max, then accuracy, then the
// session's own correct/total columns when no summary was stored at all.
// A session with no extractable score is excluded from aggregation rather
// than counted as zero.
func ExtractPercent(s model.Session) (float64, bool) {
	sum, ok := DecodeSummary(s.Summary)
	if ok {
		switch {
		case sum.Score != nil && sum.Total != nil && *sum.Total > 0:
			return clampPercent(*sum.Score / *sum.Total * 100), true
		case sum.Score != nil && sum.Max != nil && *sum.Max > 0:
			return clampPercent(*sum.Score / *sum.Max * 100), true
		case sum.Accuracy != nil:
			return clampPercent(*sum.Accuracy * 100), true
		}
		return 0, false
	}
	if s.Correct != nil && s.Total != nil && *s.Total > 0 {
		return clampPercent(float64(*s.Correct) / float64(*s.Total) * 100), true
	}
	return 0, false
}

// clampPercent rounds and forces the value into [0,100]. Out-of-range
// inputs are treated as invariant violations and clamped, not propagated.
func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	p = math.Round(p)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
