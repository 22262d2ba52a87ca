package model

import (
	"encoding/json"
	"time"
)

// ListType categorizes a catalog entry. Phonics lists use a smaller
// required mode set than wordlists and grammar lists.
type ListType string

const (
	ListTypeWordlist ListType = "wordlist"
	ListTypeGrammar  ListType = "grammar"
	ListTypePhonics  ListType = "phonics"
)

// CatalogEntry is one configured, addressable learning list.
type CatalogEntry struct {
	File        string   `json:"file"`
	Label       string   `json:"label"`
	ProgressKey string   `json:"progress_key"`
	Level       int      `json:"level"`
	Type        ListType `json:"type"`
	Emoji       string   `json:"emoji,omitempty"`
}

// Attempt is a single answer event: one word, one mode, correct or not.
// Attempts are append-only and never edited after being written.
type Attempt struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	SessionID     string          `json:"session_id"`
	Mode          string          `json:"mode"`
	Word          string          `json:"word"`
	IsCorrect     bool            `json:"is_correct"`
	Points        float64         `json:"points"`
	CorrectAnswer string          `json:"correct_answer,omitempty"`
	Extra         json.RawMessage `json:"extra,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Session is a bounded practice run. The mode and list name are raw
// strings exactly as the games wrote them; the summary blob is attached
// when the session closes and is never retroactively edited.
type Session struct {
	ID        string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Mode      string          `json:"mode"`
	ListName  string          `json:"list_name,omitempty"`
	ListSize  int             `json:"list_size,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Summary   json.RawMessage `json:"summary,omitempty"`
	Correct   *int            `json:"correct,omitempty"`
	Total     *int            `json:"total,omitempty"`
}

// Closed reports whether the session has ended.
func (s Session) Closed() bool {
	return s.EndedAt != nil
}
