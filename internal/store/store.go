package store

import (
	"encoding/json"
	"errors"
	"time"

	"willena/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// Store is the local event store: append-only attempts and sessions, as
// written by the games. It doubles as the dev/test event source behind the
// same queries the remote event-store API serves.
type Store interface {
	AddAttempt(a model.Attempt) error
	AddSession(s model.Session) error
	CloseSession(id string, endedAt time.Time, summary json.RawMessage, correct, total *int) error

	GetSession(id string) (model.Session, bool, error)
	ListSessionsByUser(userID string) ([]model.Session, error)
	ListAttemptsByUser(userID string) ([]model.Attempt, error)
}
