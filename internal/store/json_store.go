package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"willena/internal/model"
)

type fileState struct {
	Sessions map[string]model.Session `json:"sessions"`
	Attempts []model.Attempt          `json:"attempts"`
}

// JSONStore keeps everything in memory and rewrites a single JSON file on
// every mutation. Fine for classroom-sized datasets and local development.
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		state: fileState{
			Sessions: make(map[string]model.Session),
			Attempts: make([]model.Attempt, 0),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) AddAttempt(a model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Attempts = append(s.state.Attempts, a)
	return s.persistLocked()
}

func (s *JSONStore) AddSession(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Sessions[sess.ID] = sess
	return s.persistLocked()
}

func (s *JSONStore) CloseSession(id string, endedAt time.Time, summary json.RawMessage, correct, total *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.state.Sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.EndedAt = &endedAt
	sess.Summary = summary
	sess.Correct = correct
	sess.Total = total
	s.state.Sessions[id] = sess
	return s.persistLocked()
}

func (s *JSONStore) GetSession(id string) (model.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.state.Sessions[id]
	return sess, ok, nil
}

func (s *JSONStore) ListSessionsByUser(userID string) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Session, 0)
	for _, sess := range s.state.Sessions {
		if sess.UserID == userID {
			result = append(result, sess)
		}
	}
	return result, nil
}

func (s *JSONStore) ListAttemptsByUser(userID string) ([]model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Attempt, 0)
	for _, a := range s.state.Attempts {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if state.Sessions == nil {
		state.Sessions = make(map[string]model.Session)
	}
	if state.Attempts == nil {
		state.Attempts = make([]model.Attempt, 0)
	}
	s.state = state
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
