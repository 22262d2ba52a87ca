package events

import (
	"context"

	"willena/internal/model"
	"willena/internal/store"
)

// StoreSource adapts the local store to the Source interface so the same
// fetcher and caches run against either backend.
type StoreSource struct {
	st store.Store
}

func NewStoreSource(st store.Store) *StoreSource {
	return &StoreSource{st: st}
}

func (s *StoreSource) Sessions(_ context.Context, userID string) ([]model.Session, error) {
	return s.st.ListSessionsByUser(userID)
}

func (s *StoreSource) Attempts(_ context.Context, userID string) ([]model.Attempt, error) {
	return s.st.ListAttemptsByUser(userID)
}
