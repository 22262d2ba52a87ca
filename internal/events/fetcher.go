package events

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"willena/internal/model"
)

// DefaultReuseWindow is how long fetched rows are reused before hitting
// the source again. Several aggregate keys for the same user are usually
// computed within moments of each other; this window collapses them onto
// one fetch.
const DefaultReuseWindow = 5 * time.Second

type sessionRows struct {
	rows      []model.Session
	fetchedAt time.Time
}

type attemptRows struct {
	rows      []model.Attempt
	fetchedAt time.Time
}

// Fetcher wraps a Source with a short reuse window and single-flight
// deduplication per (section, user). Callers always receive rows from one
// consistent fetch; partial updates never interleave.
type Fetcher struct {
	src    Source
	window time.Duration
	now    func() time.Time

	flight singleflight.Group

	mu       sync.Mutex
	sessions map[string]sessionRows
	attempts map[string]attemptRows
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithReuseWindow overrides the raw-row reuse window.
func WithReuseWindow(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.window = d }
}

// WithClock injects a clock. Tests use this to control staleness.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(src Source, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		src:      src,
		window:   DefaultReuseWindow,
		now:      time.Now,
		sessions: make(map[string]sessionRows),
		attempts: make(map[string]attemptRows),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Sessions returns the user's session rows, reusing a recent fetch when
// one exists and sharing an in-flight fetch between concurrent callers.
func (f *Fetcher) Sessions(ctx context.Context, userID string) ([]model.Session, error) {
	f.mu.Lock()
	if cached, ok := f.sessions[userID]; ok && f.now().Sub(cached.fetchedAt) < f.window {
		f.mu.Unlock()
		fetchTotal.WithLabelValues("sessions", "hit").Inc()
		return cached.rows, nil
	}
	f.mu.Unlock()

	// The in-flight fetch is detached from this caller's context: if one
	// waiter goes away the remaining waiters are still served.
	result, err, shared := f.flight.Do("sessions:"+userID, func() (any, error) {
		rows, err := f.src.Sessions(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.sessions[userID] = sessionRows{rows: rows, fetchedAt: f.now()}
		f.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		fetchTotal.WithLabelValues("sessions", "error").Inc()
		return nil, err
	}
	if shared {
		fetchTotal.WithLabelValues("sessions", "shared").Inc()
	} else {
		fetchTotal.WithLabelValues("sessions", "fetch").Inc()
	}
	return result.([]model.Session), nil
}

// Attempts is Sessions for attempt rows.
func (f *Fetcher) Attempts(ctx context.Context, userID string) ([]model.Attempt, error) {
	f.mu.Lock()
	if cached, ok := f.attempts[userID]; ok && f.now().Sub(cached.fetchedAt) < f.window {
		f.mu.Unlock()
		fetchTotal.WithLabelValues("attempts", "hit").Inc()
		return cached.rows, nil
	}
	f.mu.Unlock()

	result, err, shared := f.flight.Do("attempts:"+userID, func() (any, error) {
		rows, err := f.src.Attempts(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.attempts[userID] = attemptRows{rows: rows, fetchedAt: f.now()}
		f.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		fetchTotal.WithLabelValues("attempts", "error").Inc()
		return nil, err
	}
	if shared {
		fetchTotal.WithLabelValues("attempts", "shared").Inc()
	} else {
		fetchTotal.WithLabelValues("attempts", "fetch").Inc()
	}
	return result.([]model.Attempt), nil
}
