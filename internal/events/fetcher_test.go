package events_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willena/internal/events"
	"willena/internal/model"
)

// fakeSource counts calls and optionally blocks until released so tests
// can hold several callers in the same flight.
type fakeSource struct {
	sessionCalls atomic.Int64
	attemptCalls atomic.Int64
	sessions     []model.Session
	attempts     []model.Attempt
	err          error
	block        chan struct{}
}

func (f *fakeSource) Sessions(ctx context.Context, userID string) ([]model.Session, error) {
	f.sessionCalls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions, nil
}

func (f *fakeSource) Attempts(ctx context.Context, userID string) ([]model.Attempt, error) {
	f.attemptCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.attempts, nil
}

// fakeClock is a settable clock shared with the fetcher under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFetcherReusesRecentRows(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	src := &fakeSource{sessions: []model.Session{{ID: "s1", UserID: "kid"}}}
	f := events.NewFetcher(src, events.WithClock(clock.Now))

	rows, err := f.Sessions(context.Background(), "kid")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = f.Sessions(context.Background(), "kid")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, src.sessionCalls.Load(), "second call inside the window must reuse the first fetch")
}

func TestFetcherRefetchesAfterWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	src := &fakeSource{sessions: []model.Session{{ID: "s1", UserID: "kid"}}}
	f := events.NewFetcher(src, events.WithClock(clock.Now), events.WithReuseWindow(5*time.Second))

	_, err := f.Sessions(context.Background(), "kid")
	require.NoError(t, err)

	clock.Advance(6 * time.Second)
	_, err = f.Sessions(context.Background(), "kid")
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.sessionCalls.Load())
}

func TestFetcherWindowIsPerUser(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	src := &fakeSource{}
	f := events.NewFetcher(src, events.WithClock(clock.Now))

	_, err := f.Attempts(context.Background(), "kid_a")
	require.NoError(t, err)
	_, err = f.Attempts(context.Background(), "kid_b")
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.attemptCalls.Load(), "different users never share cached rows")
}

func TestFetcherSharesInFlightFetch(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	src := &fakeSource{
		sessions: []model.Session{{ID: "s1", UserID: "kid"}},
		block:    make(chan struct{}),
	}
	f := events.NewFetcher(src, events.WithClock(clock.Now))

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.Sessions(context.Background(), "kid")
		}(i)
	}

	// Give all goroutines time to join the flight, then release the source.
	time.Sleep(50 * time.Millisecond)
	close(src.block)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	assert.EqualValues(t, 1, src.sessionCalls.Load(), "concurrent callers must share one fetch")
}

func TestFetcherDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	src := &fakeSource{err: errors.New("source down")}
	f := events.NewFetcher(src, events.WithClock(clock.Now))

	_, err := f.Attempts(context.Background(), "kid")
	require.Error(t, err)

	// The source recovers; the next call must go through, not replay the
	// failure.
	src.err = nil
	src.attempts = []model.Attempt{{ID: "a1", UserID: "kid"}}
	rows, err := f.Attempts(context.Background(), "kid")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.EqualValues(t, 2, src.attemptCalls.Load())
}
