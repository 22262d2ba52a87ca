package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"willena/internal/cache"
	"willena/internal/catalog"
	"willena/internal/events"
	"willena/internal/logger"
	"willena/internal/model"
	"willena/internal/progress"
	"willena/internal/store"
)

var (
	ErrUserIDRequired   = errors.New("user_id is required")
	ErrModeRequired     = errors.New("mode is required")
	ErrWordRequired     = errors.New("word is required")
	ErrSessionRequired  = errors.New("session_id is required")
	ErrStoreUnavailable = errors.New("event recording is not available on this instance")
	ErrSessionNotFound  = store.ErrSessionNotFound
)

// Service is the progress engine's downstream surface: derived metrics in,
// well-formed shapes out. Read operations never surface transport errors
// to callers; they degrade to a not-ready result instead.
type Service struct {
	catalog *catalog.Catalog
	fetcher *events.Fetcher
	cache   *cache.Cache
	log     *logger.Logger

	// st is only set when this instance also records events locally.
	st store.Store

	now func() time.Time
}

func New(cat *catalog.Catalog, fetcher *events.Fetcher, agg *cache.Cache, log *logger.Logger) *Service {
	return &Service{
		catalog: cat,
		fetcher: fetcher,
		cache:   agg,
		log:     log,
		now:     time.Now,
	}
}

// SetStore enables the local recording endpoints.
func (s *Service) SetStore(st store.Store) {
	s.st = st
}

// ListSummary is one catalog entry's derived progress.
type ListSummary struct {
	Key        string             `json:"key"`
	Label      string             `json:"label"`
	Emoji      string             `json:"emoji,omitempty"`
	Level      int                `json:"level"`
	Type       model.ListType     `json:"type"`
	Completion float64            `json:"completion"`
	Stars      int                `json:"stars"`
	Modes      map[string]float64 `json:"modes"`
}

// ProgressResponse is always well-formed: when the underlying fetch has
// never succeeded, Ready is false and every list reads zero, which the UI
// renders as a loading state.
type ProgressResponse struct {
	UserID    string         `json:"user_id"`
	Category  model.ListType `json:"category,omitempty"`
	Ready     bool           `json:"ready"`
	FromCache bool           `json:"from_cache"`
	Lists     []ListSummary  `json:"lists"`
}

// StarCounts rolls catalog level stars up using the fine 5-tier table.
type StarCounts struct {
	UserID string `json:"user_id"`
	Ready  bool   `json:"ready"`
	Level0 int    `json:"level0"`
	Level1 int    `json:"level1"`
	Level2 int    `json:"level2"`
	Level3 int    `json:"level3"`
}

// ChallengingResponse wraps the diagnostics list with a ready flag so a
// transport error still renders as an empty-but-loading state.
type ChallengingResponse struct {
	UserID string                     `json:"user_id"`
	Ready  bool                       `json:"ready"`
	Words  []progress.ChallengingWord `json:"words"`
}

func progressCacheKey(userID string) string {
	return "progress:" + userID
}

func (s *Service) computeFor(userID string) cache.ComputeFunc {
	return func(ctx context.Context) (*progress.Result, error) {
		sessions, err := s.fetcher.Sessions(ctx, userID)
		if err != nil {
			return nil, err
		}
		return progress.Aggregate(sessions, s.catalog.Entries()), nil
	}
}

// Progress returns the user's per-list progress, optionally filtered by
// category. Served from the aggregate cache; a failed first load degrades
// to a not-ready all-zero response and is logged, never returned.
func (s *Service) Progress(ctx context.Context, userID string, category model.ListType) ProgressResponse {
	userID = strings.TrimSpace(userID)
	resp := ProgressResponse{UserID: userID, Category: category}
	if userID == "" {
		resp.Lists = s.zeroLists(category)
		return resp
	}

	result, fromCache, err := s.cache.GetOrRefresh(ctx, progressCacheKey(userID), s.computeFor(userID))
	if err != nil {
		s.log.Warn("progress load failed", "user_id", userID, "error", err)
		resp.Lists = s.zeroLists(category)
		return resp
	}

	resp.Ready = true
	resp.FromCache = fromCache
	resp.Lists = s.buildLists(result, category)
	return resp
}

// StarCounts sums per-list level stars across the catalog.
func (s *Service) StarCounts(ctx context.Context, userID string) StarCounts {
	userID = strings.TrimSpace(userID)
	resp := StarCounts{UserID: userID}
	if userID == "" {
		return resp
	}

	result, _, err := s.cache.GetOrRefresh(ctx, progressCacheKey(userID), s.computeFor(userID))
	if err != nil {
		s.log.Warn("star counts load failed", "user_id", userID, "error", err)
		return resp
	}

	resp.Ready = true
	for _, e := range s.catalog.Entries() {
		lp := result.Lists[e.ProgressKey]
		if lp == nil {
			continue
		}
		stars := progress.LevelStars(lp.Completion)
		switch e.Level {
		case 0:
			resp.Level0 += stars
		case 1:
			resp.Level1 += stars
		case 2:
			resp.Level2 += stars
		default:
			resp.Level3 += stars
		}
	}
	return resp
}

// ChallengingWords runs the low-accuracy diagnostics over the user's
// attempt history. Attempts ride the fetcher's short reuse window rather
// than the aggregate cache; the fold itself is cheap.
func (s *Service) ChallengingWords(ctx context.Context, userID string) ChallengingResponse {
	userID = strings.TrimSpace(userID)
	resp := ChallengingResponse{UserID: userID, Words: []progress.ChallengingWord{}}
	if userID == "" {
		return resp
	}

	attempts, err := s.fetcher.Attempts(ctx, userID)
	if err != nil {
		s.log.Warn("challenging words load failed", "user_id", userID, "error", err)
		return resp
	}
	resp.Ready = true
	resp.Words = progress.Challenging(attempts)
	return resp
}

// SessionRows exposes the user's raw session rows, served through the
// fetcher so repeated reads inside the reuse window cost one fetch. This
// lets one instance act as the event-store upstream for another.
func (s *Service) SessionRows(ctx context.Context, userID string) ([]model.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.fetcher.Sessions(ctx, userID)
}

// AttemptRows is SessionRows for attempts.
func (s *Service) AttemptRows(ctx context.Context, userID string) ([]model.Attempt, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.fetcher.Attempts(ctx, userID)
}

// OnUpdate registers a one-shot observer for the user's progress: the
// callback fires once after the next successful background refresh with
// the rebuilt response, then auto-unsubscribes. The returned function
// cancels early.
func (s *Service) OnUpdate(userID string, category model.ListType, fn func(ProgressResponse)) (unsubscribe func()) {
	userID = strings.TrimSpace(userID)
	return s.cache.Subscribe(progressCacheKey(userID), func(result *progress.Result) {
		fn(ProgressResponse{
			UserID:    userID,
			Category:  category,
			Ready:     true,
			FromCache: false,
			Lists:     s.buildLists(result, category),
		})
	})
}

func (s *Service) entriesFor(category model.ListType) []model.CatalogEntry {
	if category == "" {
		return s.catalog.Entries()
	}
	return s.catalog.ByType(category)
}

func (s *Service) buildLists(result *progress.Result, category model.ListType) []ListSummary {
	entries := s.entriesFor(category)
	out := make([]ListSummary, 0, len(entries))
	for _, e := range entries {
		row := ListSummary{
			Key:   e.ProgressKey,
			Label: e.Label,
			Emoji: e.Emoji,
			Level: e.Level,
			Type:  e.Type,
			Modes: make(map[string]float64),
		}
		for _, m := range progress.RequiredModes(e.Type) {
			row.Modes[string(m)] = 0
		}
		if lp := result.Lists[e.ProgressKey]; lp != nil {
			for m, pct := range lp.Best {
				row.Modes[string(m)] = pct
			}
			row.Completion = lp.Completion
			row.Stars = progress.LevelStars(lp.Completion)
		}
		out = append(out, row)
	}
	return out
}

func (s *Service) zeroLists(category model.ListType) []ListSummary {
	return s.buildLists(&progress.Result{Lists: map[string]*progress.ListProgress{}}, category)
}

// RecordAttemptRequest is one answer event from a game.
type RecordAttemptRequest struct {
	UserID        string          `json:"user_id"`
	SessionID     string          `json:"session_id"`
	Mode          string          `json:"mode"`
	Word          string          `json:"word"`
	IsCorrect     bool            `json:"is_correct"`
	Points        float64         `json:"points"`
	CorrectAnswer string          `json:"correct_answer,omitempty"`
	Extra         json.RawMessage `json:"extra,omitempty"`
}

// StartSessionRequest opens a practice run.
type StartSessionRequest struct {
	UserID   string `json:"user_id"`
	Mode     string `json:"mode"`
	ListName string `json:"list_name,omitempty"`
	ListSize int    `json:"list_size,omitempty"`
}

// CloseSessionRequest attaches the summary and marks the run ended.
type CloseSessionRequest struct {
	SessionID string          `json:"session_id"`
	Summary   json.RawMessage `json:"summary,omitempty"`
	Correct   *int            `json:"correct,omitempty"`
	Total     *int            `json:"total,omitempty"`
}

// RecordAttempt appends one attempt row.
func (s *Service) RecordAttempt(req RecordAttemptRequest) (model.Attempt, error) {
	if s.st == nil {
		return model.Attempt{}, ErrStoreUnavailable
	}
	if strings.TrimSpace(req.UserID) == "" {
		return model.Attempt{}, ErrUserIDRequired
	}
	if strings.TrimSpace(req.Mode) == "" {
		return model.Attempt{}, ErrModeRequired
	}
	if strings.TrimSpace(req.Word) == "" {
		return model.Attempt{}, ErrWordRequired
	}

	attempt := model.Attempt{
		ID:            uuid.NewString(),
		UserID:        strings.TrimSpace(req.UserID),
		SessionID:     strings.TrimSpace(req.SessionID),
		Mode:          req.Mode,
		Word:          req.Word,
		IsCorrect:     req.IsCorrect,
		Points:        req.Points,
		CorrectAnswer: req.CorrectAnswer,
		Extra:         req.Extra,
		CreatedAt:     s.now(),
	}
	if err := s.st.AddAttempt(attempt); err != nil {
		return model.Attempt{}, err
	}
	return attempt, nil
}

// StartSession opens a session row.
func (s *Service) StartSession(req StartSessionRequest) (model.Session, error) {
	if s.st == nil {
		return model.Session{}, ErrStoreUnavailable
	}
	if strings.TrimSpace(req.UserID) == "" {
		return model.Session{}, ErrUserIDRequired
	}
	if strings.TrimSpace(req.Mode) == "" {
		return model.Session{}, ErrModeRequired
	}

	sess := model.Session{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(req.UserID),
		Mode:      req.Mode,
		ListName:  req.ListName,
		ListSize:  req.ListSize,
		StartedAt: s.now(),
	}
	if err := s.st.AddSession(sess); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// ClosedSession is the closed session plus the stars it earned, graded on
// the session star table rather than the level one.
type ClosedSession struct {
	model.Session
	Stars int `json:"stars"`
}

// CloseSession ends a session, attaching its summary blob. The summary is
// stored as received; score extraction tolerates whatever shape it has.
func (s *Service) CloseSession(req CloseSessionRequest) (ClosedSession, error) {
	if s.st == nil {
		return ClosedSession{}, ErrStoreUnavailable
	}
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		return ClosedSession{}, ErrSessionRequired
	}
	if err := s.st.CloseSession(id, s.now(), req.Summary, req.Correct, req.Total); err != nil {
		return ClosedSession{}, err
	}
	sess, ok, err := s.st.GetSession(id)
	if err != nil {
		return ClosedSession{}, err
	}
	if !ok {
		return ClosedSession{}, ErrSessionNotFound
	}
	out := ClosedSession{Session: sess}
	if pct, scored := progress.ExtractPercent(sess); scored {
		out.Stars = progress.SessionStars(pct)
	}
	return out, nil
}
