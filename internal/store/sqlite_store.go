package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"willena/internal/model"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, err
	}
	st := &SQLiteStore{db: db}
	if err := st.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddAttempt(a model.Attempt) error {
	_, err := s.db.Exec(`
		INSERT INTO attempts
		(id, user_id, session_id, mode, word, is_correct, points, correct_answer, extra, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.UserID,
		a.SessionID,
		a.Mode,
		a.Word,
		boolToInt(a.IsCorrect),
		a.Points,
		a.CorrectAnswer,
		nullableJSON(a.Extra),
		toTS(a.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) AddSession(sess model.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions
		(id, user_id, mode, list_name, list_size, started_at, ended_at, summary, correct, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.UserID,
		sess.Mode,
		sess.ListName,
		sess.ListSize,
		toTS(sess.StartedAt),
		nullableTS(sess.EndedAt),
		nullableJSON(sess.Summary),
		nullableInt(sess.Correct),
		nullableInt(sess.Total),
	)
	return err
}

func (s *SQLiteStore) CloseSession(id string, endedAt time.Time, summary json.RawMessage, correct, total *int) error {
	result, err := s.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, summary = ?, correct = ?, total = ?
		WHERE id = ?`,
		toTS(endedAt),
		nullableJSON(summary),
		nullableInt(correct),
		nullableInt(total),
		id,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteStore) GetSession(id string) (model.Session, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, mode, list_name, list_size, started_at, ended_at, summary, correct, total
		FROM sessions
		WHERE id = ?`,
		id,
	)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, err
	}
	return sess, true, nil
}

func (s *SQLiteStore) ListSessionsByUser(userID string) ([]model.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, mode, list_name, list_size, started_at, ended_at, summary, correct, total
		FROM sessions
		WHERE user_id = ?
		ORDER BY started_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) ListAttemptsByUser(userID string) ([]model.Attempt, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, session_id, mode, word, is_correct, points, correct_answer, extra, created_at
		FROM attempts
		WHERE user_id = ?
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var isCorrect int
		var extra sql.NullString
		var createdAt string
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.SessionID,
			&a.Mode,
			&a.Word,
			&isCorrect,
			&a.Points,
			&a.CorrectAnswer,
			&extra,
			&createdAt,
		); err != nil {
			return nil, err
		}
		a.IsCorrect = intToBool(isCorrect)
		if extra.Valid && extra.String != "" {
			a.Extra = json.RawMessage(extra.String)
		}
		a.CreatedAt = fromTS(createdAt)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (model.Session, error) {
	var sess model.Session
	var startedAt string
	var endedAt sql.NullString
	var summary sql.NullString
	var correct sql.NullInt64
	var total sql.NullInt64
	if err := row.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Mode,
		&sess.ListName,
		&sess.ListSize,
		&startedAt,
		&endedAt,
		&summary,
		&correct,
		&total,
	); err != nil {
		return model.Session{}, err
	}
	sess.StartedAt = fromTS(startedAt)
	if endedAt.Valid && endedAt.String != "" {
		t := fromTS(endedAt.String)
		sess.EndedAt = &t
	}
	if summary.Valid && summary.String != "" {
		sess.Summary = json.RawMessage(summary.String)
	}
	if correct.Valid {
		v := int(correct.Int64)
		sess.Correct = &v
	}
	if total.Valid {
		v := int(total.Int64)
		sess.Total = &v
	}
	return sess, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			word TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			points REAL NOT NULL DEFAULT 0,
			correct_answer TEXT NOT NULL DEFAULT '',
			extra TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			list_name TEXT NOT NULL DEFAULT '',
			list_size INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			summary TEXT,
			correct INTEGER,
			total INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_user_time ON attempts(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_time ON sessions(user_id, started_at);
	`)
	return err
}

func toTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTS(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return toTS(*t)
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func intToBool(v int) bool {
	return v != 0
}
