// Package history persists completed dictation sessions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"soundscript/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS Sessions (
	Id INTEGER PRIMARY KEY AUTOINCREMENT,
	Timestamp TEXT NOT NULL,
	RawText TEXT NOT NULL,
	PolishedText TEXT NOT NULL,
	Duration TEXT NOT NULL,
	WordCount INTEGER NOT NULL,
	WordsPerMinute REAL NOT NULL,
	Confidence REAL NOT NULL,
	Status TEXT NOT NULL,
	ErrorMessage TEXT,
	CharacterCount INTEGER NOT NULL DEFAULT 0,
	SentenceCount INTEGER NOT NULL DEFAULT 0,
	Language TEXT,
	ModelUsed TEXT,
	AudioData BLOB
)`

const sessionColumns = `Id, Timestamp, RawText, PolishedText, Duration, WordCount,
	WordsPerMinute, Confidence, Status, ErrorMessage, CharacterCount,
	SentenceCount, Language, ModelUsed, AudioData`

// Store implements ports.SessionStore on a SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if missing, and upgrades older
// databases in place.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	// Pre-existing databases may lack the audio column. The ALTER fails with
	// "duplicate column" on current schemas, which is fine.
	if _, err := db.Exec(`ALTER TABLE Sessions ADD COLUMN AudioData BLOB`); err != nil {
		log.Debug().Err(err).Msg("audio column migration skipped")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a session and returns its assigned id.
func (s *Store) Save(ctx context.Context, sess *domain.Session) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO Sessions (Timestamp, RawText, PolishedText, Duration, WordCount,
			WordsPerMinute, Confidence, Status, ErrorMessage, CharacterCount,
			SentenceCount, Language, ModelUsed, AudioData)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.Timestamp.UTC().Format(time.RFC3339Nano),
		sess.RawText,
		sess.PolishedText,
		sess.Duration.String(),
		sess.WordCount,
		sess.WordsPerMinute,
		sess.Confidence,
		string(sess.Status),
		sess.ErrorMessage,
		sess.CharacterCount,
		sess.SentenceCount,
		sess.Language,
		sess.ModelUsed,
		sess.AudioData,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	sess.ID = id
	return id, nil
}

// ByID returns one session including its audio, or nil if the id is unknown.
func (s *Store) ByID(ctx context.Context, id int64) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM Sessions WHERE Id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Recent returns the n newest sessions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]domain.Session, error) {
	return s.query(ctx,
		`SELECT `+sessionColumns+` FROM Sessions ORDER BY Timestamp DESC LIMIT ?`, n)
}

// ByDate returns every session recorded on the given UTC calendar day.
func (s *Store) ByDate(ctx context.Context, day time.Time) ([]domain.Session, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return s.query(ctx, `
		SELECT `+sessionColumns+` FROM Sessions
		WHERE Timestamp >= ? AND Timestamp < ?
		ORDER BY Timestamp DESC`,
		start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
}

// Page returns limit sessions starting at offset, newest first.
func (s *Store) Page(ctx context.Context, offset, limit int) ([]domain.Session, error) {
	return s.query(ctx,
		`SELECT `+sessionColumns+` FROM Sessions ORDER BY Timestamp DESC LIMIT ? OFFSET ?`,
		limit, offset)
}

// All returns every stored session, newest first.
func (s *Store) All(ctx context.Context) ([]domain.Session, error) {
	return s.query(ctx,
		`SELECT `+sessionColumns+` FROM Sessions ORDER BY Timestamp DESC`)
}

// Search returns sessions whose raw or polished text contains term.
func (s *Store) Search(ctx context.Context, term string) ([]domain.Session, error) {
	like := "%" + strings.TrimSpace(term) + "%"
	return s.query(ctx, `
		SELECT `+sessionColumns+` FROM Sessions
		WHERE RawText LIKE ? OR PolishedText LIKE ?
		ORDER BY Timestamp DESC`, like, like)
}

// Stats aggregates over completed sessions only.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	var avgWPM, avgConfidence sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(WordCount), 0),
			AVG(CASE WHEN WordsPerMinute > 0 THEN WordsPerMinute END),
			AVG(Confidence)
		FROM Sessions WHERE Status = 'Completed'`).
		Scan(&stats.TotalSessions, &stats.TotalWords, &avgWPM, &avgConfidence)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	stats.AverageWPM = avgWPM.Float64
	stats.AverageConfidence = avgConfidence.Float64

	// Durations are stored as Go duration strings, so the sum happens here.
	rows, err := s.db.QueryContext(ctx,
		`SELECT Duration FROM Sessions WHERE Status = 'Completed'`)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query durations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return domain.Stats{}, fmt.Errorf("scan duration: %w", err)
		}
		if d, err := time.ParseDuration(raw); err == nil {
			stats.TotalRecordingTime += d
		}
	}
	return stats, rows.Err()
}

// Delete removes one session by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM Sessions WHERE Id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Clear removes all sessions.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM Sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var sess domain.Session
	var timestamp, duration string
	var status string
	var errMsg, language, model sql.NullString

	err := row.Scan(&sess.ID, &timestamp, &sess.RawText, &sess.PolishedText,
		&duration, &sess.WordCount, &sess.WordsPerMinute, &sess.Confidence,
		&status, &errMsg, &sess.CharacterCount, &sess.SentenceCount,
		&language, &model, &sess.AudioData)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if ts, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		sess.Timestamp = ts
	}
	if d, err := time.ParseDuration(duration); err == nil {
		sess.Duration = d
	}
	sess.Status = domain.SessionStatus(status)
	sess.ErrorMessage = errMsg.String
	sess.Language = language.String
	sess.ModelUsed = model.String
	return &sess, nil
}
