// Package history keeps graded quiz attempts in SQLite so accuracy can be
// reported per action and weak hands drilled again.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	attempt_id     TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL,
	range_dict     TEXT NOT NULL,
	path           TEXT NOT NULL,
	action         TEXT NOT NULL,
	hand           TEXT NOT NULL,
	answer         TEXT NOT NULL,
	correct_action TEXT NOT NULL,
	correct        INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS attempts_by_action ON attempts (range_dict, action);
`

// Attempt is one graded answer.
type Attempt struct {
	ID            string
	RunID         string // groups the attempts of one quiz session
	RangeDict     string
	Path          string
	Action        string
	Hand          string
	Answer        string
	CorrectAction string
	Correct       bool
	CreatedAt     time.Time
}

// ActionStats summarizes the attempts made for one action.
type ActionStats struct {
	Action   string
	Attempts int
	Correct  int
}

// Accuracy returns the fraction of correct attempts, 0 with no attempts.
func (s ActionStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// HandStat counts the misses for one hand.
type HandStat struct {
	Hand     string
	Misses   int
	Attempts int
}

// Store manages quiz history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordAttempt stores a graded answer and returns its ID. A missing ID or
// timestamp is filled in.
func (s *Store) RecordAttempt(ctx context.Context, a Attempt) (string, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	correct := 0
	if a.Correct {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (attempt_id, run_id, range_dict, path, action, hand, answer, correct_action, correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.RunID, a.RangeDict, a.Path, a.Action, a.Hand, a.Answer, a.CorrectAction, correct,
		a.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert attempt: %w", err)
	}
	return a.ID, nil
}

// ActionStats returns per-action totals for a range dict, ordered by action.
func (s *Store) ActionStats(ctx context.Context, rangeDict string) ([]ActionStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT action, COUNT(*), SUM(correct)
		 FROM attempts WHERE range_dict = ?
		 GROUP BY action ORDER BY action`,
		rangeDict,
	)
	if err != nil {
		return nil, fmt.Errorf("query action stats: %w", err)
	}
	defer rows.Close()

	var out []ActionStats
	for rows.Next() {
		var st ActionStats
		if err := rows.Scan(&st.Action, &st.Attempts, &st.Correct); err != nil {
			return nil, fmt.Errorf("scan action stats: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// MissedHands returns the hands answered wrongly most often for a range
// dict, most misses first. An empty action matches every action.
func (s *Store) MissedHands(ctx context.Context, rangeDict, action string, limit int) ([]HandStat, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT hand, SUM(1 - correct) AS misses, COUNT(*)
		 FROM attempts
		 WHERE range_dict = ? AND (? = '' OR action = ?)
		 GROUP BY hand
		 HAVING misses > 0
		 ORDER BY misses DESC, hand
		 LIMIT ?`,
		rangeDict, action, action, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query missed hands: %w", err)
	}
	defer rows.Close()

	var out []HandStat
	for rows.Next() {
		var hs HandStat
		if err := rows.Scan(&hs.Hand, &hs.Misses, &hs.Attempts); err != nil {
			return nil, fmt.Errorf("scan missed hands: %w", err)
		}
		out = append(out, hs)
	}
	return out, rows.Err()
}
