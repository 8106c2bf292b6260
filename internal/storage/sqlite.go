// Package storage provides SQLite-based persistence for scores and
// replays. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies. Records are written once at session end; the core
// treats the replay blob as opaque beyond its codec.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/replay"
	"github.com/Glubus/prism-vsrg/internal/session"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one persisted play result.
type ScoreEntry struct {
	ID          int64
	ChartHash   string
	ChartTitle  string
	Score       int
	Accuracy    float64
	MaxCombo    int
	Rate        float64
	WindowMode  engine.WindowMode
	WindowValue float64
	Stats       engine.Stats
	Practice    bool
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path. It
// creates parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chart_hash TEXT NOT NULL,
			chart_title TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			max_combo INTEGER NOT NULL,
			rate REAL NOT NULL DEFAULT 1.0,
			window_mode INTEGER NOT NULL DEFAULT 0,
			window_value REAL NOT NULL DEFAULT 5.0,
			marv INTEGER NOT NULL DEFAULT 0,
			perfect INTEGER NOT NULL DEFAULT 0,
			great INTEGER NOT NULL DEFAULT 0,
			good INTEGER NOT NULL DEFAULT 0,
			bad INTEGER NOT NULL DEFAULT 0,
			miss INTEGER NOT NULL DEFAULT 0,
			ghost INTEGER NOT NULL DEFAULT 0,
			practice INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_chart ON scores(chart_hash);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(chart_hash, score DESC);

		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score_id INTEGER NOT NULL UNIQUE REFERENCES scores(id),
			version INTEGER NOT NULL,
			blob BLOB NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult persists a finalized session: the score row plus the
// replay blob, in one transaction. Returns the score ID.
func (s *Store) SaveResult(final session.FinalData) (int64, error) {
	blob, err := replay.Encode(&final.Replay)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode replay: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO scores
			(chart_hash, chart_title, score, accuracy, max_combo, rate,
			 window_mode, window_value,
			 marv, perfect, great, good, bad, miss, ghost, practice)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		final.ChartHash, final.ChartTitle, final.Score, final.Accuracy,
		final.MaxCombo, final.Rate, int(final.WindowMode), final.WindowValue,
		final.Stats.Marv, final.Stats.Perfect, final.Stats.Great,
		final.Stats.Good, final.Stats.Bad, final.Stats.Miss,
		final.Stats.GhostTap, boolToInt(final.Replay.Practice),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO replays (score_id, version, blob) VALUES (?, ?, ?)",
		id, final.Replay.Version, blob,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for a chart, best first.
func (s *Store) TopScores(chartHash string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, chart_hash, chart_title, score, accuracy, max_combo, rate,
			window_mode, window_value,
			marv, perfect, great, good, bad, miss, ghost, practice, created_at
		 FROM scores
		 WHERE chart_hash = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		chartHash, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

// RecentScores retrieves the latest N scores across all charts.
func (s *Store) RecentScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, chart_hash, chart_title, score, accuracy, max_combo, rate,
			window_mode, window_value,
			marv, perfect, great, good, bad, miss, ghost, practice, created_at
		 FROM scores
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

// LoadReplay fetches and decodes the replay recorded for a score.
func (s *Store) LoadReplay(scoreID int64) (*replay.Data, error) {
	var blob []byte
	var version int
	err := s.db.QueryRow(
		"SELECT version, blob FROM replays WHERE score_id = ?", scoreID,
	).Scan(&version, &blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("storage: no replay for score %d", scoreID)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load replay: %w", err)
	}
	return replay.Decode(blob)
}

// HighScore returns the best score for a chart, 0 when unplayed.
func (s *Store) HighScore(chartHash string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE chart_hash = ?", chartHash,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	var entries []ScoreEntry
	for rows.Next() {
		var (
			e         ScoreEntry
			mode      int
			practice  int
			createdAt any
		)
		if err := rows.Scan(
			&e.ID, &e.ChartHash, &e.ChartTitle, &e.Score, &e.Accuracy,
			&e.MaxCombo, &e.Rate, &mode, &e.WindowValue,
			&e.Stats.Marv, &e.Stats.Perfect, &e.Stats.Great,
			&e.Stats.Good, &e.Stats.Bad, &e.Stats.Miss, &e.Stats.GhostTap,
			&practice, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.WindowMode = engine.WindowMode(mode)
		e.Practice = practice != 0

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
