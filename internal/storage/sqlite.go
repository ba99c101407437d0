// Package storage persists replays in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite connection holding recorded replays.
type Store struct {
	db *sql.DB
}

// Replay is one recorded session: enough to re-simulate it exactly.
type Replay struct {
	ID        int64
	GameID    string
	Seed      int64
	Preset    string // Difficulty preset, empty for the config's own
	Skin      string
	TickRate  int
	Ticks     int    // Number of steps recorded
	Commands  string // YAML command log
	Outcome   string // "dead", "quit" or "timeout"
	Score     int
	CreatedAt time.Time
}

// Stats summarises the stored replays of one game.
type Stats struct {
	GameID     string
	Runs       int
	TotalTicks int64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
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
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			skin TEXT NOT NULL DEFAULT '',
			tick_rate INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			commands_yaml TEXT NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_game_id ON replays(game_id);
		CREATE INDEX IF NOT EXISTS idx_replays_created ON replays(created_at DESC);
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

// SaveReplay stores r and returns its ID. ID and CreatedAt are ignored.
func (s *Store) SaveReplay(r Replay) (int64, error) {
	if r.GameID == "" {
		return 0, errors.New("storage: replay without game id")
	}
	if r.TickRate <= 0 || r.Ticks < 0 {
		return 0, fmt.Errorf("storage: invalid replay timing (rate %d, ticks %d)", r.TickRate, r.Ticks)
	}

	res, err := s.db.Exec(
		`INSERT INTO replays (game_id, seed, preset, skin, tick_rate, ticks, commands_yaml, outcome, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Seed, r.Preset, r.Skin, r.TickRate, r.Ticks, r.Commands, r.Outcome, r.Score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Replay returns the replay with the given ID, or nil if there is none.
func (s *Store) Replay(id int64) (*Replay, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, seed, preset, skin, tick_rate, ticks, commands_yaml, outcome, score, created_at
		 FROM replays WHERE id = ?`,
		id,
	)
	r, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay %d: %w", id, err)
	}
	return &r, nil
}

// RecentReplays lists replays newest first. An empty gameID lists every
// game. Command logs are not loaded.
func (s *Store) RecentReplays(gameID string, limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, preset, skin, tick_rate, ticks, '', outcome, score, created_at
		 FROM replays
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var out []Replay
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteReplay removes a replay. It reports whether one was deleted.
func (s *Store) DeleteReplay(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete replay %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete replay %d: %w", id, err)
	}
	return n > 0, nil
}

// GameStats summarises the replays stored for gameID.
func (s *Store) GameStats(gameID string) (*Stats, error) {
	st := &Stats{GameID: gameID}
	var last any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(ticks), 0), MAX(created_at)
		 FROM replays WHERE game_id = ?`,
		gameID,
	).Scan(&st.Runs, &st.TotalTicks, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	st.LastPlayed = parseTime(last)
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(sc scanner) (Replay, error) {
	var r Replay
	var createdAt any
	err := sc.Scan(
		&r.ID,
		&r.GameID,
		&r.Seed,
		&r.Preset,
		&r.Skin,
		&r.TickRate,
		&r.Ticks,
		&r.Commands,
		&r.Outcome,
		&r.Score,
		&createdAt,
	)
	if err != nil {
		return Replay{}, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
