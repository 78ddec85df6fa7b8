// Package persistence provides save storage for the city: a JSON snapshot
// codec, a SQLite store that also keeps the event log and the high-score
// table, and a Redis store for save blobs.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nairobi-skylines/citysim/internal/engine"
	"github.com/nairobi-skylines/citysim/internal/errors"
	"github.com/nairobi-skylines/citysim/internal/pkg/clock"
	"github.com/nairobi-skylines/citysim/internal/pkg/idgen"
)

// DB wraps a SQLite connection for city persistence.
type DB struct {
	conn  *sqlx.DB
	clock clock.Clock
	ids   idgen.Generator
}

// Option configures a DB.
type Option func(*DB)

// WithClock sets the time source for save and score timestamps.
func WithClock(c clock.Clock) Option {
	return func(db *DB) { db.clock = c }
}

// WithIDGenerator sets the generator for save and score IDs.
func WithIDGenerator(g idgen.Generator) Option {
	return func(db *DB) { db.ids = g }
}

// Open opens or creates a SQLite database at the given path.
func Open(path string, opts ...Option) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, clock: clock.New(), ids: idgen.NewUUID("")}
	for _, opt := range opts {
		opt(db)
	}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

var _ Store = (*DB)(nil)

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		money REAL NOT NULL,
		saved_at INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS high_scores (
		id TEXT PRIMARY KEY,
		score INTEGER NOT NULL,
		money REAL NOT NULL,
		population INTEGER NOT NULL,
		happiness INTEGER NOT NULL,
		corruption INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		won INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_high_scores_score ON high_scores(score DESC);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save writes the state into its slot, replacing any earlier save there.
func (db *DB) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgumentf("state is required")
	}
	slot := input.Slot
	if slot == "" {
		slot = DefaultSlot
	}

	data, err := Encode(input.State)
	if err != nil {
		return nil, err
	}

	info := SaveInfo{
		ID:      db.ids.Generate(),
		Slot:    slot,
		Tick:    input.State.Stats.TickCount,
		Money:   input.State.Stats.Money,
		SavedAt: db.clock.Now(),
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO saves (slot, id, tick, money, saved_at, data)
		VALUES (?, ?, ?, ?, ?, ?)`,
		info.Slot, info.ID, info.Tick, info.Money, info.SavedAt.UnixNano(), string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("save slot %s: %w", slot, err)
	}

	slog.Info("city saved", "slot", slot, "tick", info.Tick, "bytes", len(data))
	return &SaveOutput{Info: info}, nil
}

type saveRow struct {
	ID      string  `db:"id"`
	Slot    string  `db:"slot"`
	Tick    int     `db:"tick"`
	Money   float64 `db:"money"`
	SavedAt int64   `db:"saved_at"`
	Data    string  `db:"data"`
}

// Load restores the state saved in a slot.
func (db *DB) Load(ctx context.Context, input LoadInput) (*LoadOutput, error) {
	slot := input.Slot
	if slot == "" {
		slot = DefaultSlot
	}

	var row saveRow
	err := db.conn.GetContext(ctx, &row,
		"SELECT id, slot, tick, money, saved_at, data FROM saves WHERE slot = ?", slot)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no save in slot %q", slot)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}

	state, err := Decode([]byte(row.Data))
	if err != nil {
		return nil, errors.Wrap(err, "load slot "+slot)
	}
	return &LoadOutput{
		State: state,
		Info: SaveInfo{
			ID:      row.ID,
			Slot:    row.Slot,
			Tick:    row.Tick,
			Money:   row.Money,
			SavedAt: time.Unix(0, row.SavedAt),
		},
	}, nil
}

// Slots lists the saved slot names.
func (db *DB) Slots(ctx context.Context) ([]string, error) {
	var slots []string
	if err := db.conn.SelectContext(ctx, &slots, "SELECT slot FROM saves ORDER BY slot"); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT INTO events (tick, description, category) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(e.Tick, e.Description, e.Category); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

type scoreRow struct {
	ID         string  `db:"id"`
	Score      int64   `db:"score"`
	Money      float64 `db:"money"`
	Population int     `db:"population"`
	Happiness  int     `db:"happiness"`
	Corruption int     `db:"corruption"`
	Ticks      int     `db:"ticks"`
	Won        bool    `db:"won"`
	RecordedAt int64   `db:"recorded_at"`
}

func (r scoreRow) highScore() HighScore {
	return HighScore{
		ID:         r.ID,
		Score:      r.Score,
		Money:      r.Money,
		Population: r.Population,
		Happiness:  r.Happiness,
		Corruption: r.Corruption,
		Ticks:      r.Ticks,
		Won:        r.Won,
		RecordedAt: time.Unix(0, r.RecordedAt),
	}
}

// RecordHighScore adds an entry for the given stats and trims the table to
// the best MaxHighScores. It returns the entry and its 1-based rank, or rank
// 0 when it did not make the board.
func (db *DB) RecordHighScore(ctx context.Context, st engine.CityStats) (HighScore, int, error) {
	hs := NewHighScore(db.ids.Generate(), st, db.clock.Now())

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return hs, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO high_scores
		(id, score, money, population, happiness, corruption, ticks, won, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		hs.ID, hs.Score, hs.Money, hs.Population, hs.Happiness, hs.Corruption,
		hs.Ticks, hs.Won, hs.RecordedAt.UnixNano(),
	)
	if err != nil {
		return hs, 0, fmt.Errorf("insert score: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM high_scores WHERE id NOT IN (
			SELECT id FROM high_scores ORDER BY score DESC, recorded_at ASC LIMIT ?
		)`, MaxHighScores)
	if err != nil {
		return hs, 0, fmt.Errorf("trim scores: %w", err)
	}

	var ids []string
	if err := tx.SelectContext(ctx, &ids,
		"SELECT id FROM high_scores ORDER BY score DESC, recorded_at ASC"); err != nil {
		return hs, 0, fmt.Errorf("rank scores: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return hs, 0, fmt.Errorf("commit: %w", err)
	}

	rank := 0
	for i, id := range ids {
		if id == hs.ID {
			rank = i + 1
			break
		}
	}
	slog.Info("high score recorded", "score", hs.Score, "rank", rank)
	return hs, rank, nil
}

// TopScores returns the leaderboard, best first.
func (db *DB) TopScores(ctx context.Context) ([]HighScore, error) {
	var rows []scoreRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT id, score, money, population, happiness, corruption, ticks, won, recorded_at
		FROM high_scores ORDER BY score DESC, recorded_at ASC LIMIT ?`, MaxHighScores)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	out := make([]HighScore, len(rows))
	for i, r := range rows {
		out[i] = r.highScore()
	}
	return out, nil
}
