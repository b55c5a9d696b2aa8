package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"TickerDash/internal/model"
)

// SQLiteRecorder persists load history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the dashboard can read history while a reload writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS load_cycles (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id   TEXT NOT NULL UNIQUE,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT,
			origin     TEXT,
			source     TEXT,
			bars       INTEGER,
			first_date TEXT,
			last_date  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_load_ts ON load_cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS source_attempts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id    TEXT NOT NULL,
			seq         INTEGER,
			source      TEXT,
			ok          INTEGER,
			status      INTEGER,
			bars        INTEGER,
			error       TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_cycle ON source_attempts(cycle_id)`,

		`CREATE TABLE IF NOT EXISTS metric_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id      TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			latest_close  REAL,
			period_return REAL,
			volatility    REAL,
			high_52w      REAL,
			low_52w       REAL,
			avg_volume    REAL,
			market_cap    REAL,
			rsi14         REAL,
			warnings      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_cycle ON metric_snapshots(cycle_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordLoad writes the cycle, its attempts and its metrics in one transaction.
func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := evt.Series
	var first, last string
	if s.Len() > 0 {
		first = s.Bars[0].Date.Format("2006-01-02")
		last = s.Last().Date.Format("2006-01-02")
	}
	ts := evt.LoadedAt.Unix()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO load_cycles
		(cycle_id, timestamp, symbol, origin, source, bars, first_date, last_date)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.CycleID, ts, s.Symbol, string(s.Origin), s.Source, s.Len(), first, last,
	); err != nil {
		return fmt.Errorf("insert load cycle: %w", err)
	}

	for i, a := range s.Attempts {
		if _, err := tx.Exec(`INSERT INTO source_attempts
			(cycle_id, seq, source, ok, status, bars, error, duration_ms)
			VALUES (?,?,?,?,?,?,?,?)`,
			evt.CycleID, i, a.Source, a.OK, a.Status, a.Bars, a.Error, a.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
	}

	m := evt.Metrics
	if _, err := tx.Exec(`INSERT INTO metric_snapshots
		(cycle_id, timestamp, latest_close, period_return, volatility,
		 high_52w, low_52w, avg_volume, market_cap, rsi14, warnings)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.CycleID, ts, m.LatestClose, m.PeriodReturn, m.Volatility,
		m.High52w, m.Low52w, m.AvgVolume, m.MarketCap, m.RSI14, len(m.Warnings),
	); err != nil {
		return fmt.Errorf("insert metrics: %w", err)
	}

	return tx.Commit()
}

// RecentLoads returns the most recent load cycles, newest first.
func (r *SQLiteRecorder) RecentLoads(limit int) ([]LoadSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT c.cycle_id, c.timestamp, c.symbol, c.origin, c.source, c.bars,
			(SELECT COUNT(*) FROM source_attempts a WHERE a.cycle_id = c.cycle_id AND a.ok = 0),
			COALESCE(m.latest_close, 0)
		FROM load_cycles c
		LEFT JOIN metric_snapshots m ON m.cycle_id = c.cycle_id
		ORDER BY c.timestamp DESC, c.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query loads: %w", err)
	}
	defer rows.Close()

	var out []LoadSummary
	for rows.Next() {
		var (
			row    LoadSummary
			ts     int64
			origin string
		)
		if err := rows.Scan(&row.CycleID, &ts, &row.Symbol, &origin, &row.Source, &row.Bars, &row.FailedTries, &row.LatestClose); err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		row.LoadedAt = time.Unix(ts, 0)
		row.Origin = model.Origin(origin)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
