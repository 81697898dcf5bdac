package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"CryptoForecast/internal/model"
)

// SQLiteRecorder persists forecast runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers (history command, dashboards) do not block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			history_start INTEGER,
			history_end   INTEGER,
			mu            REAL,
			sigma         REAL,
			last_price    REAL,
			observations  INTEGER,
			horizon_days  INTEGER,
			num_paths     INTEGER,
			seed          TEXT,
			final_median  REAL,
			final_lower   REAL,
			final_upper   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON forecast_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS forecast_days (
			run_id  TEXT NOT NULL REFERENCES forecast_runs(id),
			day     INTEGER NOT NULL,
			median  REAL,
			lower   REAL,
			upper   REAL,
			PRIMARY KEY (run_id, day)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordForecast(fc *model.Forecast) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	recordedAt := fc.GeneratedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	final := fc.Final()

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// seed is stored as text: SQLite integers are signed 64-bit.
	_, err = tx.Exec(`INSERT INTO forecast_runs
		(id, timestamp, symbol, history_start, history_end,
		 mu, sigma, last_price, observations,
		 horizon_days, num_paths, seed,
		 final_median, final_lower, final_upper)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, recordedAt.Unix(), fc.Symbol, fc.Start.Unix(), fc.End.Unix(),
		fc.Params.Mu, fc.Params.Sigma, fc.Params.LastPrice, fc.Params.Observations,
		fc.HorizonDays, fc.NumPaths, strconv.FormatUint(fc.Seed, 10),
		final.Median, final.Lower, final.Upper,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO forecast_days (run_id, day, median, lower, upper) VALUES (?,?,?,?,?)`)
	if err != nil {
		return "", fmt.Errorf("prepare days: %w", err)
	}
	defer stmt.Close()
	for _, d := range fc.Summary {
		if _, err := stmt.Exec(runID, d.Day, d.Median, d.Lower, d.Upper); err != nil {
			return "", fmt.Errorf("insert day %d: %w", d.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

func (r *SQLiteRecorder) RecentForecasts(symbol string, limit int) ([]ForecastRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, mu, sigma, last_price,
			horizon_days, num_paths, seed, final_median, final_lower, final_upper
		FROM forecast_runs WHERE symbol = ?
		ORDER BY timestamp DESC, rowid DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []ForecastRecord
	for rows.Next() {
		var (
			rec  ForecastRecord
			ts   int64
			seed string
		)
		if err := rows.Scan(&rec.RunID, &ts, &rec.Symbol, &rec.Mu, &rec.Sigma, &rec.LastPrice,
			&rec.HorizonDays, &rec.NumPaths, &seed,
			&rec.Final.Median, &rec.Final.Lower, &rec.Final.Upper); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.RecordedAt = time.Unix(ts, 0)
		rec.Final.Day = rec.HorizonDays
		if rec.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("parse seed %q: %w", seed, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) ForecastDays(runID string) ([]model.DayStat, error) {
	rows, err := r.db.Query(`SELECT day, median, lower, upper FROM forecast_days
		WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	var out []model.DayStat
	for rows.Next() {
		var d model.DayStat
		if err := rows.Scan(&d.Day, &d.Median, &d.Lower, &d.Upper); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
