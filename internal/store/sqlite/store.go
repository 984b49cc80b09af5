// Package sqlite persists OHLCV bars so backtests can replay a series
// offline instead of hitting the market-data API.
package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"signal-systemv1/internal/model"
)

// Store is a SQLite-backed bar store keyed by (symbol, interval, ts).
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the bar database with WAL mode and the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", dbPath)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS klines (
			symbol   TEXT    NOT NULL,
			interval TEXT    NOT NULL,
			ts       INTEGER NOT NULL,
			open     REAL    NOT NULL,
			high     REAL    NOT NULL,
			low      REAL    NOT NULL,
			close    REAL    NOT NULL,
			volume   REAL,
			PRIMARY KEY (symbol, interval, ts)
		);
	`)
	return err
}

// InsertBars upserts a bar series in one transaction.
func (s *Store) InsertBars(symbol, interval string, bars []model.Bar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO klines (symbol, interval, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, interval, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	return nil
}

// ReadBars reads up to limit bars for a symbol/interval, ordered by
// ascending timestamp. limit <= 0 reads everything.
func (s *Store) ReadBars(symbol, interval string, limit int) ([]model.Bar, error) {
	q := `
		SELECT ts, open, high, low, close, volume
		FROM klines
		WHERE symbol = ? AND interval = ?
		ORDER BY ts ASC
	`
	args := []interface{}{symbol, interval}
	if limit > 0 {
		// Keep the most recent window: take the newest N, then re-sort
		// ascending for replay order.
		q = `
			SELECT ts, open, high, low, close, volume FROM (
				SELECT ts, open, high, low, close, volume
				FROM klines
				WHERE symbol = ? AND interval = ?
				ORDER BY ts DESC
				LIMIT ?
			) ORDER BY ts ASC
		`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query klines: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var ts int64
		var volume sql.NullFloat64
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &volume); err != nil {
			return nil, fmt.Errorf("sqlite scan klines: %w", err)
		}
		b.Time = time.Unix(ts, 0).UTC()
		b.Volume = volume.Float64
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
