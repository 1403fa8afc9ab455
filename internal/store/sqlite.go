package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

type SQLiteStore struct {
	sql *sql.DB
	log logrus.FieldLogger
}

func OpenSQLite(dbPath string, log logrus.FieldLogger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)", dbPath)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)

	s := &SQLiteStore{sql: sqldb, log: log.WithField("component", "store")}
	if err := s.migrate(context.Background()); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.sql.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (id INTEGER PRIMARY KEY CHECK (id = 1), day TEXT NOT NULL, updated_at INTEGER NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS state_results (market TEXT PRIMARY KEY, result TEXT NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			id TEXT PRIMARY KEY,
			cycle_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			day TEXT NOT NULL,
			market TEXT NOT NULL,
			result TEXT NOT NULL,
			sent_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_sent_at ON deliveries(sent_at);`,
	}
	for _, st := range stmts {
		if _, err := s.sql.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) tracker.State {
	st, err := s.load(ctx)
	if err != nil {
		s.log.WithError(err).Warn("could not load state, starting empty")
		return tracker.Empty()
	}
	return st
}

func (s *SQLiteStore) load(ctx context.Context) (tracker.State, error) {
	st := tracker.Empty()
	err := s.sql.QueryRowContext(ctx, `SELECT day FROM state_meta WHERE id=1`).Scan(&st.Day)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Empty(), nil
	}
	if err != nil {
		return tracker.State{}, err
	}
	rows, err := s.sql.QueryContext(ctx, `SELECT market,result FROM state_results`)
	if err != nil {
		return tracker.State{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var m, r string
		if err := rows.Scan(&m, &r); err != nil {
			return tracker.State{}, err
		}
		st.Results[markets.Market(m)] = r
	}
	return st, rows.Err()
}

// Save replaces the day row and all results in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, st tracker.State) error {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO state_meta(id,day,updated_at) VALUES(1,?,?)
		 ON CONFLICT(id) DO UPDATE SET day=excluded.day, updated_at=excluded.updated_at`,
		st.Day, time.Now().Unix()); err != nil {
		return fmt.Errorf("save day: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM state_results`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	for m, r := range st.Results {
		if _, err := tx.ExecContext(ctx, `INSERT INTO state_results(market,result) VALUES(?,?)`, string(m), r); err != nil {
			return fmt.Errorf("save result %s: %w", m, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) RecordDeliveries(ctx context.Context, ds []Delivery) error {
	if len(ds) == 0 {
		return nil
	}
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, d := range ds {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		sentAt := d.SentAt
		if sentAt.IsZero() {
			sentAt = time.Now()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO deliveries(id,cycle_id,kind,day,market,result,sent_at) VALUES(?,?,?,?,?,?,?)`,
			id, d.CycleID, d.Kind, d.Day, string(d.Market), d.Result, sentAt.Unix())
		if err != nil {
			return fmt.Errorf("record delivery: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListDeliveries(ctx context.Context, day string) ([]Delivery, error) {
	rows, err := s.sql.QueryContext(ctx,
		`SELECT id,cycle_id,kind,day,market,result,sent_at FROM deliveries WHERE day=? ORDER BY sent_at ASC, rowid ASC`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Delivery
	for rows.Next() {
		var d Delivery
		var m string
		var at int64
		if err := rows.Scan(&d.ID, &d.CycleID, &d.Kind, &d.Day, &m, &d.Result, &at); err != nil {
			return nil, err
		}
		d.Market = markets.Market(m)
		d.SentAt = time.Unix(at, 0)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PruneDeliveries(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sql.ExecContext(ctx, `DELETE FROM deliveries WHERE sent_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BackupTo writes a consistent snapshot of the database to dstPath with
// VACUUM INTO, which is safe under WAL. dstPath must not exist yet.
func (s *SQLiteStore) BackupTo(ctx context.Context, dstPath string) error {
	if _, err := os.Stat(dstPath); err == nil {
		return fmt.Errorf("backup target %s already exists", dstPath)
	}
	quoted := "'" + strings.ReplaceAll(dstPath, "'", "''") + "'"
	if _, err := s.sql.ExecContext(ctx, "VACUUM INTO "+quoted); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dstPath, err)
	}
	s.log.WithField("path", dstPath).Info("state backup written")
	return nil
}
