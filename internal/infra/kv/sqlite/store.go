// Package sqlite implements kv.Store on an embedded SQLite file, one row per key.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

type Store struct {
	db   *sql.DB
	path string
}

// Open creates (if needed) and opens the database file at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "barberbook.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection serializes writers; sqlite locks the whole file anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		revision INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_entries table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Driver() kv.Driver { return kv.DriverSQLite }

func (s *Store) Get(ctx context.Context, key string) (kv.Entry, error) {
	var (
		value []byte
		rev   int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT value, revision FROM kv_entries WHERE key = ?`, key).Scan(&value, &rev)
	if errors.Is(err, sql.ErrNoRows) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return kv.Entry{Key: key, Value: value, Revision: strconv.FormatInt(rev, 10)}, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_entries (key, value, revision) VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, revision = kv_entries.revision + 1`, key, value)
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if revision == "" {
		res, err = s.db.ExecContext(ctx, `INSERT INTO kv_entries (key, value, revision) VALUES (?, ?, 1)
			ON CONFLICT(key) DO NOTHING`, key, value)
	} else {
		rev, perr := strconv.ParseInt(revision, 10, 64)
		if perr != nil {
			return false, nil
		}
		res, err = s.db.ExecContext(ctx, `UPDATE kv_entries SET value = ?, revision = revision + 1
			WHERE key = ? AND revision = ?`, value, key, rev)
	}
	if err != nil {
		return false, fmt.Errorf("sqlite cas %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite cas %s: %w", key, err)
	}
	return n == 1, nil
}

func (s *Store) Close() error { return s.db.Close() }

var _ kv.Store = (*Store)(nil)
