// Package sqlstore keeps save slots in a single SQL table, save_slots, over
// database/sql. SQLite (modernc.org/sqlite), MySQL (go-sql-driver/mysql) and
// PostgreSQL (lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/vk/tamigo/internal/savestore"
)

// Store is a save_slots table.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ savestore.Store = (*Store)(nil)

// Open connects to the database named by dsn, verifies the connection and
// creates the table if it does not exist.
func Open(ctx context.Context, backend, dsn string) (*Store, error) {
	dialect, err := DialectFor(backend)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect.Driver == SQLite.Driver {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	s, err := New(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the table if needed. The store
// takes ownership of db.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if _, err := db.ExecContext(ctx, dialect.createTable); err != nil {
		return nil, fmt.Errorf("creating %s table: %w", table, err)
	}
	return &Store{db: db, dialect: dialect}, nil
}

// Put inserts or replaces a slot.
func (s *Store) Put(ctx context.Context, slot savestore.Slot) error {
	data := slot.Data
	if data == nil {
		data = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, slot.Timestamp, data); err != nil {
		return fmt.Errorf("writing slot %d: %w", slot.Timestamp, err)
	}
	return nil
}

// Get reads one slot.
func (s *Store) Get(ctx context.Context, ts int64) (savestore.Slot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.dialect.selectOne, ts).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return savestore.Slot{}, savestore.ErrNotFound
	}
	if err != nil {
		return savestore.Slot{}, fmt.Errorf("reading slot %d: %w", ts, err)
	}
	return savestore.Slot{Timestamp: ts, Data: data}, nil
}

// List returns every slot, newest first, without data.
func (s *Store) List(ctx context.Context) ([]savestore.Slot, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.selectAll)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []savestore.Slot
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("listing saves: %w", err)
		}
		out = append(out, savestore.Slot{Timestamp: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	return out, nil
}

// Delete removes one slot.
func (s *Store) Delete(ctx context.Context, ts int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.deleteOne, ts)
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", ts, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", ts, err)
	}
	if n == 0 {
		return savestore.ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
