// Package store persists programs in SQLite.
//
// A program is saved under a name as the source text of its rules, one row per rule in the order of declaration,
// and parsed back on Load.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ichiban/horn/syntax"
	"github.com/ichiban/horn/term"
)

// ErrNotFound is the error that Load and Delete return when no program is saved under the name.
var ErrNotFound = errors.New("not found")

// Store is a collection of named programs.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at path and creates the tables if they don't exist.
// The path ":memory:" opens an in-memory database which lives until Close.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Every connection to :memory: would see a database of its own.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS programs (
	name TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rules (
	program TEXT NOT NULL,
	position INTEGER NOT NULL,
	source TEXT NOT NULL,
	PRIMARY KEY(program, position)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save saves rules under name. A program previously saved under the same name is replaced.
func (s *Store) Save(ctx context.Context, name string, rules []term.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsert = `
INSERT INTO programs (name, saved_at)
VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET saved_at=excluded.saved_at;
`
	if _, err := tx.ExecContext(ctx, upsert, name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM rules WHERE program = ?", name); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO rules (program, position, source) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer stmt.Close()

	for i, r := range rules {
		if _, err := stmt.ExecContext(ctx, name, i, r.String()); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Load loads the rules saved under name in the order of declaration.
func (s *Store) Load(ctx context.Context, name string) ([]term.Rule, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM programs WHERE name = ?", name).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("load %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT source FROM rules WHERE program = ? ORDER BY position", name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rows.Close()

	var sb strings.Builder
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		sb.WriteString(src)
		sb.WriteString("\n")
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	rs, err := syntax.ParseProgram(sb.String())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return rs, nil
}

// Names returns the names of the saved programs in alphabetical order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM programs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("names: %w", err)
	}
	defer rows.Close()

	var ns []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("names: %w", err)
		}
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("names: %w", err)
	}
	return ns, nil
}

// Delete deletes the program saved under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM programs WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", name, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM rules WHERE program = ?", name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}
