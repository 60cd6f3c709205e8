package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	// SettingsTable holds persisted color values.
	SettingsTable = "settings"
	// TransientsTable holds cache entries such as the compiled stylesheet.
	TransientsTable = "transients"
)

// SQLite keeps settings and transients in one SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, table := range []string{SettingsTable, TransientsTable} {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, table)
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return &SQLite{db: db}, nil
}

// Settings returns the store for persisted color values.
func (s *SQLite) Settings() *Table {
	return &Table{db: s.db, name: SettingsTable}
}

// Transients returns the store for cache entries.
func (s *SQLite) Transients() *Table {
	return &Table{db: s.db, name: TransientsTable}
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Table is a key-value view over one table of a SQLite database.
type Table struct {
	db   *sql.DB
	name string
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (string, bool, error) {
	var value string
	err := t.db.QueryRow(fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, t.name), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key.
func (t *Table) Set(key, value string) error {
	_, err := t.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, t.name),
		key, value,
	)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (t *Table) Delete(key string) error {
	_, err := t.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, t.name), key)
	return err
}
