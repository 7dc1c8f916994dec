// Package statestore persists role session credentials between CLI runs.
// Only cookies and the bearer token are stored; profiles are always
// fetched again so a stale identity is never trusted.
package statestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rm-Shayan/finetech-frontened/client/internal/types"
)

// Record is the persisted credential set of one role against one backend.
type Record struct {
	AccessToken string
	Cookies     []*http.Cookie
	UpdatedAt   time.Time
}

// Store is a SQLite-backed credential store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and enables WAL journal mode.
func Open(path string) (*Store, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS RoleSessions (
            BaseURL TEXT NOT NULL,
            Role TEXT NOT NULL,
            AccessToken TEXT,
            UpdateTime TIMESTAMP NOT NULL,
            PRIMARY KEY(BaseURL, Role)
        );`,
		`CREATE TABLE IF NOT EXISTS SessionCookies (
            BaseURL TEXT NOT NULL,
            Role TEXT NOT NULL,
            Name TEXT NOT NULL,
            Value TEXT NOT NULL,
            PRIMARY KEY(BaseURL, Role, Name),
            FOREIGN KEY(BaseURL, Role) REFERENCES RoleSessions(BaseURL, Role) ON DELETE CASCADE
        );`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces the record of role against baseURL.
func (s *Store) Save(ctx context.Context, baseURL string, role types.Role, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM RoleSessions WHERE BaseURL = ? AND Role = ?`, baseURL, role.String()); err != nil {
		return err
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO RoleSessions (BaseURL, Role, AccessToken, UpdateTime) VALUES (?, ?, ?, ?)`,
		baseURL, role.String(), rec.AccessToken, updated); err != nil {
		return err
	}
	for _, c := range rec.Cookies {
		if c == nil || c.Name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO SessionCookies (BaseURL, Role, Name, Value) VALUES (?, ?, ?, ?)`,
			baseURL, role.String(), c.Name, c.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load returns the record of role against baseURL. ok is false when none
// has been saved.
func (s *Store) Load(ctx context.Context, baseURL string, role types.Role) (rec Record, ok bool, err error) {
	var token sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT AccessToken, UpdateTime FROM RoleSessions WHERE BaseURL = ? AND Role = ?`,
		baseURL, role.String()).Scan(&token, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	rec.AccessToken = token.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT Name, Value FROM SessionCookies WHERE BaseURL = ? AND Role = ? ORDER BY Name`,
		baseURL, role.String())
	if err != nil {
		return Record{}, false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		c := &http.Cookie{Path: "/"}
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			return Record{}, false, err
		}
		rec.Cookies = append(rec.Cookies, c)
	}
	if err := rows.Err(); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Delete forgets the record of role against baseURL.
func (s *Store) Delete(ctx context.Context, baseURL string, role types.Role) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM RoleSessions WHERE BaseURL = ? AND Role = ?`, baseURL, role.String())
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
