package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

// SQLiteDB is a database of records of many sessions. Use Session to get
// the cart.Storage of one session.
type SQLiteDB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the session database at path, creating its
// parent directory.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create session db dir")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "apply pragma %q", pragma)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS session_records (
		session    TEXT NOT NULL,
		record_key TEXT NOT NULL,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (session, record_key)
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	return &SQLiteDB{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Session returns the storage of session id.
func (s *SQLiteDB) Session(id string) *SQLiteSession {
	return &SQLiteSession{db: s, id: id}
}

// Expire removes records not written since before. It returns the number of
// records removed.
func (s *SQLiteDB) Expire(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session_records WHERE updated_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, errors.Wrap(err, "expire records")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}

var _ cart.Storage = (*SQLiteSession)(nil)

// SQLiteSession is the cart.Storage of one session in a SQLiteDB.
type SQLiteSession struct {
	db *SQLiteDB
	id string
}

func (s *SQLiteSession) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.db.QueryRowContext(ctx,
		`SELECT value FROM session_records WHERE session = ? AND record_key = ?`,
		s.id, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrNoRecord
	}
	if err != nil {
		return nil, errors.Wrap(err, "select record")
	}
	return value, nil
}

func (s *SQLiteSession) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.db.ExecContext(ctx,
		`INSERT INTO session_records (session, record_key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (session, record_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.id, key, value, s.db.now().UnixMilli(),
	)
	if err != nil {
		return errors.Wrap(err, "upsert record")
	}
	return nil
}

func (s *SQLiteSession) Delete(ctx context.Context, key string) error {
	if _, err := s.db.db.ExecContext(ctx,
		`DELETE FROM session_records WHERE session = ? AND record_key = ?`,
		s.id, key,
	); err != nil {
		return errors.Wrap(err, "delete record")
	}
	return nil
}
