package state

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store using SQLite, mirroring the run-tracking
// adapter's Open/Migrate/Close lifecycle but persisting node fingerprints
// instead of run history.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates an unopened store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the SQLite database at path. Use ":memory:" for a scratch
// store, e.g. in tests.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	} else {
		dsn = ":memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite state db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite state db: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Migrate applies any pending goose migrations.
func (s *SQLiteStore) Migrate() error {
	if s.db == nil {
		return fmt.Errorf("state db not opened")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetMemo retrieves the stored fingerprints for nodeID.
func (s *SQLiteStore) GetMemo(nodeID string) (Memo, bool, error) {
	if s.db == nil {
		return Memo{}, false, fmt.Errorf("state db not opened")
	}

	m := Memo{NodeID: nodeID}
	err := s.db.QueryRow(
		`SELECT input_fingerprint, output_fingerprint, diagnostics, updated_at FROM memos WHERE node_id = ?`,
		nodeID,
	).Scan(&m.InputFingerprint, &m.OutputFingerprint, &m.Diagnostics, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return Memo{}, false, nil
	}
	if err != nil {
		return Memo{}, false, fmt.Errorf("get memo for %s: %w", nodeID, err)
	}
	return m, true, nil
}

// SetMemo upserts the fingerprints for a node.
func (s *SQLiteStore) SetMemo(m Memo) error {
	if s.db == nil {
		return fmt.Errorf("state db not opened")
	}
	_, err := s.db.Exec(
		`INSERT INTO memos (node_id, input_fingerprint, output_fingerprint, diagnostics, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(node_id) DO UPDATE SET
		   input_fingerprint = excluded.input_fingerprint,
		   output_fingerprint = excluded.output_fingerprint,
		   diagnostics = excluded.diagnostics,
		   updated_at = excluded.updated_at`,
		m.NodeID, m.InputFingerprint, m.OutputFingerprint, m.Diagnostics, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("set memo for %s: %w", m.NodeID, err)
	}
	return nil
}

// DeleteMemo removes a node's memo, e.g. once its model has been deleted
// from the project.
func (s *SQLiteStore) DeleteMemo(nodeID string) error {
	if s.db == nil {
		return fmt.Errorf("state db not opened")
	}
	_, err := s.db.Exec(`DELETE FROM memos WHERE node_id = ?`, nodeID)
	if err != nil {
		return fmt.Errorf("delete memo for %s: %w", nodeID, err)
	}
	return nil
}

// ListMemos returns every stored memo, ordered by node id.
func (s *SQLiteStore) ListMemos() ([]Memo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("state db not opened")
	}
	rows, err := s.db.Query(`SELECT node_id, input_fingerprint, output_fingerprint, diagnostics, updated_at FROM memos ORDER BY node_id`)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Memo
	for rows.Next() {
		var m Memo
		if err := rows.Scan(&m.NodeID, &m.InputFingerprint, &m.OutputFingerprint, &m.Diagnostics, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan memo: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
