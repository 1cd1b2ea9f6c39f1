package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/dbtlens/pkg/logical"
	"github.com/leapstack-labs/dbtlens/pkg/schema"
)

// PostgresConfig holds the connection parameters for a Postgres SchemaFetcher.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
}

// Postgres is a SchemaFetcher backed by a live PostgreSQL connection. It
// queries only information_schema.columns; it never reads or writes table
// data.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL and returns a ready SchemaFetcher.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("pgx", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an already-open *sql.DB, used by tests to inject
// a go-sqlmock connection.
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func buildDSN(cfg PostgresConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, cfg.Database, sslmode)
	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

const columnQuery = `
	SELECT column_name, data_type, is_nullable
	FROM information_schema.columns
	WHERE table_catalog = $1 AND table_schema = $2 AND table_name = $3
	ORDER BY ordinal_position
`

// FetchSchema implements SchemaFetcher by describing relation's columns
// from information_schema.
func (p *Postgres) FetchSchema(ctx context.Context, database, schemaName, relation string) (schema.Schema, error) {
	rows, err := p.db.QueryContext(ctx, columnQuery, database, schemaName, relation)
	if err != nil {
		return nil, fmt.Errorf("query column metadata for %s.%s.%s: %w", database, schemaName, relation, err)
	}
	defer func() { _ = rows.Close() }()

	var out schema.Schema
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column metadata: %w", err)
		}
		col := schema.Column{
			Name: name,
			Type: pgTypeToLogical(dataType),
		}
		if nullable == "YES" {
			col.Nullable = logical.NullYes
		} else {
			col.Nullable = logical.NullNo
		}
		out = append(out, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column metadata: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("relation %s.%s.%s not found", database, schemaName, relation)
	}
	return out, nil
}

// pgTypeToLogical maps a Postgres information_schema.columns.data_type
// value to the shared logical type lattice.
func pgTypeToLogical(pgType string) logical.Type {
	return logical.ParseTypeName(pgType)
}
