package warehouse

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dbtlens/pkg/logical"
)

func TestPostgresFetchSchemaMapsTypes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
		AddRow("id", "integer", "NO").
		AddRow("amount", "numeric", "YES").
		AddRow("created_at", "timestamp without time zone", "NO").
		AddRow("payload", "jsonb", "YES")

	mock.ExpectQuery("SELECT column_name, data_type, is_nullable").
		WithArgs("analytics", "public", "orders").
		WillReturnRows(rows)

	p := NewPostgresFromDB(db)
	s, err := p.FetchSchema(context.Background(), "analytics", "public", "orders")
	require.NoError(t, err)
	require.Len(t, s, 4)

	assert.Equal(t, logical.Int, s[0].Type)
	assert.Equal(t, logical.NullNo, s[0].Nullable)
	assert.Equal(t, logical.KindDecimal, s[1].Type.Kind)
	assert.Equal(t, logical.Timestamp, s[2].Type)
	assert.Equal(t, logical.JSON, s[3].Type)
}

func TestPostgresFetchSchemaNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT column_name, data_type, is_nullable").
		WithArgs("analytics", "public", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}))

	p := NewPostgresFromDB(db)
	_, err = p.FetchSchema(context.Background(), "analytics", "public", "missing")
	require.Error(t, err)
}

func TestPostgresFetchSchemaPropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT column_name, data_type, is_nullable").
		WillReturnError(assert.AnError)

	p := NewPostgresFromDB(db)
	_, err = p.FetchSchema(context.Background(), "analytics", "public", "orders")
	require.Error(t, err)
}
