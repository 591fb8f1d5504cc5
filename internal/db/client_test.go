package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/dbtomodel/internal/schema"
)

func TestQueryRowsNormalizesValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COLUMN_NAME").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "IS_NULLABLE", "ORDINAL"}).
			AddRow([]byte("email"), []byte("YES"), int64(2)).
			AddRow([]byte("id"), []byte("NO"), int64(1)))

	client := &MySQLClient{db: db}
	rows, err := client.Query(context.Background(), "SELECT COLUMN_NAME, IS_NULLABLE, ORDINAL FROM columns WHERE table_name = ?", "users")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, schema.Row{"column_name": "email", "is_nullable": "YES", "ordinal": int64(2)}, rows[0])
	assert.Equal(t, "id", rows[1]["column_name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRowsPropagatesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("permission denied")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	client := &SQLServerClient{db: db}
	_, err = client.Query(context.Background(), "SELECT 1")
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRowsEmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name").WillReturnRows(sqlmock.NewRows([]string{"name"}))

	client := &SQLiteClient{db: db}
	rows, err := client.Query(context.Background(), "SELECT name FROM sqlite_master")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClientDialects(t *testing.T) {
	tests := []struct {
		name   string
		client schema.Source
		want   schema.Dialect
	}{
		{name: "mysql", client: &MySQLClient{}, want: schema.MySQL},
		{name: "postgres", client: &PostgresClient{}, want: schema.Postgres},
		{name: "sqlite", client: &SQLiteClient{}, want: schema.SQLite},
		{name: "sqlserver", client: &SQLServerClient{}, want: schema.SQLServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.client.Dialect())
		})
	}
}

func TestSQLiteClientQuery(t *testing.T) {
	ctx := context.Background()

	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.GetDB().ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL)`)
	require.NoError(t, err)

	rows, err := client.Query(ctx, `SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, "users")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "id", rows[0]["name"])
	assert.Equal(t, "INTEGER", rows[0]["type"])
	assert.Equal(t, int64(1), rows[0]["pk"])
	assert.Equal(t, "email", rows[1]["name"])
	assert.Equal(t, int64(1), rows[1]["notnull"])
}

func TestConnectUnknownDialect(t *testing.T) {
	_, err := Connect(context.Background(), schema.Dialect("oracle"), "whatever")
	require.Error(t, err)
}

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "tcp dsn", dsn: "user:pass@tcp(localhost:3306)/shop", want: "shop"},
		{name: "with params", dsn: "root@tcp(db:3306)/app?parseTime=true", want: "app"},
		{name: "no database", dsn: "user:pass@tcp(localhost:3306)/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDatabaseName(tt.dsn)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
