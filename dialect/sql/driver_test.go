package sql

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovetodream/sql-kit/dialect"
)

func TestDriverDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		name     string
		driver   string
		expected string
	}{
		{"Postgres", dialect.Postgres, dialect.Postgres},
		{"MySQL", dialect.MySQL, dialect.MySQL},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		// Telemetry-wrapped driver names resolve to their base dialect.
		{"Instrumented", "postgres+telemetry", dialect.Postgres},
		{"Unknown", "oracle", "oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OpenDB(tt.driver, db).Dialect())
		})
	}
}

func TestDriverFeatures(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f := OpenDB(dialect.MySQL, db).Features()
	assert.Equal(t, dialect.MySQL, f.Name)
	assert.Equal(t, dialect.PlaceholderQuestion, f.Placeholder)
}

func TestConnExec(t *testing.T) {
	drv, mock := mockDriver(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 2))
	var res Result
	require.NoError(t, drv.Exec(ctx, "UPDATE users SET active = false", []any{}, &res))
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, drv.Exec(ctx, "DELETE FROM users WHERE id = ?", []any{1}, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnExecInvalidTypes(t *testing.T) {
	drv, _ := mockDriver(t)
	ctx := context.Background()

	err := drv.Exec(ctx, "UPDATE users SET active = false", "not-a-slice", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")

	err = drv.Exec(ctx, "UPDATE users SET active = false", []any{}, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")
}

func TestConnQuery(t *testing.T) {
	drv, mock := mockDriver(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("alice").AddRow("bob"))

	var rows Rows
	require.NoError(t, drv.Query(ctx, "SELECT name FROM users", []any{}, &rows))
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestConnQueryInvalidType(t *testing.T) {
	drv, _ := mockDriver(t)

	err := drv.Query(context.Background(), "SELECT 1", []any{}, &struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")
}

func TestDriverTx(t *testing.T) {
	drv, mock := mockDriver(t)
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Exec(ctx, "INSERT INTO users (name) VALUES (?)", []any{"alice"}, nil))
		require.NoError(t, tx.Commit())
	})

	t.Run("Rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		tx, err := drv.Tx(ctx)
		require.NoError(t, err)
		require.Error(t, tx.Exec(ctx, "INSERT INTO users (name) VALUES (?)", []any{"alice"}, nil))
		require.NoError(t, tx.Rollback())
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
