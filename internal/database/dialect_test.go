package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT id FROM users WHERE email = ? AND id <> ?"

	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t, "SELECT id FROM users WHERE email = $1 AND id <> $2", Postgres.Rebind(q))
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, Postgres, DialectFor("postgres"))
	assert.Equal(t, MySQL, DialectFor("mysql"))
	assert.Equal(t, "pgx", Postgres.DriverName())
	assert.Equal(t, "mysql", MySQL.DriverName())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("inserting user: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestInsertReturningID_MySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO items \(name\) VALUES \(\?\)`).
		WithArgs("widget").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := InsertReturningID(context.Background(), db, MySQL, "INSERT INTO items (name) VALUES (?)", "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReturningID_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO items \(name\) VALUES \(\$1\) RETURNING id`).
		WithArgs("widget").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	id, err := InsertReturningID(context.Background(), db, Postgres, "INSERT INTO items (name) VALUES (?)", "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db := Wrap(sqlDB, MySQL)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM blog_likes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM blog_likes WHERE id = ?", 1)
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("fail")
	err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
