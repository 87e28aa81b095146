package database

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Dialect identifies the SQL flavour behind a DB.
type Dialect int

const (
	// MySQL covers MariaDB and MySQL via go-sql-driver/mysql.
	MySQL Dialect = iota
	// Postgres covers PostgreSQL via the pgx stdlib driver.
	Postgres
)

// Server error codes for unique-constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	postgresUniqueViolate = "23505"
)

// DialectFor maps a config driver name to a Dialect. Unknown names fall back
// to MySQL; config.Load rejects them before we get here.
func DialectFor(driver string) Dialect {
	if driver == "postgres" {
		return Postgres
	}
	return MySQL
}

// String returns the human-readable dialect name.
func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

// DriverName returns the database/sql driver name registered for d.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "mysql"
}

// Rebind rewrites "?" placeholders to "$1, $2, ..." for Postgres. Queries
// in this codebase never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver.
func IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolate
	}
	return false
}

// InsertReturningID runs an INSERT written with "?" placeholders and returns
// the generated id column. MySQL reports it via LastInsertId; Postgres needs
// an explicit RETURNING clause.
func InsertReturningID(ctx context.Context, q DBTX, d Dialect, query string, args ...any) (int64, error) {
	if d == Postgres {
		var id int64
		err := q.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DBTX is the subset of database/sql used by repositories. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
