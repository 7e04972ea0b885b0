package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// where accumulates AND conditions onto a "WHERE 1=1" base. Each "?" in a
// condition is bound to the next positional placeholder.
type where struct {
	sql  string
	args []interface{}
}

func newWhere() *where {
	return &where{sql: " WHERE 1=1"}
}

func (w *where) add(cond string, vals ...interface{}) {
	for _, v := range vals {
		w.args = append(w.args, v)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.sql += " AND " + cond
}

// page returns the LIMIT/OFFSET clause and a copy of the args extended with
// its values, leaving w usable for the matching COUNT query.
func (w *where) page(limit, offset int) (string, []interface{}) {
	n := len(w.args)
	args := make([]interface{}, 0, n+2)
	args = append(args, w.args...)
	args = append(args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func (w *where) count(ctx context.Context, db DBTX, from string) (int, error) {
	var total int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from+w.sql, w.args...).Scan(&total)
	return total, err
}

// notFound converts sql.ErrNoRows into a NotFoundError for resource/id.
func notFound(err error, resource string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NewNotFound(resource, id)
	}
	return err
}

// execAffecting runs a statement and reports NotFound when no row matched.
func execAffecting(ctx context.Context, db DBTX, resource string, id any, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewNotFound(resource, id)
	}
	return nil
}

func likePattern(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}

// isUniqueViolation reports a Postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation reports a Postgres foreign_key_violation (23503).
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
