// Package repository defines the credential store: MySQL-backed
// repositories for users and their authentication methods, plus the
// sentinel errors higher layers use to tell failure scenarios apart.
// ErrNotFound means the requested row does not exist, while ErrDuplicate
// signals that an insert collided with a unique key (an email or an
// external identity that is already claimed).
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row. Services should
// translate this into an authentication failure rather than a 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index.
// Services should translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows onto ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
