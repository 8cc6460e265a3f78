// Package repository contains the raw-SQL sqlite implementations of the
// persistence ports.
package repository

import (
	"database/sql"
	"errors"

	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/mattn/go-sqlite3"
)

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// translateConstraint maps sqlite constraint violations onto the domain
// error taxonomy so services do not have to pre-query for uniqueness.
// Unique violations become conflicts; foreign key violations surface as
// conflicts too since they signal the row is still referenced (RESTRICT)
// or references something gone.
func translateConstraint(err error, msg string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return entity.NewConflict("%s: already exists", msg)
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return entity.NewConflict("%s: violates a reference constraint", msg)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
