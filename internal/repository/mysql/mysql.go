// Package mysql implements the repository persistence contract over
// a hosted MySQL database. It mirrors the file-backed store
// operation for operation so either backend can serve the
// repositories without changing caller code. Row updates re-read the
// row inside a transaction and guard the write with the record's
// version counter, rejecting stale writes.
package mysql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lensly/booking-marketplace/internal/repository"
	"github.com/lensly/booking-marketplace/internal/store"
)

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// mapErr translates driver errors into the shared taxonomy. Missing
// rows become repository.ErrNotFound; anything else is reported as a
// storage failure.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, what)
	}
	if isDuplicate(err) {
		return fmt.Errorf("%w: %s", repository.ErrConflict, what)
	}
	return fmt.Errorf("%w: %s: %v", store.ErrUnavailable, what, err)
}

// errStale reports a version-guarded UPDATE that matched no row even
// though the transaction just read it: the record's version moved
// between read and write, so the write is rejected as a conflict.
func errStale(what string) error {
	return fmt.Errorf("%w: %s (stale version)", repository.ErrConflict, what)
}

// nullStr converts an optional string column for insertion.
func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullFloat converts an optional numeric column for insertion.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// strPtr converts a scanned nullable column back to a pointer.
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
