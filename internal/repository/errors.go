// Package repository provides typed, validated access to the
// marketplace entities. Repositories own field validation and
// cross-entity reference resolution and delegate persistence to a
// backend store (file-backed or MySQL) behind the interfaces in
// ports.go. The sentinel errors below let handlers distinguish
// failure scenarios: ErrValidation maps to a 4xx request problem,
// ErrConflict to a uniqueness violation such as a duplicate email or
// duplicate review, and ErrPartialFailure to the one case where a
// payment was recorded but its booking could not be synced, which
// callers must reconcile manually rather than assume nothing
// happened.
package repository

import "errors"

// ErrValidation is returned when required fields are missing or
// malformed. Requests failing validation are never retried.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on uniqueness violations, e.g. registering
// an email twice or reviewing the same booking twice.
var ErrConflict = errors.New("conflict")

// ErrPartialFailure is returned when a payment record was appended
// but the referenced booking could not be updated afterwards. The
// payment exists; the caller must reconcile the booking manually.
var ErrPartialFailure = errors.New("partial failure")
