// Package repository defines error types that are reused across every
// user directory backend. These sentinel values allow higher layers such
// as services to distinguish between different failure scenarios without
// knowing which store is in use.
package repository

import "errors"

// ErrNotFound is returned when no user matches the lookup key.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when an insert would violate the unique
// username or email constraint.
var ErrDuplicate = errors.New("username or email already exists")

// ErrValidation is returned when a user does not satisfy the data model
// rules (username length, email shape, role).
var ErrValidation = errors.New("user validation failed")
