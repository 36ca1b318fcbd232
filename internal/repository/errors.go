// Package repository implements data access on top of database/sql.
// Sentinel errors defined here let handlers map storage failures to
// specific HTTP statuses; anything else surfaces as a 500.
package repository

import "errors"

// ErrEmailExists is returned when a user insert violates the unique
// email constraint. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrMemberReference is returned when a membership sync references a
// user id that does not exist (foreign-key violation). It is the only
// sync failure that is the caller's fault; handlers translate it into
// HTTP 400, everything else stays a 500.
var ErrMemberReference = errors.New("assignment references an unknown user")
