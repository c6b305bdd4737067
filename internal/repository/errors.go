// Package repository defines data access for everything the service
// persists: staff accounts, refresh tokens and the floor layout.  The
// sentinel errors declared here let handlers translate failure modes
// into HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registering a staff account with an
// email that is already taken.  Handlers map it to HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrTableNotFound is returned when a dining table lookup yields no
// rows.  Handlers map it to HTTP 404.
var ErrTableNotFound = errors.New("dining table not found")
