// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across repositories so
// handlers can map failure scenarios onto HTTP responses without inspecting
// driver error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique email
// index. Handlers translate this into the duplicate-account response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a row does not exist. Handlers translate
// this into HTTP 404 (or a generic 401 on the auth paths, which must not
// reveal account existence).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed due to
// conflicting state, such as deleting a department that still has
// employees or inserting a second billing record for the same project and
// period. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
