// Package repository contains data access logic separated from HTTP
// handlers. Sentinel errors defined here let handlers translate storage
// failures into HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrPosterNotFound is returned when a poster id does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrPosterNotFound = errors.New("poster not found")

// ErrNavLinkNotFound is returned when a nav link id does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNavLinkNotFound = errors.New("nav link not found")
