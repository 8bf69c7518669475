package types

import "errors"

// Domain errors shared by repositories, services and handlers.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrNoCoordinates   = errors.New("latitude and longitude are required")
	ErrUpstream        = errors.New("weather provider error")
)
