package location

import "errors"

var (
	// ErrLocationNotFound is returned when a location ID does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrLocationExists is returned when seeding a location whose ID
	// is already present.
	ErrLocationExists = errors.New("location already exists")
)
