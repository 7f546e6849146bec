package xref

import "errors"

var (
	// ErrFrozen is returned when a mutating operation is attempted on a
	// builder that has already produced its snapshot.
	ErrFrozen = errors.New("builder already frozen")

	// ErrNotFound is returned when a definition is absent from the
	// snapshot's path table.
	ErrNotFound = errors.New("definition not found")
)
