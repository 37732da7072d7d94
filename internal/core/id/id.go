// Package id generates entity identifiers. All entities use UUIDv7: the
// leading timestamp bits keep inserts roughly append-ordered in Postgres
// B-trees and make ids sortable by creation time without an extra column.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type shared by every entity.
type ID = uuid.UUID

// New returns a fresh UUIDv7. The random source failing is the only error
// path, in which case a V4 id is returned instead of propagating an error
// through every constructor.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v7
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse panics on malformed input. For constants and tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero ID.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
