// ABOUTME: Sentinel errors shared by every Repository implementation.
// ABOUTME: Wrapped with context via %w; match with errors.Is.
package storage

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no entity matches an ID or prefix.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousPrefix is returned when an ID prefix matches more than one entity.
	ErrAmbiguousPrefix = errors.New("ambiguous prefix")

	// ErrNotAthlete is returned when a record targets a profile without the athlete role.
	ErrNotAthlete = errors.New("profile is not an athlete")

	// ErrDuplicateEmail is returned when a profile reuses a registered email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// IsFullID reports whether s has the shape of a complete UUID.
func IsFullID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}
