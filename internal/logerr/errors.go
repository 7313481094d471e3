// Package logerr defines the error kinds returned by the paging and search
// operations. Callers match them with errors.Is; transports map each kind to
// their own status codes.
package logerr

import "errors"

var (
	// ErrNotFound is returned for an unknown file id, or for a registered
	// file whose path did not exist when the catalog was built.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for structurally invalid input such as
	// a page number below 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when a search continuation starts on a page
	// past the end of the file.
	ErrOutOfRange = errors.New("out of range")

	// ErrNoMatch is returned when a search scanned to completion without a hit.
	ErrNoMatch = errors.New("no match")
)

// Kind returns a short machine-readable name for err, or "internal" when err
// is not one of the kinds above.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	default:
		return "internal"
	}
}
