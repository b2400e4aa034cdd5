package recipe

import "errors"

// Errors returned by the repository. Returned errors wrap these sentinels
// together with file, line or name context; check with errors.Is.
var (
	// ErrFormat is returned when the recipe file contains a line that
	// cannot be classified, or an ingredient line that does not split
	// into exactly three fields.
	ErrFormat = errors.New("kokbok: malformed recipe file")

	// ErrOutOfRange is returned for an index outside [0, Count()).
	ErrOutOfRange = errors.New("kokbok: index out of range")

	// ErrNotFound is returned when a delete or lookup matches no stored
	// recipe by name.
	ErrNotFound = errors.New("kokbok: recipe not found")

	// ErrExists is returned when adding or renaming would produce two
	// recipes with the same name.
	ErrExists = errors.New("kokbok: recipe already exists")

	// ErrIO is returned for storage failures: unresolvable paths, missing
	// or unreadable files, and failed writes. The underlying os error is
	// wrapped alongside it.
	ErrIO = errors.New("kokbok: storage failure")
)
