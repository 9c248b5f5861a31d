package store

import (
	"errors"
	"fmt"
)

// ErrDuplicateSection is returned by Register when two sections normalize to
// the same name.
var ErrDuplicateSection = errors.New("duplicate section")

// ErrReservedName is returned by Register for section names the document
// format reserves for its own bookkeeping.
var ErrReservedName = errors.New("reserved section name")

// MigrationError wraps a failure from one section's migration function. The
// section falls back to its default; loading continues for the rest.
type MigrationError struct {
	Section string
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrate section %q: %v", e.Section, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// ValidationError reports a path-derived field that is missing or empty on
// the live value at save time. The section cannot be saved without it; other
// sections still save.
type ValidationError struct {
	Section string
	Param   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("section %q: path parameter %q is missing or empty", e.Section, e.Param)
}
