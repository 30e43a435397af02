package bind

import "errors"

var (
	// ErrNotIntrospectable is returned when a marked value has no fields to bind.
	ErrNotIntrospectable = errors.New("value is not introspectable")

	// ErrNilValue is returned when a marked value is nil.
	ErrNilValue = errors.New("cannot bind nil value")

	// ErrInvalidPrefix is returned for an explicitly empty prefix.
	ErrInvalidPrefix = errors.New("bind prefix cannot be empty")

	// ErrDuplicateName is returned when two bindings resolve to the same name.
	ErrDuplicateName = errors.New("duplicate bind name")

	// ErrInvalidName is returned when a bind name cannot be written as an
	// @name placeholder, usually because the factory separator is not "_".
	ErrInvalidName = errors.New("invalid bind parameter name")

	// ErrMissingParam is returned when a statement references a name nothing binds.
	ErrMissingParam = errors.New("missing bind parameter")
)
