package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned by a Backend when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrStorage marks failures of the persistence layer (I/O, encoding).
	ErrStorage = errors.New("storage failure")
	// ErrReadOnly is returned for writes against a read-only store.
	ErrReadOnly = errors.New("store is in read-only mode")
	// ErrValidation marks records or form submissions with missing or illegal fields.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden is returned when a mutation is attempted outside maintainer mode.
	ErrForbidden = errors.New("mutations require maintainer mode")
	// ErrRecordNotFound is returned when no record matches the given id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrUnknownKind is returned for an unregistered entity kind.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrUnsupported is returned for operations a kind does not offer.
	ErrUnsupported = errors.New("operation not supported for this kind")
)

// StorageError wraps err so that errors.Is(err, ErrStorage) holds while
// the original cause stays reachable.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: err}
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }
