package db

import "fmt"

// PersistenceError reports a failed batch write. Because batches are not
// transactional across tables, rows written by earlier batches remain in
// place when a later batch fails.
type PersistenceError struct {
	Table string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed on table %s: %v", e.Table, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
