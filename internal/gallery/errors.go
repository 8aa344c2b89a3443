package gallery

import (
	"errors"
	"fmt"

	"github.com/Oxyrus/photowall/internal/storage"
)

// IOError indicates that asset or record I/O failed while the operation
// was in flight. The operation was aborted with prior state untouched.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("gallery: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// storeErr passes the storage sentinels through untouched and wraps
// everything else as an IOError, so callers can always distinguish
// "bad request" from "infrastructure failed".
func storeErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrConflict) ||
		errors.Is(err, storage.ErrInvalid) {
		return err
	}
	return &IOError{Op: op, Err: err}
}
