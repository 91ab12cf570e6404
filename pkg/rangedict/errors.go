package rangedict

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence is matched by every PersistenceError.
	ErrPersistence = errors.New("range dict persistence failed")
	// ErrNoFile means a registry record has never been saved.
	ErrNoFile = errors.New("range dict has no file")
)

// PersistenceError reports a failed read or write of a registry or range
// dict file. Op is "load" or "save".
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
