package rangetree

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound is matched by every PathNotFoundError.
	ErrPathNotFound = errors.New("path not found in range tree")
	// ErrNotLeaf means a walk used every dimension without reaching a hand matrix.
	ErrNotLeaf = errors.New("path does not end at a hand matrix")
)

// PathNotFoundError reports a selection label absent from the tree at the
// depth where it was looked up. Callers normally avoid it with RepairPath.
type PathNotFoundError struct {
	Dimension string
	Label     string
	Depth     int
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("label %q not found for dimension %q at depth %d", e.Label, e.Dimension, e.Depth)
}

// Is reports whether target is ErrPathNotFound.
func (e *PathNotFoundError) Is(target error) bool { return target == ErrPathNotFound }
