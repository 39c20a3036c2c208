package resolve

import (
	"errors"
	"fmt"
)

// ErrInternal matches every InternalError.
var ErrInternal = errors.New("internal consistency failure")

// ErrNotFound is returned by Load for classes absent from the classpath.
var ErrNotFound = errors.New("class not found")

// InternalError reports a class file that contradicts the symbol graph: a
// header naming a different class, a bridge method without the synthetic
// marker, an inner class claimed by two outers or an unresolvable type
// variable. It is fatal for the run.
type InternalError struct {
	Class string
	Op    string
	Msg   string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", ErrInternal, e.Class, e.Op, e.Msg)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
}

func internalErrorf(class *Symbol, op, format string, args ...any) error {
	return &InternalError{Class: class.FlatName(), Op: op, Msg: fmt.Sprintf(format, args...)}
}
