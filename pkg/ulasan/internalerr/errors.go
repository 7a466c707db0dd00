package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrResourceLoad  = errors.New("resource load failed")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrUnseenLabel   = errors.New("label not seen at fit time")
	ErrNotFitted     = errors.New("estimator not fitted")
)

// ShapeMismatchError reports a dimension that disagrees with what a model
// or transform declared. It matches ErrShapeMismatch under errors.Is.
type ShapeMismatchError struct {
	What string
	Got  int
	Want int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s: got %d, want %d", e.What, e.Got, e.Want)
}

// Is lets callers test with errors.Is(err, ErrShapeMismatch).
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// ResourceError wraps a failure to load a named lexical resource.
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("load resource %q: %v", e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is lets callers test with errors.Is(err, ErrResourceLoad).
func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceLoad
}
