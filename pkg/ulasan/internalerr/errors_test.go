package internalerr

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestShapeMismatchIs(t *testing.T) {
	err := fmt.Errorf("fit: %w", &ShapeMismatchError{What: "labels", Got: 2, Want: 3})

	if !errors.Is(err, ErrShapeMismatch) {
		t.Error("wrapped ShapeMismatchError should match ErrShapeMismatch")
	}
	if errors.Is(err, ErrResourceLoad) {
		t.Error("ShapeMismatchError should not match ErrResourceLoad")
	}

	var sm *ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatal("errors.As should find ShapeMismatchError")
	}
	if sm.Got != 2 || sm.Want != 3 {
		t.Errorf("unexpected dims: got %d want %d", sm.Got, sm.Want)
	}
}

func TestResourceErrorUnwrap(t *testing.T) {
	err := &ResourceError{Name: "root-words", Err: os.ErrNotExist}

	if !errors.Is(err, ErrResourceLoad) {
		t.Error("ResourceError should match ErrResourceLoad")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("ResourceError should unwrap to the cause")
	}
}
