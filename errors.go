// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned when a closed segment is used.
	ErrClosed = errors.New("segment is closed")
	// ErrAlreadyOwned is returned when this process already owns a live segment with the same name.
	ErrAlreadyOwned = errors.New("segment is already owned by this process")
)

// Error is the only error kind returned by segment operations.
// It records the failed step and the backing object name,
// and wraps the underlying platform error.
type Error struct {
	// Op is one of "validate", "create", "open", "map", "init", "flush", "unmap", "close", "destroy".
	Op string
	// Name is the platform-qualified object name.
	Name string
	Err  error
}

func newError(op, name string, err error) *Error {
	return &Error{Op: op, Name: name, Err: err}
}

func (e *Error) Error() string {
	return runtime.GOOS + " shm " + e.Op + " " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error, so that errors.Cause from github.com/pkg/errors
// returns the original platform error.
func (e *Error) Cause() error {
	return e.Err
}

// IsExist returns true, if the error reports, that the backing object already exists.
// For an owner it means, that somebody else has created an object with the same name.
func IsExist(err error) bool {
	return errors.Is(err, os.ErrExist)
}

// IsNotExist returns true, if the error reports, that the backing object does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
