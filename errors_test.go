// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm

import (
	"os"
	"runtime"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := newError("open", "/shmem_test", errors.New("boom"))
	assert.Equal(t, runtime.GOOS+" shm open /shmem_test: boom", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	inner := &os.PathError{Op: "open", Path: "/shmem_test", Err: syscall.ENOENT}
	err := error(newError("open", "/shmem_test", inner))
	assert.True(t, IsNotExist(err))
	assert.False(t, IsExist(err))
	assert.Equal(t, inner, errors.Cause(err))
	assert.True(t, errors.Is(errors.Wrap(err, "attach"), os.ErrNotExist))

	err = newError("create", "/shmem_test", &os.PathError{Op: "open", Path: "/shmem_test", Err: os.ErrExist})
	assert.True(t, IsExist(err))
	assert.False(t, IsNotExist(err))

	err = newError("create", "/shmem_test", ErrAlreadyOwned)
	assert.False(t, IsExist(err))
	assert.True(t, errors.Is(err, ErrAlreadyOwned))
}
