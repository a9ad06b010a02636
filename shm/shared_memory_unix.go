// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build darwin || freebsd || linux
// +build darwin freebsd linux

package shm

import (
	"os"

	"github.com/pkg/errors"
)

// namePrefix is prepended to every object name, so that other processes
// can find the object using the same convention.
const namePrefix = "/shmem_"

type memoryObject struct {
	name string
	file *os.File
}

// QualifiedName returns the name of the backing object for the given user-supplied name.
// On unix it is the name with a fixed '/shmem_' prefix. global is ignored.
func QualifiedName(name string, global bool) string {
	return namePrefix + name
}

func createMemoryObject(name string, size int64, perm os.FileMode) (*memoryObject, error) {
	file, err := shmOpen(name, os.O_CREATE|os.O_EXCL|os.O_RDWR, perm)
	if err != nil {
		return nil, errors.Wrap(err, "shm open failed")
	}
	obj := &memoryObject{name: name, file: file}
	if err = obj.Truncate(size); err != nil {
		obj.Destroy()
		return nil, errors.Wrap(err, "truncate failed")
	}
	return obj, nil
}

func openMemoryObject(name string) (*memoryObject, error) {
	file, err := shmOpen(name, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "shm open failed")
	}
	return &memoryObject{name: name, file: file}, nil
}

// Destroy closes the object and removes it by name.
// The object is removed even if closing has failed. The first error is returned.
func (obj *memoryObject) Destroy() error {
	closeErr := obj.Close()
	unlinkErr := doDestroyMemoryObject(obj.name)
	if closeErr != nil {
		return errors.Wrap(closeErr, "close failed")
	}
	if unlinkErr != nil {
		return errors.Wrap(unlinkErr, "unlink failed")
	}
	return nil
}

// Name returns the name of the object as it was given to Create or Open.
func (obj *memoryObject) Name() string {
	return obj.name
}

// Close closes object's descriptor. It is safe to call it several times.
func (obj *memoryObject) Close() error {
	err := obj.file.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

func (obj *memoryObject) Truncate(size int64) error {
	return obj.file.Truncate(size)
}

// Size returns current object size, or 0, if it cannot be obtained.
// Use Stat to tell an empty object from a failure.
func (obj *memoryObject) Size() int64 {
	fileInfo, err := obj.Stat()
	if err != nil {
		return 0
	}
	return fileInfo.Size()
}

// Stat returns the object's file info.
func (obj *memoryObject) Stat() (os.FileInfo, error) {
	return obj.file.Stat()
}

// Fd returns object's descriptor.
func (obj *memoryObject) Fd() uintptr {
	return obj.file.Fd()
}

// File returns an *os.File for the object's descriptor.
func (obj *memoryObject) File() *os.File {
	return obj.file
}

func destroyMemoryObject(name string) error {
	return doDestroyMemoryObject(name)
}
